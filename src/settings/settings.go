// Package settings reads the user's settings file. The file is re-read on
// every load so edits take effect on the next turn without a restart.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Transport types accepted for tool server entries.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

// ToolServerConfig describes one external tool server entry.
type ToolServerConfig struct {
	TransportType string            `json:"transportType"`
	Command       string            `json:"command,omitempty"`
	Args          []string          `json:"args,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	URL           string            `json:"url,omitempty"`
}

// Settings is the on-disk settings document.
type Settings struct {
	MCPServers map[string]ToolServerConfig `json:"mcpServers,omitempty"`
}

// DefaultPath returns the settings file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "jenna", "settings.json")
}

// Load reads the settings file at the default path, creating an empty
// document first if none exists.
func Load() (*Settings, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the settings file at an explicit path.
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := writeEmpty(path); err != nil {
			return nil, err
		}
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return &s, nil
}

func writeEmpty(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	return nil
}
