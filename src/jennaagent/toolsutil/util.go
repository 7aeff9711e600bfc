// Package toolsutil holds helpers shared by the built-in tools.
package toolsutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Package-level logger for tools
var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger allows setting a custom logger for the tools package
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the package logger
func GetLogger() *slog.Logger {
	return logger
}

var (
	ErrUnsafePath   = errors.New("unsafe path")
	ErrFileTooLarge = errors.New("file too large")
)

// IsPathSafe checks if a path is safe for file operations
func IsPathSafe(path string) bool {
	cleanPath := filepath.Clean(path)

	dangerousPaths := []string{
		"/etc",
		"/bin",
		"/sbin",
		"/usr/bin",
		"/usr/sbin",
		"/boot",
		"/sys",
		"/proc",
		"/dev",
		"/lib",
		"/lib64",
		"/usr/lib",
		"/usr/lib64",
	}

	for _, dangerous := range dangerousPaths {
		if cleanPath == dangerous || strings.HasPrefix(cleanPath, dangerous+"/") {
			return false
		}
	}

	// Path traversal and null bytes
	if strings.Contains(cleanPath, "../") || strings.Contains(cleanPath, "..\\") {
		return false
	}
	if strings.Contains(cleanPath, "\x00") {
		return false
	}

	return true
}

// ValidateFileSize checks if file size is within limits
func ValidateFileSize(size int64) error {
	const maxFileSize = 100 * 1024 * 1024 // 100MB
	if size > maxFileSize {
		return fmt.Errorf("%w: file size %s exceeds maximum %s", ErrFileTooLarge, FormatBytes(size), FormatBytes(maxFileSize))
	}
	return nil
}

// FormatBytes formats byte count as human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
