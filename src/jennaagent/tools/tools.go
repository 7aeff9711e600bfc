// Package tools provides barrel-style re-exports for the built-in tools and
// a builder for the default tool set.
package tools

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	tool_editfile "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_editfile"
	tool_listfiles "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_listfiles"
	tool_readfile "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_readfile"
	tool_runshell "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_runshell"
	tool_websearch "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_websearch"
	tool_writefile "github.com/jenna-ai/jenna/src/jennaagent/tools/tool_writefile"
)

// Tool name constants - re-exported from individual packages
const (
	ListFilesName       = tool_listfiles.Name
	ReadFileName        = tool_readfile.Name
	WriteFileName       = tool_writefile.Name
	EditFileName        = tool_editfile.Name
	RunShellCommandName = tool_runshell.Name
	WebSearchName       = tool_websearch.Name
)

func ListFilesTool(fs afero.Fs) (agent.Tool, error) { return tool_listfiles.Tool(fs) }
func ReadFileTool(fs afero.Fs) (agent.Tool, error)  { return tool_readfile.Tool(fs) }
func WriteFileTool(fs afero.Fs) (agent.Tool, error) { return tool_writefile.Tool(fs) }
func EditFileTool(fs afero.Fs) (agent.Tool, error)  { return tool_editfile.Tool(fs) }
func RunShellCommandTool() (agent.Tool, error)      { return tool_runshell.Tool() }
func WebSearchTool() (agent.Tool, error) {
	return tool_websearch.Tool(os.Getenv("FIRECRAWL_API_KEY"))
}

// Default builds the built-in tool set. The enabled map filters by tool
// name: a missing entry means enabled, an explicit false removes the tool.
func Default(fs afero.Fs, enabled map[string]bool) ([]agent.Tool, error) {
	constructors := []struct {
		name  string
		build func() (agent.Tool, error)
	}{
		{ListFilesName, func() (agent.Tool, error) { return ListFilesTool(fs) }},
		{ReadFileName, func() (agent.Tool, error) { return ReadFileTool(fs) }},
		{WriteFileName, func() (agent.Tool, error) { return WriteFileTool(fs) }},
		{EditFileName, func() (agent.Tool, error) { return EditFileTool(fs) }},
		{RunShellCommandName, RunShellCommandTool},
		{WebSearchName, WebSearchTool},
	}

	var out []agent.Tool
	for _, c := range constructors {
		if on, ok := enabled[c.name]; ok && !on {
			continue
		}
		tool, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("failed to build tool %s: %w", c.name, err)
		}
		out = append(out, tool)
	}
	return out, nil
}
