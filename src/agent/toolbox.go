package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jenna-ai/jenna/src/aisdk"
)

// Toolbox holds the tools active for a single turn, keyed by name.
type Toolbox struct {
	tools map[string]Tool
}

// NewToolbox creates an empty toolbox.
func NewToolbox() *Toolbox {
	return &Toolbox{
		tools: make(map[string]Tool),
	}
}

// RegisterTool registers a tool. Registering a name that already exists is an
// error; use ReplaceTool for last-write-wins semantics.
func (tb *Toolbox) RegisterTool(tool Tool) error {
	if tool.GetName() == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := tb.tools[tool.GetName()]; exists {
		return fmt.Errorf("tool %s is already registered", tool.GetName())
	}
	tb.tools[tool.GetName()] = tool
	return nil
}

// ReplaceTool registers a tool, silently overwriting any existing tool with
// the same name. Collisions between built-in and server-discovered tools
// resolve this way; the overwrite is logged so operators can spot it.
func (tb *Toolbox) ReplaceTool(tool Tool) {
	if _, exists := tb.tools[tool.GetName()]; exists {
		slog.Warn("tool name collision, later registration wins", "tool", tool.GetName())
	}
	tb.tools[tool.GetName()] = tool
}

// GetTool returns a specific tool by name.
func (tb *Toolbox) GetTool(name string) (Tool, bool) {
	tool, exists := tb.tools[name]
	return tool, exists
}

// HasTool checks if a tool is available.
func (tb *Toolbox) HasTool(name string) bool {
	_, exists := tb.tools[name]
	return exists
}

// Len returns the number of registered tools.
func (tb *Toolbox) Len() int {
	return len(tb.tools)
}

// Tools returns the registered tools sorted by name for stable iteration.
func (tb *Toolbox) Tools() []Tool {
	out := make([]Tool, 0, len(tb.tools))
	for _, tool := range tb.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// ExecuteTool executes a tool call against the registered tools.
func (tb *Toolbox) ExecuteTool(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	tool, exists := tb.tools[call.Function.Name]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", call.Function.Name)
	}
	return tool.Execute(ctx, call)
}

// ToChatTool converts a Tool to the ChatTool wire format.
func ToChatTool(tool Tool) *aisdk.ChatTool {
	return &aisdk.ChatTool{
		Type: tool.GetType(),
		Function: aisdk.ChatToolFunction{
			Name:        tool.GetName(),
			Description: tool.GetDescription(),
			Parameters:  tool.GetParameters(),
		},
	}
}

// ToChatTools converts a list of tools to the ChatTool wire format.
func ToChatTools(tools []Tool) []*aisdk.ChatTool {
	out := make([]*aisdk.ChatTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, ToChatTool(tool))
	}
	return out
}
