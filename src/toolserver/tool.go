package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/aisdk"
)

var _ agent.Tool = (*serverTool)(nil)

// serverTool adapts one remote tool to the agent.Tool interface. Calls are
// forwarded over the owning connection.
type serverTool struct {
	client      mcpClient
	name        string
	description string
	schema      *jsonschema.Schema
}

func newServerTool(cl mcpClient, t mcp.Tool) (*serverTool, error) {
	// The wire schema is already plain JSON Schema; round-trip it into the
	// shared schema type used by the built-in tools.
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input schema: %w", err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse input schema: %w", err)
	}

	return &serverTool{
		client:      cl,
		name:        t.Name,
		description: t.Description,
		schema:      &schema,
	}, nil
}

func (s *serverTool) GetType() string { return "function" }

func (s *serverTool) GetName() string { return s.name }

func (s *serverTool) GetDescription() string { return s.description }

func (s *serverTool) GetParameters() *jsonschema.Schema { return s.schema }

// Execute forwards the call to the remote server. Remote failures come back
// as error payloads so the model can react to them.
func (s *serverTool) Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	var args map[string]interface{}
	if len(call.Function.Arguments) > 0 {
		if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
			return errorResponse(fmt.Sprintf("failed to parse input: %v", err)), nil
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = s.name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return errorResponse(fmt.Sprintf("tool call failed: %v", err)), nil
	}

	text := flattenContent(result.Content)
	if result.IsError {
		return errorResponse(text), nil
	}

	return &aisdk.ToolResponse{
		Type:    "success",
		Content: []byte(text),
	}, nil
}

// flattenContent joins the text parts of a result. Non-text parts are noted
// by type rather than dropped silently.
func flattenContent(contents []mcp.Content) string {
	var sb strings.Builder
	for _, content := range contents {
		if tc, ok := mcp.AsTextContent(content); ok {
			sb.WriteString(tc.Text)
			continue
		}
		fmt.Fprintf(&sb, "[unsupported content type %T]", content)
	}
	return sb.String()
}

func errorResponse(msg string) *aisdk.ToolResponse {
	content, _ := json.Marshal(map[string]string{"error": msg})
	return &aisdk.ToolResponse{
		Type:    "error",
		Content: content,
		IsError: true,
	}
}
