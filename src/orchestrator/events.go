package orchestrator

import "encoding/json"

// Event type tags on the streamed wire format.
const (
	EventTextDelta      = "text-delta"
	EventReasoningDelta = "reasoning-delta"
	EventSource         = "source"
	EventToolCall       = "tool-call"
	EventToolResult     = "tool-result"
	EventFinish         = "finish"
	EventError          = "error"
)

// Event is one typed streaming event. Fields are populated according to
// Type; unused fields are omitted from the encoding.
type Event struct {
	Type string `json:"type"`

	// text-delta, reasoning-delta
	Delta string `json:"delta,omitempty"`

	// source
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`

	// tool-call, tool-result
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	IsError    bool            `json:"isError,omitempty"`

	// finish
	FinishReason string `json:"finishReason,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

// Sink receives events in generation order. A Send error aborts the turn.
type Sink interface {
	Send(event Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event Event) error

func (f SinkFunc) Send(event Event) error { return f(event) }

func textDeltaEvent(delta string) Event {
	return Event{Type: EventTextDelta, Delta: delta}
}

func reasoningDeltaEvent(delta string) Event {
	return Event{Type: EventReasoningDelta, Delta: delta}
}

func sourceEvent(url, title string) Event {
	return Event{Type: EventSource, URL: url, Title: title}
}

func toolCallEvent(id, name string, input json.RawMessage) Event {
	return Event{Type: EventToolCall, ToolCallID: id, ToolName: name, Input: input}
}

func toolResultEvent(id, name string, output []byte, isError bool) Event {
	// Server tools can return plain text; keep the event well-formed.
	raw := json.RawMessage(output)
	if !json.Valid(output) {
		raw, _ = json.Marshal(string(output))
	}
	return Event{Type: EventToolResult, ToolCallID: id, ToolName: name, Output: raw, IsError: isError}
}

func finishEvent(reason string) Event {
	return Event{Type: EventFinish, FinishReason: reason}
}
