package llmclient

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jenna-ai/jenna/src/aisdk"
)

// streamReader parses a text/event-stream body of chat completion chunks.
type streamReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

func newStreamReader(body io.ReadCloser) *streamReader {
	scanner := bufio.NewScanner(body)
	// Individual deltas are small, but tool call argument fragments and
	// annotation payloads can push single events past the default limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &streamReader{
		body:    body,
		scanner: scanner,
	}
}

// Read returns the next chunk from the stream, or io.EOF once the provider
// sends the [DONE] terminator or closes the connection.
func (s *streamReader) Read() (*aisdk.StreamChunk, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "[DONE]" {
			s.done = true
			return nil, io.EOF
		}

		var wire wireChunk
		if err := json.Unmarshal([]byte(payload), &wire); err != nil {
			return nil, fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		return wire.toChunk(), nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read failed: %w", err)
	}

	s.done = true
	return nil, io.EOF
}

// Close closes the underlying response body.
func (s *streamReader) Close() error {
	return s.body.Close()
}

// Wire types mirror the provider's chunk encoding. Tool call arguments
// arrive as JSON *string* fragments, so they need their own decode step
// before they can live in aisdk.FunctionCall's raw bytes.

type wireChunk struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
}

type wireChoice struct {
	Index        int       `json:"index"`
	Delta        wireDelta `json:"delta"`
	FinishReason string    `json:"finish_reason"`
}

type wireDelta struct {
	Role             string             `json:"role"`
	Content          string             `json:"content"`
	Reasoning        string             `json:"reasoning"`
	ReasoningContent string             `json:"reasoning_content"`
	ToolCalls        []wireToolCall     `json:"tool_calls"`
	Annotations      []aisdk.Annotation `json:"annotations"`
}

type wireToolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

func (w *wireChunk) toChunk() *aisdk.StreamChunk {
	chunk := &aisdk.StreamChunk{
		ID:      w.ID,
		Object:  w.Object,
		Created: w.Created,
		Model:   w.Model,
	}
	for _, wc := range w.Choices {
		reasoning := wc.Delta.Reasoning
		if reasoning == "" {
			reasoning = wc.Delta.ReasoningContent
		}
		delta := &aisdk.Message{
			Role:        wc.Delta.Role,
			Content:     wc.Delta.Content,
			Reasoning:   reasoning,
			Annotations: wc.Delta.Annotations,
		}
		for _, tc := range wc.Delta.ToolCalls {
			delta.ToolCalls = append(delta.ToolCalls, aisdk.ToolCall{
				Index: tc.Index,
				ID:    tc.ID,
				Type:  tc.Type,
				Function: aisdk.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: json.RawMessage(tc.Function.Arguments),
				},
			})
		}
		chunk.Choices = append(chunk.Choices, aisdk.Choice{
			Index:        wc.Index,
			Delta:        delta,
			FinishReason: wc.FinishReason,
		})
	}
	return chunk
}
