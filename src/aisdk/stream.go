package aisdk

import (
	"errors"
	"io"
	"strings"
)

// StreamCallback is a function called for each chunk in a stream.
type StreamCallback func(chunk *StreamChunk) error

// StreamToCallback reads a stream and calls the callback for each chunk.
func StreamToCallback(stream StreamInterface, callback StreamCallback) error {
	defer stream.Close()

	for {
		chunk, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if chunk == nil {
			return nil
		}

		if err := callback(chunk); err != nil {
			return err
		}
	}
}

// StreamAggregator assembles a streamed response into a final message. Text,
// reasoning, annotations, and partial tool calls are accumulated as chunks
// arrive; tool call argument fragments are stitched together by stream index.
type StreamAggregator struct {
	ID      string
	Created int64
	Model   string

	content     strings.Builder
	reasoning   strings.Builder
	toolCalls   []ToolCall
	annotations []Annotation

	FinishReason string
}

// NewStreamAggregator creates a new stream aggregator.
func NewStreamAggregator() *StreamAggregator {
	return &StreamAggregator{}
}

// AddChunk processes a stream chunk and updates the aggregated state.
func (a *StreamAggregator) AddChunk(chunk *StreamChunk) {
	if a.ID == "" {
		a.ID = chunk.ID
	}
	if a.Created == 0 {
		a.Created = chunk.Created
	}
	if a.Model == "" {
		a.Model = chunk.Model
	}

	if len(chunk.Choices) == 0 {
		return
	}
	choice := chunk.Choices[0]

	if choice.Delta != nil {
		a.content.WriteString(choice.Delta.Content)
		a.reasoning.WriteString(choice.Delta.Reasoning)
		a.annotations = append(a.annotations, choice.Delta.Annotations...)
		for _, tc := range choice.Delta.ToolCalls {
			a.addToolCallDelta(tc)
		}
	}

	if choice.FinishReason != "" {
		a.FinishReason = choice.FinishReason
	}
}

// addToolCallDelta merges a partial tool call into the accumulated list. A
// delta carrying an ID opens a new call; later fragments extend an open
// call's argument string.
func (a *StreamAggregator) addToolCallDelta(tc ToolCall) {
	if tc.ID != "" || tc.Index >= len(a.toolCalls) {
		a.toolCalls = append(a.toolCalls, ToolCall{
			Index: tc.Index,
			ID:    tc.ID,
			Type:  tc.Type,
			Function: FunctionCall{
				Name:      tc.Function.Name,
				Arguments: append([]byte(nil), tc.Function.Arguments...),
			},
		})
		return
	}

	// Fragments with a positive index extend the call at that index.
	// Providers that omit the index stream their fragments strictly for the
	// most recently opened call, so a zero index routes there.
	existing := &a.toolCalls[len(a.toolCalls)-1]
	if tc.Index > 0 && tc.Index < len(a.toolCalls) {
		existing = &a.toolCalls[tc.Index]
	}
	if tc.Function.Name != "" {
		existing.Function.Name += tc.Function.Name
	}
	existing.Function.Arguments = append(existing.Function.Arguments, tc.Function.Arguments...)
}

// Content returns the text accumulated so far.
func (a *StreamAggregator) Content() string {
	return a.content.String()
}

// Reasoning returns the reasoning text accumulated so far.
func (a *StreamAggregator) Reasoning() string {
	return a.reasoning.String()
}

// ToolCalls returns the fully assembled tool calls.
func (a *StreamAggregator) ToolCalls() []ToolCall {
	return a.toolCalls
}

// Annotations returns the source citations collected from the stream.
func (a *StreamAggregator) Annotations() []Annotation {
	return a.annotations
}

// Message converts the aggregated stream into a complete assistant message.
func (a *StreamAggregator) Message() *Message {
	return &Message{
		Role:        "assistant",
		Content:     a.content.String(),
		Reasoning:   a.reasoning.String(),
		ToolCalls:   a.toolCalls,
		Annotations: a.annotations,
	}
}
