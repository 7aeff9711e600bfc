package aisdk

import (
	"context"
)

// ModelClient represents a client bound to a specific model.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req *ChatCompletionRequest) (StreamInterface, error)
	ModelID() string
}

// StreamInterface defines the interface for reading streaming responses.
type StreamInterface interface {
	// Read reads the next chunk from the stream. It returns io.EOF when the
	// stream is complete.
	Read() (*StreamChunk, error)

	// Close closes the stream.
	Close() error
}
