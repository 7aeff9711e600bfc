package llmclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenna-ai/jenna/src/aisdk"
)

func newTestClient(baseURL string) *Client {
	return NewClient(aisdk.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		RetryCount: 2,
		RetryDelay: time.Millisecond,
	})
}

func TestCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{
		Model:    "test-model",
		Messages: []*aisdk.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "hello there", resp.Choices[0].Message.Content)
	assert.Equal(t, 8, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "test-model"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad key", apiErr.Message)
	assert.True(t, apiErr.IsAuthError())
	assert.False(t, apiErr.IsRetryable())
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": "chatcmpl-1", "choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.CreateChatCompletion(context.Background(), &aisdk.ChatCompletionRequest{Model: "test-model"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "ok", resp.Choices[0].Message.Content)
}

func TestCreateChatCompletionStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, `data: {"id":"c1","choices":[{"index":0,"delta":{"role":"assistant","content":"hel"}}]}`+"\n\n")
		io.WriteString(w, `data: {"id":"c1","choices":[{"index":0,"delta":{"content":"lo"}}]}`+"\n\n")
		io.WriteString(w, `data: {"id":"c1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`+"\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stream, err := client.CreateChatCompletionStream(context.Background(), &aisdk.ChatCompletionRequest{Model: "test-model"})
	require.NoError(t, err)
	defer stream.Close()

	agg := aisdk.NewStreamAggregator()
	for {
		chunk, err := stream.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		agg.AddChunk(chunk)
	}

	assert.Equal(t, "hello", agg.Content())
	assert.Equal(t, "stop", agg.FinishReason)
}

func TestStreamToolCallFragments(t *testing.T) {
	// Argument fragments arrive as JSON strings split at arbitrary byte
	// boundaries. The assembled arguments must parse as one JSON object.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"readFile","arguments":""}}]}}]}`+"\n\n")
		io.WriteString(w, `data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"path\":"}}]}}]}`+"\n\n")
		io.WriteString(w, `data: {"choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"a.txt\"}"}}]}}]}`+"\n\n")
		io.WriteString(w, `data: {"choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`+"\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stream, err := client.CreateChatCompletionStream(context.Background(), &aisdk.ChatCompletionRequest{Model: "test-model"})
	require.NoError(t, err)
	defer stream.Close()

	agg := aisdk.NewStreamAggregator()
	for {
		chunk, err := stream.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		agg.AddChunk(chunk)
	}

	calls := agg.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "readFile", calls[0].Function.Name)
	assert.JSONEq(t, `{"path": "a.txt"}`, string(calls[0].Function.Arguments))
}

func TestStreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateChatCompletionStream(context.Background(), &aisdk.ChatCompletionRequest{Model: "test-model"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.IsRetryable())
}
