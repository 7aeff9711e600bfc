package llmclient

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jenna-ai/jenna/src/aisdk"
	"github.com/jenna-ai/jenna/src/registry"
)

// Provider endpoints. All three expose the OpenAI chat completions protocol.
const (
	googleBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	openaiBaseURL = "https://api.openai.com/v1"
	groqBaseURL   = "https://api.groq.com/openai/v1"
)

var _ aisdk.ModelClient = (*ModelClient)(nil)

// ModelClient is a chat completions client bound to a specific model.
type ModelClient struct {
	client *Client
	model  registry.Model
}

// ForModel builds a client for a resolved registry entry. An unrecognized
// provider tag here means the registry itself is misconfigured.
func ForModel(model registry.Model, logger *slog.Logger) (*ModelClient, error) {
	var baseURL, apiKey string

	switch model.Provider {
	case registry.ProviderGoogle:
		baseURL = googleBaseURL
		apiKey = firstEnv("GOOGLE_GENERATIVE_AI_API_KEY", "GEMINI_API_KEY")
	case registry.ProviderOpenAI:
		baseURL = openaiBaseURL
		apiKey = os.Getenv("OPENAI_API_KEY")
	case registry.ProviderGroq:
		baseURL = groqBaseURL
		apiKey = os.Getenv("GROQ_API_KEY")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, model.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, model.Provider)
	}

	client := NewClient(aisdk.ClientConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Logger:  logger,
	})

	return &ModelClient{client: client, model: model}, nil
}

// ModelID returns the provider-specific model identifier.
func (mc *ModelClient) ModelID() string {
	return mc.model.Value
}

// CreateChatCompletion creates a chat completion with the bound model.
func (mc *ModelClient) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	req.Model = mc.model.Value
	return mc.client.CreateChatCompletion(ctx, req)
}

// CreateChatCompletionStream creates a streaming chat completion with the bound model.
func (mc *ModelClient) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	req.Model = mc.model.Value
	return mc.client.CreateChatCompletionStream(ctx, req)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
