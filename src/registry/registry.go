// Package registry holds the static model catalog: every model the chat API
// accepts, with its provider tag and display name. The catalog is fixed at
// compile time and never mutated.
package registry

import (
	"errors"
	"fmt"
)

// Provider identifies which hosted API serves a model.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
)

// ErrModelNotFound is returned when a model identifier has no registry entry.
var ErrModelNotFound = errors.New("model not found")

// Model describes a single selectable model.
type Model struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Provider Provider `json:"provider"`
}

var models = []Model{
	{Name: "Gemini 2.5 Flash", Value: "gemini-2.5-flash", Provider: ProviderGoogle},
	{Name: "Gemini 2.5 Pro", Value: "gemini-2.5-pro", Provider: ProviderGoogle},
	{Name: "GPT-4o", Value: "gpt-4o", Provider: ProviderOpenAI},
	{Name: "GPT-4o Mini", Value: "gpt-4o-mini", Provider: ProviderOpenAI},
	{Name: "Qwen 3 32B", Value: "qwen/qwen3-32b", Provider: ProviderGroq},
	{Name: "GPT-OSS 120B", Value: "openai/gpt-oss-120b", Provider: ProviderGroq},
	{Name: "GPT-OSS 20B", Value: "openai/gpt-oss-20b", Provider: ProviderGroq},
}

// Models returns the full catalog in declaration order.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// Resolve matches a model identifier exactly against the catalog.
func Resolve(modelID string) (Model, error) {
	for _, m := range models {
		if m.Value == modelID {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %s", ErrModelNotFound, modelID)
}

// IsKnown reports whether a model identifier has a registry entry.
func IsKnown(modelID string) bool {
	_, err := Resolve(modelID)
	return err == nil
}
