package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownModels(t *testing.T) {
	validProviders := map[Provider]bool{
		ProviderGoogle: true,
		ProviderOpenAI: true,
		ProviderGroq:   true,
	}

	for _, m := range Models() {
		resolved, err := Resolve(m.Value)
		require.NoError(t, err, "model %s should resolve", m.Value)
		assert.Equal(t, m.Value, resolved.Value)
		assert.True(t, validProviders[resolved.Provider], "model %s has provider %s", m.Value, resolved.Provider)
	}
}

func TestResolveUnknownModel(t *testing.T) {
	_, err := Resolve("claude-3-opus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelNotFound))
}

func TestResolveIsExactMatch(t *testing.T) {
	_, err := Resolve("gpt-4")
	assert.Error(t, err, "prefix of a known model must not resolve")

	_, err = Resolve("GPT-4o")
	assert.Error(t, err, "matching is case sensitive")
}

func TestModelsReturnsCopy(t *testing.T) {
	list := Models()
	require.NotEmpty(t, list)
	list[0].Value = "mutated"

	again, err := Resolve("gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", again.Value)
}
