package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ReregisterReplacesWithoutDuplicatingFallback(t *testing.T) {
	registry := NewRegistry()

	first := healthyProvider("claude")
	registry.Register(first)
	registry.Register(healthyProvider("openai"))

	replacement := healthyProvider("claude")
	registry.Register(replacement)

	assert.Equal(t, []string{"claude", "openai"}, registry.FallbackOrder())

	got, ok := registry.Provider("claude")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestProviderNameForModel(t *testing.T) {
	assert.Equal(t, "claude", providerNameForModel("claude-3-5-sonnet-20241022"))
	assert.Equal(t, "openai", providerNameForModel("gpt-4o-mini"))
	assert.Equal(t, "openai", providerNameForModel("o1-preview"))
	assert.Equal(t, "", providerNameForModel("mistral-large"))
}
