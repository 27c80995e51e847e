package models

import (
	"context"
)

// Provider is the interface every LLM backend must satisfy. Implementations
// must be safe for concurrent use: health and usage tracking are shared
// across all in-flight calls to the same provider.
type Provider interface {
	// Name returns the provider identifier, e.g. "claude" or "openai".
	Name() string

	// Complete sends a request and returns the full response. Cancellation
	// through ctx abandons the call without recording a health outcome.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Capabilities returns the static descriptor for the provider's model.
	Capabilities() ModelCapabilities

	// Health returns a snapshot of the provider's circuit-breaker state.
	Health() HealthStatus

	// UsageStats returns a consistent snapshot of the running counters.
	UsageStats() UsageStats
}

// CacheStore defines the interface for response cache operations.
type CacheStore interface {
	Get(ctx context.Context, key string) (*CompletionResponse, error)
	Set(ctx context.Context, key string, response *CompletionResponse) error
	Delete(ctx context.Context, key string) error
	Close() error
}
