package models

import (
	"errors"
	"fmt"
)

// ErrAllProvidersUnavailable is returned when every fallback candidate is
// unhealthy. It is fatal for the request and never retried internally.
var ErrAllProvidersUnavailable = errors.New("all providers unavailable")

// ValidationError reports bad input shape or prohibited content. It is local
// and user-correctable; no provider call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports missing or invalid construction parameters,
// such as an absent API key. It is fatal at construction time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// ContextError reports an invalid context budget at construction time.
type ContextError struct {
	Reason string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("context error: %s", e.Reason)
}

// ProviderError wraps a network, timeout or quota failure from a backend.
// It is recorded against the provider's health and surfaced to the caller
// verbatim; retry policy belongs to the caller.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
