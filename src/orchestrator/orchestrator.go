// Package orchestrator is the single entry point the writing domain uses to
// run AI completions. It screens content, trims history to the target
// model's budget, de-duplicates through the response cache and routes to a
// healthy provider.
package orchestrator

import (
	"context"

	"github.com/quillforge/quillforge/src/cache"
	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/contextmgr"
	"github.com/quillforge/quillforge/src/filter"
	"github.com/quillforge/quillforge/src/models"
)

type Service struct {
	registry        *Registry
	cache           models.CacheStore
	contextMgr      *contextmgr.Service
	filter          *filter.Service
	filterEnabled   bool
	defaultProvider string
}

// NewService wires the orchestration pipeline. It fails with a ContextError
// when the configured context budget is invalid.
func NewService(registry *Registry, cacheStore models.CacheStore, cfg *config.OrchestratorConfig) (*Service, error) {
	contextMgr, err := contextmgr.New(cfg.MaxContextLength)
	if err != nil {
		return nil, err
	}

	return &Service{
		registry:        registry,
		cache:           cacheStore,
		contextMgr:      contextMgr,
		filter:          filter.New(),
		filterEnabled:   cfg.FilterEnabled,
		defaultProvider: cfg.DefaultProvider,
	}, nil
}

// Complete runs one completion: filter, trim, cache lookup, provider call,
// cache populate. Provider failures propagate verbatim; the provider has
// already recorded them against its own health. Duplicate concurrent misses
// may both reach the provider; the last cache write wins.
func (s *Service) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	if len(req.Messages) == 0 {
		return nil, &models.ValidationError{Field: "messages", Reason: "must not be empty"}
	}

	if s.filterEnabled {
		for _, msg := range req.Messages {
			if _, err := s.filter.FilterContent(msg.Content); err != nil {
				return nil, err
			}
		}
	}

	prov, err := s.selectProvider(req.Model)
	if err != nil {
		return nil, err
	}

	trimmed := *req
	trimmed.Messages = s.contextMgr.ManageContextForWindow(req.Messages, prov.Capabilities().ContextWindow)

	key := cache.GenerateCacheKey(&trimmed)
	if cached, cacheErr := s.cache.Get(ctx, key); cacheErr == nil && cached != nil {
		cached.CacheHit = true
		return cached, nil
	}

	resp, err := prov.Complete(ctx, &trimmed)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed cache write must not fail the completion.
	_ = s.cache.Set(ctx, key, resp)

	return resp, nil
}

// selectProvider returns the first healthy candidate: the backend owning the
// requested model, then the configured default, then the fallback order.
func (s *Service) selectProvider(model string) (models.Provider, error) {
	seen := make(map[string]bool)
	candidates := make([]string, 0, len(s.registry.FallbackOrder())+2)

	appendCandidate := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	appendCandidate(providerNameForModel(model))
	appendCandidate(s.defaultProvider)
	for _, name := range s.registry.FallbackOrder() {
		appendCandidate(name)
	}

	for _, name := range candidates {
		if p, ok := s.registry.Provider(name); ok && p.Health().IsHealthy {
			return p, nil
		}
	}

	return nil, models.ErrAllProvidersUnavailable
}

// ProviderHealth returns a health snapshot for one provider.
func (s *Service) ProviderHealth(name string) (models.HealthStatus, error) {
	p, ok := s.registry.Provider(name)
	if !ok {
		return models.HealthStatus{}, &models.ValidationError{Field: "provider", Reason: "unknown provider " + name}
	}
	return p.Health(), nil
}

// UsageStats returns a usage snapshot for one provider.
func (s *Service) UsageStats(name string) (models.UsageStats, error) {
	p, ok := s.registry.Provider(name)
	if !ok {
		return models.UsageStats{}, &models.ValidationError{Field: "provider", Reason: "unknown provider " + name}
	}
	return p.UsageStats(), nil
}

// FilterContent exposes the content screen to callers that validate text
// outside a completion, e.g. before persisting a draft.
func (s *Service) FilterContent(text string) (string, error) {
	return s.filter.FilterContent(text)
}
