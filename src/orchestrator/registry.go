package orchestrator

import (
	"strings"

	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/models"
	"github.com/quillforge/quillforge/src/provider"
)

// Registry owns the concrete provider instances. The table is populated at
// construction and read-only afterwards, so concurrent lookups need no
// locking.
type Registry struct {
	providers     map[string]models.Provider
	fallbackOrder []string
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]models.Provider),
	}
}

// Register adds a provider. The first registration of a name also appends it
// to the fallback order; re-registering replaces the instance in place.
func (r *Registry) Register(p models.Provider) {
	if _, exists := r.providers[p.Name()]; !exists {
		r.fallbackOrder = append(r.fallbackOrder, p.Name())
	}
	r.providers[p.Name()] = p
}

// SetFallbackOrder replaces the priority order used when a preferred
// provider is unhealthy.
func (r *Registry) SetFallbackOrder(order []string) {
	r.fallbackOrder = order
}

func (r *Registry) Provider(name string) (models.Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) FallbackOrder() []string {
	return r.fallbackOrder
}

// BuildRegistry constructs providers for every configured credential.
// Construction validates credentials but performs no network calls; it
// fails fast when no provider can be built.
func BuildRegistry(cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	if cfg.Anthropic.APIKey != "" {
		claude, err := provider.NewClaudeProvider(&cfg.Anthropic)
		if err != nil {
			return nil, err
		}
		registry.Register(claude)
	}

	if cfg.OpenAI.APIKey != "" {
		openAI, err := provider.NewOpenAIProvider(&cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		registry.Register(openAI)
	}

	if len(registry.providers) == 0 {
		return nil, &models.ConfigurationError{Reason: "no provider credentials configured"}
	}

	if len(cfg.Orchestrator.FallbackOrder) > 0 {
		order := make([]string, 0, len(cfg.Orchestrator.FallbackOrder))
		for _, name := range cfg.Orchestrator.FallbackOrder {
			if _, ok := registry.providers[name]; ok {
				order = append(order, name)
			}
		}
		if len(order) > 0 {
			registry.SetFallbackOrder(order)
		}
	}

	return registry, nil
}

// providerNameForModel maps a model identifier to its owning backend, or ""
// when no backend claims it.
func providerNameForModel(model string) string {
	switch {
	case strings.HasPrefix(model, "claude"):
		return "claude"
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "chatgpt"):
		return "openai"
	default:
		return ""
	}
}
