package llms

import (
	"fmt"
	"sync"

	"github.com/jeeva2334/asklly-agents-v1/config"
	asklyregistry "github.com/jeeva2334/asklly-agents-v1/registry"
)

// Registry manages named Provider instances, one per session (spec section 5
// says provider clients are constructed per session, never process-wide
// singletons).
type Registry struct {
	*asklyregistry.BaseRegistry[Provider]
	mu sync.RWMutex
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{BaseRegistry: asklyregistry.NewBaseRegistry[Provider]()}
}

// RegisterProvider adds a constructed provider under name.
func (r *Registry) RegisterProvider(name string, provider Provider) error {
	if name == "" {
		return fmt.Errorf("llms: provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("llms: provider cannot be nil")
	}
	return r.Register(name, provider)
}

// CreateFromConfig builds and registers a Provider for the given backend
// type. An unknown backend is a ConfigurationError (fatal at construction per
// spec section 6).
func (r *Registry) CreateFromConfig(name string, cfg *config.LLMProviderConfig) (Provider, error) {
	if cfg == nil {
		return nil, &ProviderError{Kind: KindConfiguration, Message: "llm config cannot be nil"}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ProviderError{Kind: KindConfiguration, Message: "invalid llm config", Err: err}
	}

	WarnIfUnsafe(cfg.Type, cfg.IsLocal)

	var provider Provider
	var err error

	switch cfg.Type {
	case "openai":
		provider, err = NewOpenAIProvider(cfg)
	case "ollama":
		provider, err = NewOllamaProvider(cfg)
	case "test":
		provider, err = NewTestProvider(cfg), nil
	default:
		return nil, &ProviderError{Kind: KindConfiguration, Message: fmt.Sprintf("unknown provider: %s", cfg.Type)}
	}
	if err != nil {
		return nil, err
	}

	if err := r.RegisterProvider(name, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// GetProvider looks up a registered provider by name.
func (r *Registry) GetProvider(name string) (Provider, error) {
	provider, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("llms: provider %q not found", name)
	}
	return provider, nil
}
