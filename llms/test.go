package llms

import (
	"context"

	"github.com/jeeva2334/asklly-agents-v1/config"
)

// TestProvider returns a canned response regardless of history. It exists
// for integration tests that need a Provider without a live backend.
type TestProvider struct {
	config   *config.LLMProviderConfig
	canned   string
}

const defaultCannedResponse = "This is a test response."

// NewTestProvider constructs the canned-response provider.
func NewTestProvider(cfg *config.LLMProviderConfig) *TestProvider {
	return &TestProvider{config: cfg, canned: defaultCannedResponse}
}

// Respond implements Provider.
func (p *TestProvider) Respond(ctx context.Context, history []Message) (string, error) {
	return p.canned, nil
}

func (p *TestProvider) GetModelName() string    { return p.config.Model }
func (p *TestProvider) GetMaxTokens() int       { return p.config.MaxTokens }
func (p *TestProvider) GetTemperature() float64 { return p.config.Temperature }
func (p *TestProvider) IsLocal() bool           { return true }
func (p *TestProvider) Close() error            { return nil }
