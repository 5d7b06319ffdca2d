package llms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/pkg/ollama"
)

// OllamaProvider implements Provider against a local Ollama daemon.
type OllamaProvider struct {
	config *config.LLMProviderConfig
	client *ollama.Client
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string               `json:"model"`
	Messages []ollamaChatMessage  `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  ollamaChatOptions    `json:"options"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// NewOllamaProvider constructs an OllamaProvider from a validated config.
func NewOllamaProvider(cfg *config.LLMProviderConfig) (*OllamaProvider, error) {
	return &OllamaProvider{
		config: cfg,
		client: ollama.NewClientWithTimeout(cfg.Host, time.Duration(cfg.Timeout)*time.Second),
	}, nil
}

// Respond implements Provider.
func (p *OllamaProvider) Respond(ctx context.Context, history []Message) (string, error) {
	msgs := make([]ollamaChatMessage, len(history))
	for i, m := range history {
		msgs[i] = ollamaChatMessage{Role: m.Role, Content: m.Content}
	}

	req := ollamaChatRequest{
		Model:    p.config.Model,
		Messages: msgs,
		Options:  ollamaChatOptions{Temperature: p.config.Temperature},
	}

	resp, err := p.client.MakeRequest(ctx, "/api/chat", req)
	if err != nil {
		kind, msg := ClassifyError("ollama", p.config.Host, err)
		if kind == KindUnexpected {
			return "", &ProviderError{Kind: KindUnexpected, Message: "provider ollama failed", Err: err}
		}
		return msg, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{Kind: KindUnexpected, Message: fmt.Sprintf("ollama returned status %d: %s", resp.StatusCode, string(body))}
	}

	var parsed ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Kind: KindUnexpected, Message: "failed to decode ollama response", Err: err}
	}

	return parsed.Message.Content, nil
}

func (p *OllamaProvider) GetModelName() string    { return p.config.Model }
func (p *OllamaProvider) GetMaxTokens() int       { return p.config.MaxTokens }
func (p *OllamaProvider) GetTemperature() float64 { return p.config.Temperature }
func (p *OllamaProvider) IsLocal() bool           { return true }
func (p *OllamaProvider) Close() error            { return nil }
