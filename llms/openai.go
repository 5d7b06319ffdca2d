package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/internal/httpclient"
)

// OpenAIProvider implements Provider against the OpenAI-compatible chat
// completions API (also used for any deepinfra/openrouter-style mirror via
// cfg.Host).
type OpenAIProvider struct {
	config     *config.LLMProviderConfig
	httpClient *httpclient.Client
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string               `json:"model"`
	Messages    []openAIChatMessage  `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type openAIChatChoice struct {
	Message openAIChatMessage `json:"message"`
}

type openAIChatResponse struct {
	Choices []openAIChatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAIProvider constructs an OpenAIProvider from a validated config.
func NewOpenAIProvider(cfg *config.LLMProviderConfig) (*OpenAIProvider, error) {
	return &OpenAIProvider{
		config: cfg,
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}),
			httpclient.WithHeaderParser(httpclient.ParseOpenAIRateLimitHeaders),
		),
	}, nil
}

// Respond implements Provider.
func (p *OpenAIProvider) Respond(ctx context.Context, history []Message) (string, error) {
	msgs := make([]openAIChatMessage, len(history))
	for i, m := range history {
		msgs[i] = openAIChatMessage{Role: m.Role, Content: m.Content}
	}

	reqBody, err := json.Marshal(openAIChatRequest{
		Model:       p.config.Model,
		Messages:    msgs,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", &ProviderError{Kind: KindUnexpected, Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Host+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", &ProviderError{Kind: KindUnexpected, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		kind, msg := ClassifyError("openai", p.config.Host, err)
		if kind == KindUnexpected {
			return "", &ProviderError{Kind: KindUnexpected, Message: fmt.Sprintf("provider %s failed", "openai"), Err: err}
		}
		return msg, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Kind: KindUnexpected, Message: "failed to read response", Err: err}
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ProviderError{Kind: KindUnexpected, Message: "failed to decode response", Err: err}
	}
	if parsed.Error != nil {
		kind, msg := ClassifyError("openai", p.config.Host, fmt.Errorf("%s", parsed.Error.Message))
		if kind == KindUnexpected {
			return "", &ProviderError{Kind: KindUnexpected, Message: fmt.Sprintf("openai API error: %s", parsed.Error.Message)}
		}
		return msg, nil
	}
	if len(parsed.Choices) == 0 {
		return "", &ProviderError{Kind: KindUnexpected, Message: "openai response is empty"}
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) GetModelName() string     { return p.config.Model }
func (p *OpenAIProvider) GetMaxTokens() int        { return p.config.MaxTokens }
func (p *OpenAIProvider) GetTemperature() float64  { return p.config.Temperature }
func (p *OpenAIProvider) IsLocal() bool            { return p.config.IsLocal }
func (p *OpenAIProvider) Close() error             { return nil }
