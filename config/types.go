package config

import "fmt"

// LLMProviderConfig configures one named LLM backend (openai, ollama, test, ...).
type LLMProviderConfig struct {
	Type        string  // "ollama", "openai", "test"
	Model       string  // model name
	APIKey      string  // API key (required for openai)
	Host        string  // host for ollama or custom endpoint
	Temperature float64
	MaxTokens   int
	Timeout     int // seconds
	IsLocal     bool
}

// Validate checks required fields and value ranges.
func (c *LLMProviderConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Type == "openai" && c.APIKey == "" {
		return fmt.Errorf("api_key is required for openai")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// SetDefaults fills zero-valued fields with sensible provider defaults.
func (c *LLMProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
	if c.Model == "" {
		c.Model = "llama3.2"
	}
	if c.Host == "" {
		switch c.Type {
		case "openai":
			c.Host = "https://api.openai.com/v1"
		case "ollama":
			c.Host = "http://localhost:11434"
		default:
			c.Host = "http://localhost:11434"
		}
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.Timeout == 0 {
		c.Timeout = 60
	}
}

// DatabaseProviderConfig configures the vector database used by the retrieval agent.
type DatabaseProviderConfig struct {
	Type     string // "qdrant"
	Host     string
	Port     int
	APIKey   string
	Timeout  int
	UseTLS   bool
	Insecure bool
}

// Validate checks required fields and value ranges.
func (c *DatabaseProviderConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("port must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// SetDefaults fills zero-valued fields with the qdrant defaults.
func (c *DatabaseProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "qdrant"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
}

// EmbedderProviderConfig configures the router's embedding backend.
type EmbedderProviderConfig struct {
	Type       string // "ollama", "openai", "cohere", "local"
	Model      string
	Host       string
	APIKey     string
	Dimension  int
	Timeout    int
	MaxRetries int
	BatchSize  int
}

// Validate checks required fields and value ranges. The "local" type needs
// neither a model name nor a host since it never leaves the process.
func (c *EmbedderProviderConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if c.Type == "local" {
		return nil
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("dimension must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	return nil
}

// SetDefaults defaults Type to "local", which needs no other field; for
// any other type it fills zero-valued fields with the ollama defaults.
func (c *EmbedderProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "local"
	}
	if c.Type == "local" {
		return
	}
	if c.Model == "" {
		c.Model = "nomic-embed-text"
	}
	if c.Host == "" {
		c.Host = "http://localhost:11434"
	}
	if c.Dimension == 0 {
		c.Dimension = 768
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BatchSize == 0 {
		c.BatchSize = 96
	}
}
