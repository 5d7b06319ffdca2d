package llms

import (
	"context"
	"errors"
	"testing"

	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	kind, msg := ClassifyError("openai", "api.openai.com", errors.New("rate limited, try again later"))
	assert.Equal(t, KindTransientProvider, kind)
	assert.Contains(t, msg, "overloaded")

	kind, msg = ClassifyError("ollama", "localhost:11434", errors.New("dial tcp: connection refused"))
	assert.Equal(t, KindConnection, kind)
	assert.Contains(t, msg, "offline")

	kind, _ = ClassifyError("openai", "api.openai.com", errors.New("malformed json"))
	assert.Equal(t, KindUnexpected, kind)

	kind, msg = ClassifyError("openai", "", context.Canceled)
	assert.Equal(t, KindUserInterrupt, kind)
	assert.Equal(t, RequestExit, msg)
}

func TestCheckReachable_Localhost(t *testing.T) {
	assert.True(t, CheckReachable(context.Background(), "localhost:11434"))
	assert.False(t, CheckReachable(context.Background(), ""))
}

func TestTestProvider_Respond(t *testing.T) {
	p := NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})
	out, err := p.Respond(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, p.IsLocal())
}

func TestRegistry_CreateFromConfig_UnknownBackend(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateFromConfig("bad", &config.LLMProviderConfig{Type: "not-a-backend", Model: "m", Host: "h"})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindConfiguration, perr.Kind)
}

func TestRegistry_CreateFromConfig_Test(t *testing.T) {
	r := NewRegistry()
	p, err := r.CreateFromConfig("t", &config.LLMProviderConfig{Type: "test", Model: "m", Host: "h"})
	require.NoError(t, err)
	require.NotNil(t, p)

	got, err := r.GetProvider("t")
	require.NoError(t, err)
	assert.Same(t, p, got)
}
