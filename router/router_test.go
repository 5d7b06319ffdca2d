package router

import (
	"context"
	"testing"

	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgent(t *testing.T, name string, typ agent.Type) agent.Agent {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	mem := memory.New("cid-"+name, "sys", "test-model", false, store, nil)
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})

	switch typ {
	case agent.TypeCasual:
		return agent.NewCasualAgent(name, "casual", mem, provider)
	case agent.TypeCoder:
		return agent.NewCoderAgent(name, "coder", mem, provider)
	default:
		return agent.NewCasualAgent(name, "casual", mem, provider)
	}
}

func TestRouter_SelectAgent_FallsBackToCasualWithNoEmbedder(t *testing.T) {
	r := New(nil, []string{"en"})
	casual := newAgent(t, "casual", agent.TypeCasual)
	coder := newAgent(t, "coder", agent.TypeCoder)
	require.NoError(t, r.Register(casual, "friendly small talk", ExampleBank{"en": {"hello there"}}))
	require.NoError(t, r.Register(coder, "writes and explains code", ExampleBank{"en": {"write a function"}}))

	got, err := r.SelectAgent(context.Background(), "hello, how are you?")
	require.NoError(t, err)
	assert.Equal(t, casual, got)
}

func TestRouter_SelectAgent_KeywordPrefersMatchingDescription(t *testing.T) {
	r := New(nil, []string{"en"})
	casual := newAgent(t, "casual", agent.TypeCasual)
	coder := newAgent(t, "coder", agent.TypeCoder)
	require.NoError(t, r.Register(casual, "friendly small talk greeting chat", ExampleBank{}))
	require.NoError(t, r.Register(coder, "writes python code functions programming", ExampleBank{}))

	got, err := r.SelectAgent(context.Background(), "write me a python function that reverses a string")
	require.NoError(t, err)
	assert.Equal(t, coder, got)
}

func TestRouter_SelectAgent_ReturnsMemberOfRegisteredSet(t *testing.T) {
	r := New(nil, []string{"en"})
	casual := newAgent(t, "casual", agent.TypeCasual)
	coder := newAgent(t, "coder", agent.TypeCoder)
	require.NoError(t, r.Register(casual, "friendly small talk", ExampleBank{}))
	require.NoError(t, r.Register(coder, "writes code", ExampleBank{}))

	got, err := r.SelectAgent(context.Background(), "asdkjashdkjashd completely unrelated gibberish")
	require.NoError(t, err)
	assert.Contains(t, []agent.Agent{casual, coder}, got)
}

func TestRouter_SelectAgent_NoAgentsRegistered(t *testing.T) {
	r := New(nil, []string{"en"})
	_, err := r.SelectAgent(context.Background(), "hi")
	assert.Error(t, err)
}
