package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/llms"
)

func TestResourceAcquisitionError_WrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &ResourceAcquisitionError{Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestBuildAgents_ReturnsOneOfEachVariant(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := &Manager{deps: Deps{Store: store}, sessions: make(map[string]*Session)}
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})

	agents, mcpAgent := m.buildAgents(context.Background(), "cid-1", provider, nil)
	assert.Nil(t, mcpAgent)

	seen := make(map[agent.Type]bool)
	for _, a := range agents {
		seen[a.Type()] = true
	}
	for _, want := range []agent.Type{agent.TypeCasual, agent.TypeCoder, agent.TypeFile, agent.TypePlanner, agent.TypeBrowser, agent.TypeRetrieval} {
		assert.True(t, seen[want], "expected a %s agent to be built", want)
	}
}

func TestDefaultRegistrations_CoversEveryBuiltAgent(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := &Manager{deps: Deps{Store: store}, sessions: make(map[string]*Session)}
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})
	agents, _ := m.buildAgents(context.Background(), "cid-2", provider, nil)

	regs := defaultRegistrations(agents)
	assert.Len(t, regs, len(agents))
	for _, r := range regs {
		assert.NotEmpty(t, r.description)
		assert.NotEmpty(t, r.examples["en"])
	}
}

func TestBuildAgents_McpCommandUnreachable_SkipsWithoutFailingTheRest(t *testing.T) {
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{MCP: config.MCP{Command: "/nonexistent/mcp-server-binary"}}
	m := &Manager{deps: Deps{Store: store, Config: cfg}, sessions: make(map[string]*Session)}
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})

	agents, mcpAgent := m.buildAgents(context.Background(), "cid-3", provider, nil)

	assert.Nil(t, mcpAgent)
	for _, a := range agents {
		assert.NotEqual(t, agent.TypeMCP, a.Type())
	}
}

func TestManager_GetSession_UnknownCIDReturnsFalse(t *testing.T) {
	m := New(Deps{})
	_, ok := m.GetSession("does-not-exist")
	assert.False(t, ok)
}

func TestManager_CloseSession_UnknownCIDIsNoOp(t *testing.T) {
	m := New(Deps{})
	m.CloseSession("does-not-exist")
}
