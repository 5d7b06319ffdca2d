package interaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/jeeva2334/asklly-agents-v1/router"
)

func newTestAgent(t *testing.T, name string, typ agent.Type) agent.Agent {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	mem := memory.New("cid-"+name, "sys", "test-model", false, store, nil)
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})

	switch typ {
	case agent.TypeCoder:
		return agent.NewCoderAgent(name, "writes code", mem, provider)
	default:
		return agent.NewCasualAgent(name, "friendly chat", mem, provider)
	}
}

func newTestInteraction(t *testing.T, agents ...agent.Agent) *Interaction {
	t.Helper()
	rtr := router.New(nil, []string{"en"})
	for _, a := range agents {
		switch a.Type() {
		case agent.TypeCoder:
			require.NoError(t, rtr.Register(a, "writes python code functions programming", router.ExampleBank{"en": {"write a function"}}))
		default:
			require.NoError(t, rtr.Register(a, "friendly small talk and greetings", router.ExampleBank{"en": {"hello there"}}))
		}
	}
	return New(agents, rtr, nil, []string{"en"})
}

func TestInteraction_SetQueryThenThink_CapturesAnswer(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	it := newTestInteraction(t, casual)

	it.SetQuery("hello, how are you?", "bot", nil)
	ok, err := it.Think(context.Background(), "uid", "org")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "This is a test response.", it.LastAnswer())
}

func TestInteraction_Think_NoQueuedQueryReturnsFalse(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	it := newTestInteraction(t, casual)

	ok, err := it.Think(context.Background(), "uid", "org")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInteraction_Think_RejectsConcurrentCall(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	it := newTestInteraction(t, casual)
	it.SetQuery("hello", "bot", nil)
	it.isGenerating.Store(true)

	ok, err := it.Think(context.Background(), "uid", "org")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestInteraction_AiName_FallsBackWithNoCasualAgent(t *testing.T) {
	coder := newTestAgent(t, "coder", agent.TypeCoder)
	it := newTestInteraction(t, coder)
	assert.Equal(t, "jarvis", it.AiName())
}

func TestInteraction_AiName_ReturnsCasualAgentName(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	it := newTestInteraction(t, casual)
	assert.Equal(t, "casual", it.AiName())
}

func TestInteraction_CrossAgentHandoff_PushesPriorAnswerIntoNewAgentMemory(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	coder := newTestAgent(t, "coder", agent.TypeCoder)
	it := newTestInteraction(t, casual, coder)

	it.SetQuery("hello, how are you?", "bot", nil)
	_, err := it.Think(context.Background(), "uid", "org")
	require.NoError(t, err)

	it.SetQuery("write me a python function please", "bot", nil)
	_, err = it.Think(context.Background(), "uid", "org")
	require.NoError(t, err)

	msgs := coder.Memory().Get()
	// system prompt, handed-off answer, then the coder's own user/assistant turn
	require.Len(t, msgs, 4)
	var sawHandoff bool
	if m := msgs[1]; m.Role == "assistant" && m.Content == "This is a test response." {
		sawHandoff = true
	}
	assert.True(t, sawHandoff, "expected prior answer to be threaded into the newly selected agent's memory")
}

func TestInteraction_Close_IsIdempotent(t *testing.T) {
	casual := newTestAgent(t, "casual", agent.TypeCasual)
	it := newTestInteraction(t, casual)
	it.Close()
	it.Close()
}
