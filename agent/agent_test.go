package agent

import (
	"context"
	"testing"

	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReasoning_WithEnvelope(t *testing.T) {
	answer, reasoning := extractReasoning("<reasoning>because X</reasoning>the answer is Y")
	assert.Equal(t, "the answer is Y", answer)
	assert.Equal(t, "because X", reasoning)
}

func TestExtractReasoning_WithoutEnvelope(t *testing.T) {
	answer, reasoning := extractReasoning("just an answer")
	assert.Equal(t, "just an answer", answer)
	assert.Empty(t, reasoning)
}

func newTestMemory(t *testing.T, cid string) *memory.Memory {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return memory.New(cid, "you are a helpful assistant", "test-model", false, store, nil)
}

func TestCasualAgent_Process_PushesUserThenAssistant(t *testing.T) {
	provider := llms.NewTestProvider(&config.LLMProviderConfig{Model: "test-model"})
	mem := newTestMemory(t, "cid-casual")
	a := NewCasualAgent("casual", "you are friendly", mem, provider)

	answer, _, err := a.Process(context.Background(), "hello, how are you?", "")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)

	got := mem.Get()
	require.Len(t, got, 3) // system + user + assistant
	assert.Equal(t, "user", got[1].Role)
	assert.Equal(t, "assistant", got[2].Role)
}
