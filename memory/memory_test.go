package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) docstore.Store {
	t.Helper()
	store, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIdealContext_ParsesParamHint(t *testing.T) {
	got, ok := IdealContext("deepseek-r1:14b")
	require.True(t, ok)
	assert.Equal(t, 8192, got)

	got, ok = IdealContext("llama3.2:7b")
	require.True(t, ok)
	assert.Equal(t, 4096, got)

	_, ok = IdealContext("gpt-4o")
	assert.False(t, ok)
}

func TestIdealContext_Monotonic(t *testing.T) {
	models := []string{"3b", "7b", "13b", "32b", "70b"}
	prev := 0
	for _, name := range models {
		got, ok := IdealContext(name)
		require.True(t, ok)
		assert.GreaterOrEqual(t, got, prev)
		// Must be a power of two.
		assert.Equal(t, got&(got-1), 0)
		prev = got
	}
}

func TestMemory_PushAndGet(t *testing.T) {
	m := New("cid-1", "you are helpful", "llama3.2:7b", false, newTestStore(t), nil)
	require.Len(t, m.Get(), 1)

	idx := m.Push(context.Background(), "user", "hello", "", "")
	assert.Equal(t, 1, idx)
	assert.Len(t, m.Get(), 2)
	assert.Equal(t, "hello", m.Get()[1].Content)
}

func TestMemory_Push_DuplicateAgainstSystemPromptIsWarnOnly(t *testing.T) {
	// With only the system message present, the duplicate check compares
	// the new content against the system prompt itself. This is
	// intentionally preserved: it must warn, not block, the push.
	m := New("cid-2", "same-text", "llama3.2:7b", false, newTestStore(t), nil)
	idx := m.Push(context.Background(), "user", "same-text", "", "")
	assert.Equal(t, 1, idx)
	assert.Len(t, m.Get(), 2)
}

func TestMemory_Clear(t *testing.T) {
	m := New("cid-3", "sys", "llama3.2:7b", false, newTestStore(t), nil)
	m.Push(context.Background(), "user", "a", "", "")
	m.Push(context.Background(), "assistant", "b", "", "")
	require.Len(t, m.Get(), 3)

	m.Clear(context.Background())
	assert.Len(t, m.Get(), 1)
	assert.Equal(t, "sys", m.Get()[0].Content)
}

func TestMemory_ClearSection_InclusiveWithinNonSystemRegion(t *testing.T) {
	m := New("cid-4", "sys", "llama3.2:7b", false, newTestStore(t), nil)
	ctx := context.Background()
	m.Push(ctx, "user", "m0", "", "")
	m.Push(ctx, "assistant", "m1", "", "")
	m.Push(ctx, "user", "m2", "", "")
	m.Push(ctx, "assistant", "m3", "", "")
	require.Len(t, m.Get(), 5) // system + 4

	// Remove non-system indices [1,2] inclusive, i.e. "m1" and "m2".
	m.ClearSection(ctx, 1, 2)

	got := m.Get()
	require.Len(t, got, 3)
	assert.Equal(t, "sys", got[0].Content)
	assert.Equal(t, "m0", got[1].Content)
	assert.Equal(t, "m3", got[2].Content)
}

func TestMemory_ClearSection_ClampsOutOfRangeIndices(t *testing.T) {
	m := New("cid-5", "sys", "llama3.2:7b", false, newTestStore(t), nil)
	ctx := context.Background()
	m.Push(ctx, "user", "m0", "", "")

	m.ClearSection(ctx, -5, 500)
	got := m.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "sys", got[0].Content)
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(ctx context.Context, text string, opts SummarizeOptions) (string, error) {
	return "summary:" + text[:10], nil
}

func TestMemory_Compress_ShortensLongMessages(t *testing.T) {
	m := New("cid-6", "sys", "llama3.2:7b", true, newTestStore(t), stubSummarizer{})
	long := strings.Repeat("x", 2000)
	m.Push(context.Background(), "user", long, "", "")

	m.Compress(context.Background())
	got := m.Get()
	assert.True(t, strings.HasPrefix(got[1].Content, "summary:"))
}

func TestMemory_Push_TriggersCompressionWhenOverIdealContext(t *testing.T) {
	m := New("cid-7", "sys", "llama3.2:7b", true, newTestStore(t), stubSummarizer{})
	ctx := context.Background()
	// Push one long message first so a subsequent push's pre-check has
	// something in the buffer to compress.
	m.Push(ctx, "assistant", strings.Repeat("y", 2000), "", "")

	idealCtx, ok := IdealContext("llama3.2:7b")
	require.True(t, ok)
	over := strings.Repeat("z", int(float64(idealCtx)*compressThresholdFactor)+100)
	m.Push(ctx, "user", over, "", "")

	got := m.Get()
	assert.True(t, strings.HasPrefix(got[1].Content, "summary:"))
}

func TestMemory_LoadMemory_DropsTrailingUnansweredUserTurn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := New("cid-8", "sys", "llama3.2:7b", false, store, nil)
	first.Push(ctx, "user", "question", "", "")

	reloaded := New("cid-8", "sys", "llama3.2:7b", false, store, nil)
	got := reloaded.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "sys", got[0].Content)
}
