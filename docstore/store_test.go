package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLStore_UpsertAndLoad(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	doc := Document{
		CID: "cid-1",
		Memory: []MessageRecord{
			{Role: "system", Content: "you are a helpful assistant", Time: "2026-01-01 00:00:00", ModelUsed: "deepseek-r1:14b"},
			{Role: "user", Content: "hello", Time: "2026-01-01 00:00:01", ModelUsed: "deepseek-r1:14b"},
		},
		ModelProvider: "deepseek-r1:14b",
		LastUpdate:    time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Upsert(ctx, doc))

	got, ok, err := store.Load(ctx, "cid-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Memory, 2)
	require.Equal(t, "hello", got.Memory[1].Content)
}

func TestSQLStore_LoadMissing(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLStore_UpsertOverwrites(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := Document{CID: "cid-2", Memory: []MessageRecord{{Role: "system", Content: "sys"}}, ModelProvider: "p1", LastUpdate: time.Now()}
	require.NoError(t, store.Upsert(ctx, base))

	base.Memory = append(base.Memory, MessageRecord{Role: "user", Content: "hi"})
	base.ModelProvider = "p2"
	require.NoError(t, store.Upsert(ctx, base))

	got, ok, err := store.Load(ctx, "cid-2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Memory, 2)
	require.Equal(t, "p2", got.ModelProvider)
}
