package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkProcessedFirstTimeOnly(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "evt_1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestIsProcessed(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	done, err := store.IsProcessed(ctx, "evt_unknown")
	require.NoError(t, err)
	assert.False(t, done)

	_, err = store.MarkProcessed(ctx, "evt_2", time.Minute)
	require.NoError(t, err)

	done, err = store.IsProcessed(ctx, "evt_2")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestExpiredEntryCanBeReclaimed(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt_3", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	done, err := store.IsProcessed(ctx, "evt_3")
	require.NoError(t, err)
	assert.False(t, done)

	again, err := store.MarkProcessed(ctx, "evt_3", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestCleanupRemovesExpiredEntries(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt_old", 1*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "evt_live", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestCloseIsIdempotent(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
