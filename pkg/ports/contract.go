package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/pkg/domain"
)

// RunHistoryStoreContract verifies that a HistoryStore implementation
// adheres to the interface contract. Adapter test suites call it against
// their own backend.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()

	rec := func(op domain.TransitionOp, from, to string) domain.StateChange {
		return domain.StateChange{
			Op:        op,
			From:      from,
			To:        to,
			Stack:     []string{to},
			Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("Append and List", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		require.NoError(t, store.Append(ctx, rec(domain.OpSwitch, "", "lobby")))
		require.NoError(t, store.Append(ctx, rec(domain.OpSwitch, "lobby", "game")))
		require.NoError(t, store.Append(ctx, rec(domain.OpPush, "game", "pause")))

		got, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)

		// Newest first.
		assert.Equal(t, "pause", got[0].To)
		assert.Equal(t, domain.OpPush, got[0].Op)
		assert.Equal(t, "lobby", got[2].To)
	})

	t.Run("List with limit", func(t *testing.T) {
		got, err := store.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "pause", got[0].To)
		assert.Equal(t, "game", got[1].To)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		got, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
