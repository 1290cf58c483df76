package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatekit/gatekit/pkg/session"
)

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects nil and tokenless sessions", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		assert.ErrorIs(t, store.Create(ctx, nil, 0), session.ErrInvalidSession)
		assert.ErrorIs(t, store.Create(ctx, &session.Session{}, 0), session.ErrInvalidSession)
	})

	t.Run("maintains origin index", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		a := session.NewSession("tok-a", "origin", nil, time.Minute)
		b := session.NewSession("tok-b", "origin", nil, time.Minute)
		require.NoError(t, store.Create(ctx, a, 0))
		require.NoError(t, store.Create(ctx, b, 0))
		assert.Equal(t, 2, store.CountByOrigin("origin"))

		require.NoError(t, store.Delete(ctx, "tok-a"))
		assert.Equal(t, 1, store.CountByOrigin("origin"))

		require.NoError(t, store.Delete(ctx, "tok-b"))
		assert.Equal(t, 0, store.CountByOrigin("origin"))
	})
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	live := session.NewSession("tok-live", "origin", nil, time.Minute)
	dead := session.NewSession("tok-dead", "origin", nil, -time.Minute)
	require.NoError(t, store.Create(ctx, live, 0))
	require.NoError(t, store.Create(ctx, dead, 0))

	require.NoError(t, store.DeleteExpired(ctx))

	_, err := store.Get(ctx, "tok-live")
	assert.NoError(t, err)

	_, err = store.Get(ctx, "tok-dead")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// The sweep must release the origin slot too.
	assert.Equal(t, 1, store.CountByOrigin("origin"))
}

func TestMemoryStore_BackgroundSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := session.NewMemoryStore(10 * time.Millisecond)
	t.Cleanup(func() { _ = store.Close() })

	dead := session.NewSession("tok-swept", "origin", nil, time.Millisecond)
	require.NoError(t, store.Create(ctx, dead, 0))

	assert.Eventually(t, func() bool {
		total, _ := store.Stats()
		return total == 0
	}, time.Second, 10*time.Millisecond, "sweep should remove the abandoned session without a validation call")
}
