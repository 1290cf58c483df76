package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatekit/gatekit/pkg/audit"
)

func setupManager(t *testing.T, opts ...audit.Option) *audit.Manager {
	t.Helper()

	base := []audit.Option{
		audit.WithCleanupInterval(0), // Disable sweep for tests
	}

	m, err := audit.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func startSession(t *testing.T, m *audit.Manager, token string, allowList ...string) *audit.Envelope {
	t.Helper()

	env, err := m.StartSession(token, "test-origin", allowList, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return env
}

func TestManager_StartSession(t *testing.T) {
	t.Parallel()

	t.Run("builds a signed envelope", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		env := startSession(t, manager, "tok-1", "search", "cart.add")
		assert.NotEmpty(t, env.RunID)
		assert.NotEmpty(t, env.Signature)
		assert.Equal(t, []string{"cart.add", "search"}, env.AllowList)

		// The plaintext token never appears in the envelope.
		assert.NotEqual(t, "tok-1", env.Principal)
		assert.Equal(t, audit.HashPrincipal("tok-1"), env.Principal)
	})

	t.Run("seals a prior active session under the same token", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		ctx := context.Background()

		first := startSession(t, manager, "tok-2", "search")

		_, err := manager.Call(ctx, "tok-2", "search", "q", func(ctx context.Context) (any, error) {
			return "hit", nil
		})
		require.NoError(t, err)

		second := startSession(t, manager, "tok-2", "search")
		assert.NotEqual(t, first.RunID, second.RunID)

		// The displaced session's chain was sealed, not dropped.
		artifact, err := manager.GetArtifact("tok-2")
		require.NoError(t, err)
		assert.Equal(t, first.RunID, artifact.RunID)
		assert.Len(t, artifact.Events, 2)
	})
}

func TestManager_Call(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("runs handler directly when no session is active", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		invoked := false
		result, err := manager.Call(ctx, "unknown-token", "search", nil, func(ctx context.Context) (any, error) {
			invoked = true
			return 42, nil
		})
		require.NoError(t, err)
		assert.True(t, invoked)
		assert.Equal(t, 42, result)

		_, err = manager.EndSession("unknown-token")
		assert.ErrorIs(t, err, audit.ErrNoActiveSession)
	})

	t.Run("logs call and return around the handler", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-3", "search")

		result, err := manager.Call(ctx, "tok-3", "search", map[string]string{"q": "socks"}, func(ctx context.Context) (any, error) {
			return []string{"red socks"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"red socks"}, result)

		artifact, err := manager.EndSession("tok-3")
		require.NoError(t, err)
		require.Len(t, artifact.Events, 2)

		called := artifact.Events[0]
		assert.Equal(t, audit.EventCalled, called.Type)
		assert.Equal(t, "search", called.Capability)
		assert.JSONEq(t, `{"q":"socks"}`, called.Payload)
		assert.Empty(t, called.ParentHash)

		returned := artifact.Events[1]
		assert.Equal(t, audit.EventReturned, returned.Type)
		assert.Equal(t, audit.ResultSuccess, returned.Result)
		assert.JSONEq(t, `["red socks"]`, returned.Payload)
		assert.Equal(t, called.EventHash, returned.ParentHash)
	})

	t.Run("denies capabilities outside the allow-list without invoking the handler", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-4", "search")

		invoked := false
		_, err := manager.Call(ctx, "tok-4", "checkout", nil, func(ctx context.Context) (any, error) {
			invoked = true
			return nil, nil
		})
		assert.ErrorIs(t, err, audit.ErrPolicyDenied)
		assert.False(t, invoked, "denied handler must never run")

		// Denied calls leave no trace in the chain.
		artifact, err := manager.EndSession("tok-4")
		require.NoError(t, err)
		assert.Empty(t, artifact.Events)
	})

	t.Run("allow-list wildcards are honored", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-5", "cart.*")

		_, err := manager.Call(ctx, "tok-5", "cart.add", nil, func(ctx context.Context) (any, error) {
			return "ok", nil
		})
		assert.NoError(t, err)

		_, err = manager.Call(ctx, "tok-5", "checkout", nil, func(ctx context.Context) (any, error) {
			return nil, nil
		})
		assert.ErrorIs(t, err, audit.ErrPolicyDenied)
	})

	t.Run("propagates handler errors after recording them", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-6", "cart.add")

		handlerErr := errors.New("out of stock")
		_, err := manager.Call(ctx, "tok-6", "cart.add", nil, func(ctx context.Context) (any, error) {
			return nil, handlerErr
		})
		assert.ErrorIs(t, err, handlerErr)

		artifact, err := manager.EndSession("tok-6")
		require.NoError(t, err)
		require.Len(t, artifact.Events, 2)
		assert.Equal(t, audit.ResultError, artifact.Events[1].Result)
		assert.Equal(t, "out of stock", artifact.Events[1].Error)
	})
}

func TestManager_CallOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("racing calls to one capability resolve in submission order", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-7", "search")

		firstStarted := make(chan struct{})
		release := make(chan struct{})
		var order []int

		done1 := make(chan struct{})
		go func() {
			defer close(done1)
			_, _ = manager.Call(ctx, "tok-7", "search", 1, func(ctx context.Context) (any, error) {
				close(firstStarted)
				<-release
				order = append(order, 1)
				return 1, nil
			})
		}()

		<-firstStarted

		done2 := make(chan struct{})
		go func() {
			defer close(done2)
			_, _ = manager.Call(ctx, "tok-7", "search", 2, func(ctx context.Context) (any, error) {
				order = append(order, 2)
				return 2, nil
			})
		}()

		close(release)
		<-done1
		<-done2

		assert.Equal(t, []int{1, 2}, order)

		artifact, err := manager.EndSession("tok-7")
		require.NoError(t, err)
		require.Len(t, artifact.Events, 4)
		assert.Equal(t, "1", artifact.Events[0].Payload)
		assert.Equal(t, "1", artifact.Events[1].Payload)
		assert.Equal(t, "2", artifact.Events[2].Payload)
		assert.Equal(t, "2", artifact.Events[3].Payload)
	})

	t.Run("racing callers receive their own handler results", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-11", "search")

		const callers = 8
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := manager.Call(ctx, "tok-11", "search", i, func(ctx context.Context) (any, error) {
					return i, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, i, got)
			}()
		}
		wg.Wait()

		// Each Called event must pair with the Returned event of the same
		// caller: the handler echoes its own call payload.
		artifact, err := manager.EndSession("tok-11")
		require.NoError(t, err)
		require.Len(t, artifact.Events, 2*callers)
		for k := 0; k < callers; k++ {
			called, returned := artifact.Events[2*k], artifact.Events[2*k+1]
			assert.Equal(t, audit.EventCalled, called.Type)
			assert.Equal(t, audit.EventReturned, returned.Type)
			assert.Equal(t, called.Payload, returned.Payload,
				"pair %d must carry one caller's payload end to end", k)
		}
	})

	t.Run("chain totally orders events across capabilities", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-8", "search", "cart.add")

		for _, name := range []string{"search", "cart.add", "search"} {
			_, err := manager.Call(ctx, "tok-8", name, nil, func(ctx context.Context) (any, error) {
				return nil, nil
			})
			require.NoError(t, err)
		}

		artifact, err := manager.EndSession("tok-8")
		require.NoError(t, err)
		require.Len(t, artifact.Events, 6)

		assert.Empty(t, artifact.Events[0].ParentHash)
		for i := 1; i < len(artifact.Events); i++ {
			assert.Equal(t, artifact.Events[i-1].EventHash, artifact.Events[i].ParentHash,
				"event %d must link to its predecessor", i)
		}
	})
}

func TestManager_EndSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("is idempotent and returns the retained artifact", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-9", "search")

		_, err := manager.Call(ctx, "tok-9", "search", nil, func(ctx context.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)

		first, err := manager.EndSession("tok-9")
		require.NoError(t, err)

		second, err := manager.EndSession("tok-9")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		_, err := manager.EndSession("never-started")
		assert.ErrorIs(t, err, audit.ErrNoActiveSession)
	})

	t.Run("surfaces signing failures as sealing errors", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t, audit.WithSigner(&flakySigner{failAfter: 1}))
		startSession(t, manager, "tok-10", "search")

		_, err := manager.EndSession("tok-10")
		assert.ErrorIs(t, err, audit.ErrSealingFailed)

		// The chain was lost, not silently truncated.
		_, err = manager.GetArtifact("tok-10")
		assert.ErrorIs(t, err, audit.ErrArtifactNotFound)
	})
}

func TestManager_GetArtifact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("retrieval is independent of session liveness", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)
		startSession(t, manager, "tok-11", "search")

		_, err := manager.Call(ctx, "tok-11", "search", nil, func(ctx context.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)

		sealed, err := manager.EndSession("tok-11")
		require.NoError(t, err)

		got, err := manager.GetArtifact("tok-11")
		require.NoError(t, err)
		assert.Equal(t, sealed, got)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		_, err := manager.GetArtifact("never-started")
		assert.ErrorIs(t, err, audit.ErrArtifactNotFound)
	})

	t.Run("artifacts age out after the retention window", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t, audit.WithArtifactRetention(20*time.Millisecond))
		startSession(t, manager, "tok-12", "search")

		_, err := manager.EndSession("tok-12")
		require.NoError(t, err)

		_, err = manager.GetArtifact("tok-12")
		require.NoError(t, err)

		time.Sleep(30 * time.Millisecond)

		_, err = manager.GetArtifact("tok-12")
		assert.ErrorIs(t, err, audit.ErrArtifactNotFound)
	})
}

// flakySigner signs the first failAfter requests, then refuses. Lets tests
// produce a valid envelope but a failing seal.
type flakySigner struct {
	failAfter int
	calls     int
}

func (s *flakySigner) Sign(data []byte) (string, error) {
	s.calls++
	if s.calls > s.failAfter {
		return "", errors.New("key unavailable")
	}
	return "stub-signature", nil
}

func (s *flakySigner) Verify(data []byte, signature string) bool {
	return signature == "stub-signature"
}

func (s *flakySigner) PublicKey() []byte { return nil }
