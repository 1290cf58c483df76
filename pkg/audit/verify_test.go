package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatekit/gatekit/pkg/audit"
)

func sealedArtifact(t *testing.T, manager *audit.Manager) *audit.Artifact {
	t.Helper()
	ctx := context.Background()

	startSession(t, manager, "tok-verify", "search", "cart.add")

	for _, name := range []string{"search", "cart.add"} {
		_, err := manager.Call(ctx, "tok-verify", name, "payload", func(ctx context.Context) (any, error) {
			return "result", nil
		})
		require.NoError(t, err)
	}

	artifact, err := manager.EndSession("tok-verify")
	require.NoError(t, err)
	return artifact
}

func TestVerifyArtifact(t *testing.T) {
	t.Parallel()

	t.Run("accepts an untouched artifact", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		artifact := sealedArtifact(t, manager)
		assert.NoError(t, manager.Verify(artifact))
	})

	t.Run("detects a tampered payload", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		artifact := sealedArtifact(t, manager)
		tampered := *artifact
		tampered.Events = append([]audit.Event(nil), artifact.Events...)
		tampered.Events[1].Payload = `"forged"`

		assert.ErrorIs(t, manager.Verify(&tampered), audit.ErrChainBroken)
	})

	t.Run("detects a dropped event", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		artifact := sealedArtifact(t, manager)
		tampered := *artifact
		tampered.Events = artifact.Events[1:]

		assert.ErrorIs(t, manager.Verify(&tampered), audit.ErrChainBroken)
	})

	t.Run("detects a forged envelope", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		artifact := sealedArtifact(t, manager)
		tampered := *artifact
		tampered.Envelope.AllowList = append([]string{"checkout"}, artifact.Envelope.AllowList...)

		assert.ErrorIs(t, manager.Verify(&tampered), audit.ErrSignatureInvalid)
	})

	t.Run("detects a forged chain signature", func(t *testing.T) {
		t.Parallel()
		manager := setupManager(t)

		artifact := sealedArtifact(t, manager)
		tampered := *artifact
		tampered.ChainSignature = "bm90LWEtc2lnbmF0dXJl"

		assert.ErrorIs(t, manager.Verify(&tampered), audit.ErrSignatureInvalid)
	})
}

func TestVerifyChain_Empty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, audit.VerifyChain(nil, audit.NewSHA256Hasher()))
}
