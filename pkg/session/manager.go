package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/gatekit/gatekit/pkg/capability"
)

// Manager handles session lifecycle: issuance, validation and revocation.
type Manager struct {
	store        Store
	config       Config
	capabilities []string
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	m.capabilities = capability.Normalize(m.capabilities)

	return m
}

// Create issues a new session bound to origin, snapshotting the manager's
// capability set. When the per-origin cap is configured and already met, the
// call fails with ErrTooManySessions; the check and the registration are one
// atomic store operation.
func (m *Manager) Create(ctx context.Context, origin string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := NewSession(token, origin, m.capabilities, m.config.TTL)

	if err := m.store.Create(ctx, session, m.config.MaxSessionsPerOrigin); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate looks up the session for token. It is the sole authorization
// check for session-bound calls: ErrSessionNotFound and ErrSessionExpired
// both mean "unauthenticated". Expired sessions are removed on detection and
// their tokens are permanently invalid.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, error) {
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	// Double-check against the deadline in case the store lookup raced it.
	if session.IsExpired() {
		_ = m.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// End revokes the session for token. Idempotent; unknown tokens are a no-op.
func (m *Manager) End(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// Capabilities returns the capability set snapshotted into new sessions.
func (m *Manager) Capabilities() []string {
	return m.capabilities
}

// Close releases the manager's store resources when it owns them.
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// generateToken creates a cryptographically secure token with 32 bytes of entropy
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
