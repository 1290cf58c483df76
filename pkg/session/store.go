package session

import "context"

// Store defines the interface for session persistence
type Store interface {
	// Create stores a new session. When maxPerOrigin > 0 and the session
	// carries an origin, the cap check and the insert are one atomic step:
	// the call fails with ErrTooManySessions when the origin already holds
	// maxPerOrigin live sessions, even under concurrent creation attempts.
	Create(ctx context.Context, session *Session, maxPerOrigin int) error

	// Get retrieves a session by token. Expired sessions are deleted on
	// lookup and reported as ErrSessionExpired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by token. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all sessions past their deadline.
	DeleteExpired(ctx context.Context) error
}
