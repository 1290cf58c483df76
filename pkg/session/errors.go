package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found for the token
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session has passed its hard deadline
	ErrSessionExpired = errors.New("session.expired")

	// ErrTooManySessions indicates the per-origin concurrent session cap was hit
	ErrTooManySessions = errors.New("session.too_many_concurrent_sessions")

	// ErrInvalidSession indicates the session data is incomplete
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
