package session

import (
	"slices"
	"time"
)

// Session represents a short-lived, capability-scoped grant issued to an
// automated caller.
type Session struct {
	Token        string    `json:"token"`
	Origin       string    `json:"origin,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSession creates a new session with the given parameters. The capability
// slice is copied so the snapshot stays immutable even if the caller's global
// capability set changes later.
func NewSession(token, origin string, capabilities []string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		Token:        token,
		Origin:       origin,
		Capabilities: slices.Clone(capabilities),
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
}

// IsExpired returns true once the session's hard deadline has passed.
// The deadline is fixed at creation and never extended by activity.
func (s *Session) IsExpired() bool {
	return s != nil && !time.Now().Before(s.ExpiresAt)
}

// HasCapability reports whether the capability name was part of the
// session's snapshot at creation time.
func (s *Session) HasCapability(name string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Capabilities, name)
}
