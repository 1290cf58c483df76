package session

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements Store interface using in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	origins  map[string]map[string]struct{}
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		origins:  make(map[string]map[string]struct{}),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Create stores a new session, enforcing the per-origin concurrency cap
// under the same lock as the insert.
func (m *MemoryStore) Create(ctx context.Context, session *Session, maxPerOrigin int) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session.Origin != "" && maxPerOrigin > 0 {
		if len(m.origins[session.Origin]) >= maxPerOrigin {
			return ErrTooManySessions
		}
	}

	sessionCopy := *session
	sessionCopy.Capabilities = slices.Clone(session.Capabilities)
	m.sessions[session.Token] = &sessionCopy

	if session.Origin != "" {
		tokens, ok := m.origins[session.Origin]
		if !ok {
			tokens = make(map[string]struct{})
			m.origins[session.Origin] = tokens
		}
		tokens[session.Token] = struct{}{}
	}

	return nil
}

// Get retrieves a session by token
func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[token]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		m.mu.Lock()
		m.remove(token)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	sessionCopy := *session
	sessionCopy.Capabilities = slices.Clone(session.Capabilities)
	return &sessionCopy, nil
}

// Delete removes a session by token
func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(token)
	return nil
}

// DeleteExpired removes all sessions past their deadline
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, session := range m.sessions {
		if !now.Before(session.ExpiresAt) {
			m.remove(token)
		}
	}

	return nil
}

// remove deletes a session from both the session map and the origin index.
// Callers must hold the write lock.
func (m *MemoryStore) remove(token string) {
	session, exists := m.sessions[token]
	if !exists {
		return
	}

	delete(m.sessions, token)

	if session.Origin != "" {
		if tokens, ok := m.origins[session.Origin]; ok {
			delete(tokens, token)
			if len(tokens) == 0 {
				delete(m.origins, session.Origin)
			}
		}
	}
}

// CountByOrigin returns the number of live sessions registered under origin.
func (m *MemoryStore) CountByOrigin(origin string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.origins[origin])
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

// Stats returns memory store statistics
func (m *MemoryStore) Stats() (total, origins int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions), len(m.origins)
}
