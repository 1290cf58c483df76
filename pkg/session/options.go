package session

import "time"

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithTTL sets the hard session deadline
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.TTL = ttl
	}
}

// WithMaxSessionsPerOrigin caps concurrent live sessions per origin
func WithMaxSessionsPerOrigin(max int) Option {
	return func(m *Manager) {
		m.config.MaxSessionsPerOrigin = max
	}
}

// WithCleanupInterval sets the sweep interval for expired sessions
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.config.CleanupInterval = interval
	}
}

// WithCapabilities sets the capability set snapshotted into new sessions
func WithCapabilities(capabilities ...string) Option {
	return func(m *Manager) {
		m.capabilities = capabilities
	}
}
