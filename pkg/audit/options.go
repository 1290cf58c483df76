package audit

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithHasher sets a custom event hasher
func WithHasher(h Hasher) Option {
	return func(m *Manager) {
		m.hasher = h
	}
}

// WithSigner sets a custom signer. Without this option the manager generates
// a fresh ed25519 keypair at construction.
func WithSigner(s Signer) Option {
	return func(m *Manager) {
		m.signer = s
	}
}

// WithLogger sets the structured logger used for sealing failures and sweeps
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithArtifactRetention overrides how long sealed artifacts are retained
func WithArtifactRetention(d time.Duration) Option {
	return func(m *Manager) {
		m.config.ArtifactRetention = d
	}
}

// WithCleanupInterval sets the artifact eviction sweep interval
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.config.CleanupInterval = interval
	}
}
