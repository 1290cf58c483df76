package session

import "time"

// Config holds session configuration
type Config struct {
	// TTL is the hard session deadline, fixed at creation and never extended
	TTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// MaxSessionsPerOrigin caps concurrent live sessions per origin (0 = unbounded)
	MaxSessionsPerOrigin int `env:"SESSION_MAX_PER_ORIGIN" envDefault:"0"`

	// CleanupInterval for the expired-session sweep (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TTL:                  30 * time.Minute,
		MaxSessionsPerOrigin: 0,
		CleanupInterval:      time.Minute,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
