package gate

import "time"

// Config holds gate configuration
type Config struct {
	// SessionTTL is the hard session deadline
	SessionTTL time.Duration `env:"GATE_SESSION_TTL" envDefault:"30m"`

	// MaxSessionsPerOrigin caps concurrent live sessions per origin (0 = unbounded)
	MaxSessionsPerOrigin int `env:"GATE_MAX_SESSIONS_PER_ORIGIN" envDefault:"0"`

	// RateLimit is the number of requests admitted per client key per window
	RateLimit int `env:"GATE_RATE_LIMIT" envDefault:"60"`

	// RateWindow is the trailing span requests are counted over
	RateWindow time.Duration `env:"GATE_RATE_WINDOW" envDefault:"1m"`

	// AuditEnabled gates every session-bound call through the audit manager
	AuditEnabled bool `env:"GATE_AUDIT_ENABLED" envDefault:"true"`

	// CleanupInterval for the session, rate-window and artifact sweeps (0 to disable)
	CleanupInterval time.Duration `env:"GATE_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns default gate configuration
func DefaultConfig() Config {
	return Config{
		SessionTTL:      30 * time.Minute,
		RateLimit:       60,
		RateWindow:      time.Minute,
		AuditEnabled:    true,
		CleanupInterval: time.Minute,
	}
}
