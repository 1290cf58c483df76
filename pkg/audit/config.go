package audit

import "time"

// Config holds audit manager configuration
type Config struct {
	// ArtifactRetention is how long sealed artifacts are retained before
	// eviction. Zero means "one session TTL window": each artifact is kept
	// for the same duration its session was allowed to live.
	ArtifactRetention time.Duration `env:"AUDIT_ARTIFACT_RETENTION" envDefault:"0"`

	// CleanupInterval for the artifact eviction sweep (0 to disable)
	CleanupInterval time.Duration `env:"AUDIT_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns default audit configuration
func DefaultConfig() Config {
	return Config{
		ArtifactRetention: 0,
		CleanupInterval:   time.Minute,
	}
}
