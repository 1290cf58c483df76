package ratelimiter

import "time"

// Result contains the result of a rate limit check.
type Result struct {
	Allowed   bool      // Whether the request was admitted
	Limit     int       // Maximum requests allowed within the window
	Remaining int       // Requests remaining within the current window
	ResetAt   time.Time // Time when the window frees at least one slot
}

// RetryAfter returns how long to wait before the next request.
// Returns 0 if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config defines the sliding window configuration. Stale-key eviction is a
// store concern, configured on the store (see WithCleanupInterval).
type Config struct {
	// Window is the trailing time span requests are counted over.
	Window time.Duration `env:"RATELIMITER_WINDOW" envDefault:"1m"`
}

// DefaultConfig returns the default sliding window configuration.
func DefaultConfig() Config {
	return Config{
		Window: time.Minute,
	}
}
