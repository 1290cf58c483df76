package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// RecordRequest evaluates and updates the sliding window for key in a
	// single atomic step: timestamps older than the trailing window are
	// discarded, the request is admitted if fewer than limit remain, and an
	// admitted request's timestamp is appended before the call returns.
	// No concurrent call for the same key may observe the window between
	// the check and the append.
	RecordRequest(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}
