package ratelimiter

import (
	"context"
	"fmt"
)

// RateLimiter defines the interface for rate limiting implementations.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int) (*Result, error)
}

// Window implements a sliding-window rate limiter: a request is admitted only
// when fewer than limit requests were already admitted within the trailing
// window for the same key.
type Window struct {
	store  Store
	config Config
}

// NewWindow creates a new sliding-window rate limiter.
func NewWindow(store Store, config Config) (*Window, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Window{
		store:  store,
		config: config,
	}, nil
}

// Allow checks whether one more request for key fits within the trailing
// window and, if so, records it. Check and record are a single atomic step
// per key (see Store).
func (w *Window) Allow(ctx context.Context, key string, limit int) (*Result, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidLimit, limit)
	}

	allowed, remaining, resetAt, err := w.store.RecordRequest(ctx, key, limit, w.config.Window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for the given key.
func (w *Window) Reset(ctx context.Context, key string) error {
	return w.store.Reset(ctx, key)
}

func (c Config) validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}
