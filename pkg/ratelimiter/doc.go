// Package ratelimiter provides a sliding-window rate limiter with pluggable
// storage backends. A request is admitted only when fewer than the configured
// limit of requests were already admitted within the trailing window for the
// same key, which avoids the boundary bursts of fixed calendar buckets.
//
// The package is storage-agnostic: any backend that satisfies the Store
// interface can be plugged in. A concurrent in-memory implementation ships out
// of the box and evicts fully stale keys on a background ticker.
//
// # Usage
//
//	import "github.com/gatekit/gatekit/pkg/ratelimiter"
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewWindow(store, ratelimiter.Config{
//	    Window: time.Minute,
//	})
//	if err != nil {
//	    // handle configuration error
//	}
//
//	result, err := limiter.Allow(ctx, clientKey, 60)
//	if err != nil {
//	    // handle store error
//	}
//	if !result.Allowed {
//	    retryIn := result.RetryAfter()
//	    // reject with backoff hint
//	}
//
// # Atomicity
//
// The admission check and the timestamp append are a single atomic step per
// key: no call is ever evaluated against a window that a concurrently
// admitted call has not yet updated. The in-memory store guarantees this with
// one mutex over the whole prune-check-append sequence.
package ratelimiter
