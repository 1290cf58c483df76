package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// window holds the admitted-request timestamps for one key, oldest first.
type window struct {
	timestamps []time.Time
}

// MemoryStore implements Store interface using in-memory storage.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	maxWindow       time.Duration
	stopCleanup     chan struct{}
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing stale windows.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates a new in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		maxWindow:       time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	// Start background cleanup only if interval is set
	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

// RecordRequest evaluates and updates the sliding window for key. The whole
// prune-check-append sequence runs under one lock so no concurrently admitted
// request can slip past the limit.
func (ms *MemoryStore) RecordRequest(ctx context.Context, key string, limit int, windowSize time.Duration) (allowed bool, remaining int, resetAt time.Time, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if windowSize > ms.maxWindow {
		ms.maxWindow = windowSize
	}

	w, exists := ms.windows[key]
	if !exists {
		w = &window{}
		ms.windows[key] = w
	}

	// Discard timestamps that fell out of the trailing window. Timestamps are
	// appended in order, so the survivors are a suffix.
	cutoff := now.Add(-windowSize)
	start := 0
	for start < len(w.timestamps) && !w.timestamps[start].After(cutoff) {
		start++
	}
	if start > 0 {
		w.timestamps = append(w.timestamps[:0], w.timestamps[start:]...)
	}

	if len(w.timestamps) >= limit {
		// Denied: the window frees a slot when its oldest entry expires.
		resetAt = w.timestamps[0].Add(windowSize)
		return false, 0, resetAt, nil
	}

	w.timestamps = append(w.timestamps, now)
	remaining = limit - len(w.timestamps)
	if remaining < 0 {
		remaining = 0
	}

	return true, remaining, now.Add(windowSize), nil
}

// Reset clears the window for the given key.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.windows, key)
	return nil
}

// cleanup runs periodically to remove fully stale windows.
func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeStale()
		case <-ms.stopCleanup:
			return
		}
	}
}

// removeStale removes windows whose every timestamp has aged out, bounding
// memory growth from one-off keys.
func (ms *MemoryStore) removeStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := time.Now().Add(-ms.maxWindow)
	for key, w := range ms.windows {
		if len(w.timestamps) == 0 || !w.timestamps[len(w.timestamps)-1].After(cutoff) {
			delete(ms.windows, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	select {
	case <-ms.stopCleanup:
		// Already closed
	default:
		close(ms.stopCleanup)
	}
}
