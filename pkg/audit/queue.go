package audit

import (
	"context"
	"sync"
)

// Handler is the application logic executed under an audited capability call.
type Handler func(ctx context.Context) (any, error)

// pendingQueue is the FIFO of not-yet-executed handlers for one
// (session, capability) pair. consumerMu enforces single-consumer semantics:
// exactly one enqueue/dequeue/execute cycle runs at a time per key, so the
// N-th logged Called event is satisfied by the N-th enqueued handler.
type pendingQueue struct {
	mu       sync.Mutex
	handlers []Handler

	// consumerMu is held across enqueue, the policy gate, dequeue, both
	// event logs and handler execution, making enqueue and pickup one
	// atomic step per key. mu stays separate so a seal can purge the
	// queue while a handler is in flight.
	consumerMu sync.Mutex
}

func (q *pendingQueue) enqueue(h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, h)
}

func (q *pendingQueue) dequeue() (Handler, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.handlers) == 0 {
		return nil, false
	}
	h := q.handlers[0]
	q.handlers[0] = nil
	q.handlers = q.handlers[1:]
	return h, true
}

// discard drops one pending handler without invoking it. Used on policy
// denial while the caller already holds consumerMu: every call to a denied
// capability is denied, so the dropped handler is always one that would
// never have run.
func (q *pendingQueue) discard() {
	_, _ = q.dequeue()
}
