package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatekit/gatekit/pkg/capability"
	"github.com/gatekit/gatekit/pkg/logger"
)

// liveSession is the runtime state of one active audit session: the signed
// envelope, the growing event chain, and the per-capability pending queues.
type liveSession struct {
	mu       sync.Mutex
	envelope Envelope
	origin   string
	events   []Event
	lastHash string
	sealed   bool
	pending  map[string]*pendingQueue
}

// queue returns the pending queue for a capability, creating it on first use.
func (ls *liveSession) queue(name string) *pendingQueue {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	q, ok := ls.pending[name]
	if !ok {
		q = &pendingQueue{}
		ls.pending[name] = q
	}
	return q
}

// append links the event onto the chain and returns it. The parent hash,
// timestamp and content hash are set here, under the session lock, so the
// chain is a total order over all the session's events regardless of which
// capability produced them.
func (ls *liveSession) append(hasher Hasher, ev Event) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.sealed {
		return ErrSessionSealed
	}

	ev.CreatedAt = time.Now()
	ev.ParentHash = ls.lastHash
	ev.EventHash = hasher.Hash(ev)

	ls.events = append(ls.events, ev)
	ls.lastHash = ev.EventHash
	return nil
}

type storedArtifact struct {
	artifact *Artifact
	evictAt  time.Time
}

// Manager owns the audit state for every active session: policy envelopes,
// live event chains, pending handler queues, and sealed artifacts.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*liveSession
	artifacts map[string]*storedArtifact

	hasher Hasher
	signer Signer
	config Config
	log    *slog.Logger

	ticker *time.Ticker
	done   chan struct{}
}

// New creates an audit manager. Without WithSigner a fresh ed25519 keypair is
// generated; its public key is available via PublicKey for artifact
// verification.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		sessions:  make(map[string]*liveSession),
		artifacts: make(map[string]*storedArtifact),
		hasher:    NewSHA256Hasher(),
		config:    DefaultConfig(),
		log:       slog.Default(),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.signer == nil {
		signer, err := NewEd25519Signer()
		if err != nil {
			return nil, err
		}
		m.signer = signer
	}

	if m.config.CleanupInterval > 0 {
		m.ticker = time.NewTicker(m.config.CleanupInterval)
		go m.sweepLoop()
	}

	return m, nil
}

// PublicKey returns the signer's public key for verifying artifacts.
func (m *Manager) PublicKey() []byte {
	return m.signer.PublicKey()
}

// StartSession activates auditing for token: builds and signs the policy
// envelope and initializes an empty event chain. If a prior active session
// exists under the same token it is sealed first; live state is never
// silently overwritten.
func (m *Manager) StartSession(token, origin string, allowList []string, expiresAt time.Time) (*Envelope, error) {
	m.mu.Lock()
	prior, exists := m.sessions[token]
	if exists {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if exists {
		if _, err := m.sealAndStore(token, prior); err != nil {
			m.log.Error("sealing displaced audit session failed",
				logger.RunID(prior.envelope.RunID),
				logger.Error(err))
		}
	}

	envelope := Envelope{
		RunID:     uuid.New().String(),
		Principal: HashPrincipal(token),
		AllowList: capability.Normalize(allowList),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	signature, err := m.signer.Sign(envelope.canonical())
	if err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", ErrSigningFailed, err)
	}
	envelope.Signature = signature

	ls := &liveSession{
		envelope: envelope,
		origin:   origin,
		pending:  make(map[string]*pendingQueue),
	}

	m.mu.Lock()
	m.sessions[token] = ls
	m.mu.Unlock()

	envCopy := envelope
	return &envCopy, nil
}

// Call executes handler for a capability under the session's policy gate.
//
// Calls outside an audited session run the handler directly and unaudited;
// missing audit context never blocks a call. Inside a session the handler is
// first enqueued on the (token, capability) pending queue, then the policy
// gate runs; the whole enqueue-gate-pickup sequence is one atomic step per
// key. A capability outside the allow-list fails with ErrPolicyDenied
// and the enqueued handler is discarded without ever being invoked. Allowed
// calls log a Called event, run exactly one pending handler in FIFO order,
// log the Returned event, and pass the handler's result (or its error,
// verbatim) back to the caller.
func (m *Manager) Call(ctx context.Context, token, name string, payload any, handler Handler) (any, error) {
	m.mu.RLock()
	ls, active := m.sessions[token]
	m.mu.RUnlock()

	if !active {
		return handler(ctx)
	}

	q := ls.queue(name)

	// Single consumer per (token, capability): held across enqueue, the
	// policy gate, dequeue, both event logs and the handler execution, so
	// enqueue and pickup are one atomic step and the N-th Called event is
	// satisfied by the N-th enqueued handler. Racing callers on the same
	// key can never pick up each other's handlers.
	q.consumerMu.Lock()
	defer q.consumerMu.Unlock()

	q.enqueue(handler)

	if !capability.Allowed(ls.envelope.AllowList, name) {
		q.discard()
		return nil, fmt.Errorf("%w: %s", ErrPolicyDenied, name)
	}

	next, ok := q.dequeue()
	if !ok {
		// The session was sealed between enqueue and pickup and the queue
		// purged; nothing may execute under a sealed session.
		return nil, ErrSessionSealed
	}

	if err := ls.append(m.hasher, Event{
		Type:       EventCalled,
		Capability: name,
		Payload:    encodePayload(payload),
	}); err != nil {
		return nil, err
	}

	result, herr := next(ctx)

	returned := Event{
		Type:       EventReturned,
		Capability: name,
	}
	if herr != nil {
		returned.Result = ResultError
		returned.Error = herr.Error()
	} else {
		returned.Result = ResultSuccess
		returned.Payload = encodePayload(result)
	}
	// A seal racing the handler loses the Returned record; the handler's
	// outcome still propagates to the caller untouched.
	_ = ls.append(m.hasher, returned)

	if herr != nil {
		return nil, herr
	}
	return result, nil
}

// EndSession seals the session for token: finalizes the chain, signs it,
// stores the artifact and discards the runtime state, purging any leftover
// pending handlers. Idempotent: ending an already-sealed session returns the
// retained artifact. Returns ErrNoActiveSession when the token has neither
// live state nor a retained artifact, and ErrSealingFailed when signing fails
// (the chain is discarded, never truncated into a partial artifact).
func (m *Manager) EndSession(token string) (*Artifact, error) {
	m.mu.Lock()
	ls, active := m.sessions[token]
	if !active {
		stored, ok := m.artifacts[token]
		m.mu.Unlock()
		if ok {
			return stored.artifact, nil
		}
		return nil, ErrNoActiveSession
	}
	delete(m.sessions, token)
	m.mu.Unlock()

	artifact, err := m.sealAndStore(token, ls)
	if err != nil {
		m.log.Error("audit artifact sealing failed, chain lost",
			logger.RunID(ls.envelope.RunID),
			slog.Int("events", len(ls.events)),
			logger.Error(err))
		return nil, err
	}

	return artifact, nil
}

// GetArtifact returns the retained artifact for token. Pure lookup: it never
// touches live session state.
func (m *Manager) GetArtifact(token string) (*Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.artifacts[token]
	if !ok || !time.Now().Before(stored.evictAt) {
		return nil, ErrArtifactNotFound
	}
	return stored.artifact, nil
}

// Verify checks an artifact against this manager's signer and hasher: the
// envelope signature, every event's content hash and parent linkage, and the
// chain signature.
func (m *Manager) Verify(a *Artifact) error {
	return VerifyArtifact(a, m.signer, m.hasher)
}

// Close stops the eviction sweep. Safe to call multiple times.
func (m *Manager) Close() error {
	select {
	case <-m.done:
		return nil
	default:
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
		return nil
	}
}

// sealAndStore finalizes a live session's chain into a signed artifact and
// retains it for the configured window.
func (m *Manager) sealAndStore(token string, ls *liveSession) (*Artifact, error) {
	ls.mu.Lock()
	ls.sealed = true
	events := ls.events
	ls.pending = make(map[string]*pendingQueue)
	envelope := ls.envelope
	ls.mu.Unlock()

	signature, err := m.signer.Sign(chainBytes(events))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSealingFailed, err)
	}

	artifact := &Artifact{
		RunID:          envelope.RunID,
		Envelope:       envelope,
		Events:         events,
		ChainSignature: signature,
	}

	retention := m.config.ArtifactRetention
	if retention <= 0 {
		retention = envelope.ExpiresAt.Sub(envelope.CreatedAt)
	}

	m.mu.Lock()
	m.artifacts[token] = &storedArtifact{
		artifact: artifact,
		evictAt:  time.Now().Add(retention),
	}
	m.mu.Unlock()

	return artifact, nil
}

// sweepLoop evicts artifacts past their retention window.
func (m *Manager) sweepLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.evictStale()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) evictStale() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, stored := range m.artifacts {
		if !now.Before(stored.evictAt) {
			delete(m.artifacts, token)
		}
	}
}

// encodePayload renders a call payload or result into the stable string form
// carried by events and covered by their hashes.
func encodePayload(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
