// Package audit gates capability calls behind a per-session policy envelope
// and records every call/return pair in an ordered, hash-linked event chain
// that is sealed into a signed artifact when the session ends.
//
// Each active session holds a signed Envelope declaring its identity (a
// one-way hash of the session token; the plaintext token never appears in
// audit output) and the capability allow-list fixed at creation. Every
// audited call appends a Called event, runs the application handler, and
// appends a Returned event; each event carries a content hash and the hash of
// its predecessor, so any tampering with a sealed artifact is detectable.
//
// # Architecture
//
//   - Manager  – owns all audit state: envelopes, event chains, pending
//     handler queues, sealed artifacts
//   - Hasher   – content hashing for events and chain linkage (SHA-256 default)
//   - Signer   – envelope and chain signatures (per-process ed25519 default)
//   - Artifact – the sealed, signed output of a completed session
//
// # Policy gate
//
// The gate is fail-closed for policy and fail-open for missing audit context:
// a capability outside the session's allow-list fails with ErrPolicyDenied
// before the handler ever runs, while a call under a token with no active
// audit session executes the handler directly and simply goes unrecorded.
//
// # Concurrency bridge
//
// Handlers are enqueued per (session, capability) pair and consumed strictly
// FIFO by a single in-flight executor per pair, so the N-th logged Called
// event is always satisfied by the N-th submitted handler even when calls to
// the same capability race. Across capabilities of one session the event
// chain still totally orders all events in true call order.
//
// # Usage
//
//	import "github.com/gatekit/gatekit/pkg/audit"
//
//	manager, err := audit.New()
//	if err != nil {
//	    // keypair generation failed
//	}
//	defer manager.Close()
//
//	_, err = manager.StartSession(token, origin, []string{"search", "cart.add"}, expiresAt)
//
//	result, err := manager.Call(ctx, token, "search", query, func(ctx context.Context) (any, error) {
//	    return doSearch(ctx, query)
//	})
//	if errors.Is(err, audit.ErrPolicyDenied) {
//	    // handler never ran
//	}
//
//	artifact, err := manager.EndSession(token)
//	if err == nil {
//	    err = manager.Verify(artifact)
//	}
//
// # Error Handling
//
//   - ErrPolicyDenied    – capability not in the allow-list; fail-closed
//   - ErrNoActiveSession – EndSession on a token with no live state or artifact
//   - ErrSealingFailed   – signing failed at session end; treated as data loss
//     and logged loudly, never silently truncated
//
// Handler errors are recorded as failed Returned events and re-thrown
// verbatim; the manager never swallows them.
package audit
