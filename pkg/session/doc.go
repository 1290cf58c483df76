// Package session issues, validates and revokes short-lived capability-scoped
// session tokens for automated callers.
//
// Tokens carry 32 bytes of CSPRNG entropy and a hard deadline: the TTL is
// fixed at creation and never extended by activity. Each session snapshots
// the capability set it was created with, so later changes to the global
// capability set do not affect live sessions. An optional per-origin cap
// bounds how many live sessions one client identifier may hold at a time.
//
// The package is storage-agnostic: any datastore that satisfies the Store
// interface can be plugged in. A concurrent in-memory implementation with a
// background expiry sweep ships out of the box.
//
// # Usage
//
//	import "github.com/gatekit/gatekit/pkg/session"
//
//	manager := session.New(
//	    session.WithTTL(15*time.Minute),
//	    session.WithMaxSessionsPerOrigin(5),
//	    session.WithCapabilities("search", "cart.add"),
//	)
//	defer manager.Close()
//
//	sess, err := manager.Create(ctx, clientOrigin)
//	if errors.Is(err, session.ErrTooManySessions) {
//	    // quota-style rejection, caller should back off
//	}
//
//	sess, err = manager.Validate(ctx, token)
//	if err != nil {
//	    // ErrSessionNotFound / ErrSessionExpired: treat as unauthenticated
//	}
//
//	_ = manager.End(ctx, token) // idempotent
//
// # Error Handling
//
// Common error values returned by the package:
//
//   - ErrTooManySessions – per-origin concurrency cap hit (quota rejection)
//   - ErrSessionExpired  – session has passed its hard deadline
//   - ErrSessionNotFound – no session associated with token
//
// Only ErrTooManySessions needs distinguishing by callers; the other two both
// map to an unauthenticated outcome.
package session
