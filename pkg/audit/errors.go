package audit

import "errors"

var (
	// ErrPolicyDenied indicates the capability is not in the session's allow-list.
	// The handler is never invoked; the denial is fail-closed.
	ErrPolicyDenied = errors.New("audit: capability denied by session policy")

	// ErrNoActiveSession indicates no active audit session exists for the token
	ErrNoActiveSession = errors.New("audit: no active session")

	// ErrSessionSealed indicates the session was sealed while a call was in flight
	ErrSessionSealed = errors.New("audit: session already sealed")

	// ErrSealingFailed indicates artifact construction or signing failed at
	// session end; the runtime state is discarded and the artifact is lost
	ErrSealingFailed = errors.New("audit: artifact sealing failed")

	// ErrArtifactNotFound indicates no sealed artifact is retained for the token
	ErrArtifactNotFound = errors.New("audit: artifact not found")

	// ErrSigningFailed indicates the signer rejected the envelope or chain bytes
	ErrSigningFailed = errors.New("audit: signing failed")

	// ErrChainBroken indicates the event chain failed verification
	ErrChainBroken = errors.New("audit: event chain broken")

	// ErrSignatureInvalid indicates an envelope or chain signature did not verify
	ErrSignatureInvalid = errors.New("audit: signature invalid")
)
