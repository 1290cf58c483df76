package gate

import "errors"

var (
	// ErrQuotaExceeded indicates a resource cap was hit, either the rate
	// limit or the per-origin session cap. Recoverable by caller backoff.
	ErrQuotaExceeded = errors.New("gate: quota exceeded")

	// ErrUnauthenticated indicates a missing, invalid or expired session
	// token. Recoverable by re-authenticating.
	ErrUnauthenticated = errors.New("gate: unauthenticated")
)
