package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher computes the content hash of an event. Implementations must be
// deterministic and collision-resistant; the hash covers ParentHash (so each
// event commits to its entire ancestry) and never the EventHash field itself.
type Hasher interface {
	Hash(event Event) string
}

type sha256Hasher struct{}

// NewSHA256Hasher returns the default SHA-256 event hasher.
func NewSHA256Hasher() Hasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) Hash(event Event) string {
	data := fmt.Sprintf(
		"%s|%s|%s|%s|%s|%d|%s",
		event.Type,
		event.Capability,
		event.Payload,
		event.Result,
		event.Error,
		event.CreatedAt.UnixNano(),
		event.ParentHash,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// HashPrincipal derives the audit-log identity for a session token. The
// derivation is one-way: artifacts carry this value, never the token itself.
func HashPrincipal(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
