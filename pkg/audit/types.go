package audit

import (
	"strings"
	"time"
)

// EventType identifies which half of a call/return pair an event records
type EventType string

const (
	EventCalled   EventType = "called"
	EventReturned EventType = "returned"
)

// Result represents the outcome of an audited capability call
type Result string

const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
)

// Event is a single entry in a session's hash chain. EventHash is the content
// hash of the event itself; ParentHash references the previous event's hash
// and is empty for the first event in the chain.
type Event struct {
	Type       EventType `json:"type"`
	Capability string    `json:"capability"`
	Payload    string    `json:"payload,omitempty"`
	Result     Result    `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	EventHash  string    `json:"event_hash"`
	ParentHash string    `json:"parent_hash,omitempty"`
}

// Envelope is the signed declaration of a session's audit identity and
// permitted capability set. Principal is a one-way hash of the session token;
// the plaintext token never appears in an envelope or artifact. Immutable
// once signed.
type Envelope struct {
	RunID     string    `json:"run_id"`
	Principal string    `json:"principal"`
	AllowList []string  `json:"allow_list"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Signature string    `json:"signature"`
}

// canonical returns the deterministic byte representation the envelope
// signature covers. Field order is fixed; maps are never involved.
func (e *Envelope) canonical() []byte {
	var b strings.Builder
	b.WriteString(e.RunID)
	b.WriteString("|")
	b.WriteString(e.Principal)
	b.WriteString("|")
	b.WriteString(strings.Join(e.AllowList, ","))
	b.WriteString("|")
	b.WriteString(e.CreatedAt.UTC().Format(time.RFC3339Nano))
	b.WriteString("|")
	b.WriteString(e.ExpiresAt.UTC().Format(time.RFC3339Nano))
	return []byte(b.String())
}

// Artifact is the sealed, signed output of a completed session: the envelope
// plus the complete ordered event list and a signature over the full chain.
type Artifact struct {
	RunID          string   `json:"run_id"`
	Envelope       Envelope `json:"envelope"`
	Events         []Event  `json:"events"`
	ChainSignature string   `json:"chain_signature"`
}

// chainBytes returns the byte representation the chain signature covers:
// every event hash, in chain order.
func chainBytes(events []Event) []byte {
	hashes := make([]string, len(events))
	for i := range events {
		hashes[i] = events[i].EventHash
	}
	return []byte(strings.Join(hashes, "|"))
}
