package audit

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Signer produces and verifies signatures over canonical byte strings.
// Implementations must be deterministic per key and verifiable against the
// published public key.
type Signer interface {
	Sign(data []byte) (string, error)
	Verify(data []byte, signature string) bool
	PublicKey() []byte
}

type ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewEd25519Signer generates a fresh ed25519 keypair. Call once per process;
// every envelope and chain signature for the process lifetime uses the same key.
func NewEd25519Signer() (Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Join(ErrSigningFailed, err)
	}
	return &ed25519Signer{priv: priv, pub: pub}, nil
}

// NewEd25519SignerFromKey wraps an existing private key, for operators that
// provision signing keys outside the process.
func NewEd25519SignerFromKey(priv ed25519.PrivateKey) (Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, ErrSigningFailed
	}
	return &ed25519Signer{priv: priv, pub: priv.Public().(ed25519.PublicKey)}, nil
}

func (s *ed25519Signer) Sign(data []byte) (string, error) {
	return base64.RawURLEncoding.EncodeToString(ed25519.Sign(s.priv, data)), nil
}

func (s *ed25519Signer) Verify(data []byte, signature string) bool {
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(s.pub, data, sig)
}

func (s *ed25519Signer) PublicKey() []byte {
	out := make([]byte, len(s.pub))
	copy(out, s.pub)
	return out
}
