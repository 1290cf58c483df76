package audit

import "fmt"

// VerifyChain checks that the event list is a self-verifying hash chain:
// every event's content hash matches its fields and every event's ParentHash
// equals the previous event's hash, with the first event unparented.
func VerifyChain(events []Event, hasher Hasher) error {
	prev := ""
	for i, ev := range events {
		if ev.ParentHash != prev {
			return fmt.Errorf("%w: event %d parent hash mismatch", ErrChainBroken, i)
		}

		if hasher.Hash(ev) != ev.EventHash {
			return fmt.Errorf("%w: event %d content hash mismatch", ErrChainBroken, i)
		}
		prev = ev.EventHash
	}
	return nil
}

// VerifyArtifact checks a sealed artifact end to end: envelope signature,
// chain linkage and content hashes, and the chain-level signature.
func VerifyArtifact(a *Artifact, signer Signer, hasher Hasher) error {
	if a == nil {
		return ErrArtifactNotFound
	}

	if !signer.Verify(a.Envelope.canonical(), a.Envelope.Signature) {
		return fmt.Errorf("%w: envelope", ErrSignatureInvalid)
	}

	if err := VerifyChain(a.Events, hasher); err != nil {
		return err
	}

	if !signer.Verify(chainBytes(a.Events), a.ChainSignature) {
		return fmt.Errorf("%w: chain", ErrSignatureInvalid)
	}

	return nil
}
