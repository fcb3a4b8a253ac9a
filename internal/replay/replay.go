// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package replay computes the PCR values implied by a TCG event log.
package replay

import (
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"
)

// MissingDigestError is returned from Replay when an event that extends a
// selected PCR has no digest for the requested bank.
type MissingDigestError struct {
	Index     int
	PCRIndex  tpm2.Handle
	Algorithm tpm2.HashAlgorithmId
}

func (e *MissingDigestError) Error() string {
	return fmt.Sprintf("event %d in PCR %d has no %v digest", e.Index, e.PCRIndex, e.Algorithm)
}

func extend(alg tpm2.HashAlgorithmId, pcr, digest tpm2.Digest) tpm2.Digest {
	h := alg.NewHash()
	h.Write(pcr)
	h.Write(digest)
	return h.Sum(nil)
}

func selected(pcrs []tpm2.Handle, pcr tpm2.Handle) bool {
	if len(pcrs) == 0 {
		return true
	}
	for _, p := range pcrs {
		if p == pcr {
			return true
		}
	}
	return false
}

// Replay folds the digests of the supplied events for the specified bank
// into a set of PCR values, starting from zero. Only the PCRs in pcrs are
// replayed, or every PCR that appears in the log if pcrs is empty. Every
// selected PCR is present in the result even if no event extends it.
// EV_NO_ACTION events are skipped because they are never extended.
func Replay(events []*tcglog.Event, alg tpm2.HashAlgorithmId, pcrs []tpm2.Handle) (map[tpm2.Handle]tpm2.Digest, error) {
	if !alg.Available() {
		return nil, fmt.Errorf("unsupported digest algorithm %v", alg)
	}

	out := make(map[tpm2.Handle]tpm2.Digest)
	for _, pcr := range pcrs {
		out[pcr] = make(tpm2.Digest, alg.Size())
	}

	for i, ev := range events {
		if ev.EventType == tcglog.EventTypeNoAction {
			continue
		}
		if !selected(pcrs, ev.PCRIndex) {
			continue
		}

		digest, ok := ev.Digests[alg]
		if !ok {
			return nil, &MissingDigestError{Index: i, PCRIndex: ev.PCRIndex, Algorithm: alg}
		}

		value, ok := out[ev.PCRIndex]
		if !ok {
			value = make(tpm2.Digest, alg.Size())
		}
		out[ev.PCRIndex] = extend(alg, value, digest)
	}

	return out, nil
}
