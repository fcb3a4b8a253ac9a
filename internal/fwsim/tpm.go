// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package fwsim

import (
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"io"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"
	"golang.org/x/xerrors"
)

// NumPCRs is the number of PCRs in each bank of the simulated TPM.
const NumPCRs = 24

// TPM is a simulated TPM with a set of PCR banks and the event log that the
// firmware maintains for it.
type TPM struct {
	algs   []tpm2.HashAlgorithmId
	pcrs   map[tpm2.HashAlgorithmId][]tpm2.Digest
	events []*tcglog.Event
}

// NewTPM returns a new simulated TPM with a PCR bank for each of the
// supplied digest algorithms. All PCRs start as zero.
func NewTPM(algs ...tpm2.HashAlgorithmId) *TPM {
	t := &TPM{
		algs: algs,
		pcrs: make(map[tpm2.HashAlgorithmId][]tpm2.Digest)}
	for _, alg := range algs {
		bank := make([]tpm2.Digest, NumPCRs)
		for i := range bank {
			bank[i] = make(tpm2.Digest, alg.Size())
		}
		t.pcrs[alg] = bank
	}
	return t
}

// Algorithms returns the digest algorithms of the PCR banks.
func (t *TPM) Algorithms() []tpm2.HashAlgorithmId {
	return t.algs
}

// PCRValue returns the current value of the specified PCR in the bank for
// the specified algorithm, or nil if there is no such PCR.
func (t *TPM) PCRValue(alg tpm2.HashAlgorithmId, pcr tpm2.Handle) tpm2.Digest {
	bank, ok := t.pcrs[alg]
	if !ok || int(pcr) >= len(bank) {
		return nil
	}
	return bank[pcr]
}

// Events returns the events appended to the event log.
func (t *TPM) Events() []*tcglog.Event {
	return t.events
}

// hashLogExtendEvent hashes data with each bank's algorithm, extends the
// PCR in each bank and then appends an event to the log.
func (t *TPM) hashLogExtendEvent(pcr tpm2.Handle, eventType tcglog.EventType, data, eventData []byte) *tcglog.Event {
	ev := &tcglog.Event{
		PCRIndex:  pcr,
		EventType: eventType,
		Digests:   make(tcglog.DigestMap),
		Data:      tcglog.OpaqueEventData(eventData)}

	for _, alg := range t.algs {
		h := alg.NewHash()
		h.Write(data)
		digest := h.Sum(nil)
		ev.Digests[alg] = digest

		h = alg.NewHash()
		h.Write(t.pcrs[alg][pcr])
		h.Write(digest)
		t.pcrs[alg][pcr] = h.Sum(nil)
	}

	t.events = append(t.events, ev)
	return ev
}

// WriteLog serializes the event log to w. A TPM with only a SHA-1 bank
// produces a log of TCG_PCR_EVENT structures like the one maintained for
// EFI_TCG_PROTOCOL. Any other TPM produces a crypto-agile log that starts
// with a Spec ID event, like the one maintained for EFI_TCG2_PROTOCOL.
func (t *TPM) WriteLog(w io.Writer) error {
	if len(t.algs) == 1 && t.algs[0] == tpm2.HashAlgorithmSHA1 {
		for i, ev := range t.events {
			if err := ev.Write(w); err != nil {
				return xerrors.Errorf("cannot write event %d: %w", i, err)
			}
		}
		return nil
	}

	var digestSizes []tcglog.EFISpecIdEventAlgorithmSize
	for _, alg := range t.algs {
		digestSizes = append(digestSizes, tcglog.EFISpecIdEventAlgorithmSize{
			AlgorithmId: alg,
			DigestSize:  uint16(alg.Size())})
	}

	events := []*tcglog.Event{
		{
			PCRIndex:  0,
			EventType: tcglog.EventTypeNoAction,
			Digests:   tcglog.DigestMap{tpm2.HashAlgorithmSHA1: make(tpm2.Digest, tpm2.HashAlgorithmSHA1.Size())},
			Data: &tcglog.SpecIdEvent03{
				SpecVersionMajor: 2,
				UintnSize:        2,
				DigestSizes:      digestSizes}},
	}
	events = append(events, t.events...)

	if err := tcglog.NewLogForTesting(events).Write(w); err != nil {
		return xerrors.Errorf("cannot write log: %w", err)
	}
	return nil
}
