// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package fwsim

import (
	"bytes"
	"encoding/binary"

	efi "github.com/canonical/go-efilib"

	"github.com/canonical/tcg-measure"
)

const (
	eventLogBase efi.PhysicalAddress = 0x7f000000
	tcgEventSize                     = 64
)

// fillCapability copies src into the caller supplied capability buffer,
// whose first byte contains the size of the buffer the caller expects to
// be filled.
func fillCapability(capability, src []byte) error {
	if len(capability) == 0 || int(capability[0]) > len(capability) {
		return measure.StatusInvalidParameter
	}
	if int(capability[0]) < len(src) {
		return measure.StatusBufferTooSmall
	}
	copy(capability, src)
	return nil
}

// TCG is a simulated EFI_TCG_PROTOCOL.
type TCG struct {
	TPM *TPM

	Present     bool
	Deactivated bool

	StatusCheckErr        error
	HashLogExtendEventErr error

	StatusCheckCalls        int
	HashLogExtendEventCalls int

	// Received contains the event records that were successfully
	// decoded by HashLogExtendEvent.
	Received []*measure.TCGPCREvent
}

// NewTCG returns a simulated EFI_TCG_PROTOCOL for a present and active
// TPM.
func NewTCG(tpm *TPM) *TCG {
	return &TCG{TPM: tpm, Present: true}
}

func (t *TCG) lastEntry() efi.PhysicalAddress {
	n := len(t.TPM.Events())
	if n == 0 {
		return 0
	}
	return eventLogBase + efi.PhysicalAddress((n-1)*tcgEventSize)
}

// StatusCheck implements measure.TCGProtocol.StatusCheck.
func (t *TCG) StatusCheck(capability []byte) (features uint32, logLocation, logLastEntry efi.PhysicalAddress, err error) {
	t.StatusCheckCalls++
	if t.StatusCheckErr != nil {
		return 0, 0, 0, t.StatusCheckErr
	}

	c := measure.TCGBootServiceCapability{
		StructureVersion:    measure.TCGVersion{Major: 1, Minor: 2},
		ProtocolSpecVersion: measure.TCGVersion{Major: 1, Minor: 2},
		HashAlgorithmBitmap: uint8(measure.MakeTCG2EventAlgorithmBitmap(t.TPM.Algorithms()...)),
		TPMPresentFlag:      t.Present,
		TPMDeactivatedFlag:  t.Deactivated}
	c.Size = uint8(binary.Size(&c))

	buf := new(bytes.Buffer)
	if err := c.Write(buf); err != nil {
		return 0, 0, 0, measure.StatusDeviceError
	}
	if err := fillCapability(capability, buf.Bytes()); err != nil {
		return 0, 0, 0, err
	}
	return 0, eventLogBase, t.lastEntry(), nil
}

// HashLogExtendEvent implements measure.TCGProtocol.HashLogExtendEvent.
func (t *TCG) HashLogExtendEvent(data []byte, algorithm measure.TCGAlgorithmId, event []byte) (eventNumber uint32, logLastEntry efi.PhysicalAddress, err error) {
	t.HashLogExtendEventCalls++
	if t.HashLogExtendEventErr != nil {
		return 0, 0, t.HashLogExtendEventErr
	}
	if algorithm != measure.TCGAlgSHA {
		return 0, 0, measure.StatusUnsupported
	}

	r := bytes.NewReader(event)
	ev, err := measure.ReadTCGPCREvent(r)
	if err != nil {
		return 0, 0, measure.StatusInvalidParameter
	}
	if r.Len() > 0 || ev.PCRIndex >= NumPCRs {
		return 0, 0, measure.StatusInvalidParameter
	}
	t.Received = append(t.Received, ev)

	t.TPM.hashLogExtendEvent(ev.PCRIndex.Handle(), ev.EventType, data, ev.Data)
	return uint32(len(t.TPM.Events())), t.lastEntry(), nil
}
