// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package fwsim

import (
	"bytes"
	"encoding/binary"

	"github.com/canonical/tcg-measure"
)

// TCG2 is a simulated EFI_TCG2_PROTOCOL.
type TCG2 struct {
	TPM *TPM

	// Legacy makes GetCapability report structure version 1.0 using the
	// TCG_BOOT_SERVICE_CAPABILITY layout, like early firmware
	// implementations of the protocol.
	Legacy bool

	Present     bool
	Deactivated bool // only reported in the legacy layout

	GetCapabilityErr      error
	HashLogExtendEventErr error

	GetCapabilityCalls      int
	HashLogExtendEventCalls int

	// Received contains the event records that were successfully
	// decoded by HashLogExtendEvent.
	Received []*measure.TCG2Event
}

// NewTCG2 returns a simulated EFI_TCG2_PROTOCOL for a present TPM.
func NewTCG2(tpm *TPM) *TCG2 {
	return &TCG2{TPM: tpm, Present: true}
}

func (t *TCG2) capability() ([]byte, error) {
	buf := new(bytes.Buffer)
	if t.Legacy {
		c := measure.TCGBootServiceCapability{
			StructureVersion:    measure.TCGVersion{Major: 1, Minor: 0},
			ProtocolSpecVersion: measure.TCGVersion{Major: 1, Minor: 0},
			HashAlgorithmBitmap: uint8(measure.MakeTCG2EventAlgorithmBitmap(t.TPM.Algorithms()...)),
			TPMPresentFlag:      t.Present,
			TPMDeactivatedFlag:  t.Deactivated}
		c.Size = uint8(binary.Size(&c))
		if err := c.Write(buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	algs := measure.MakeTCG2EventAlgorithmBitmap(t.TPM.Algorithms()...)
	c := measure.TCG2BootServiceCapability{
		StructureVersion:    measure.TCG2Version{Major: 1, Minor: 1},
		ProtocolVersion:     measure.TCG2Version{Major: 1, Minor: 1},
		HashAlgorithmBitmap: algs,
		SupportedEventLogs:  measure.TCG2EventLogFormatTCG_2,
		TPMPresentFlag:      t.Present,
		MaxCommandSize:      4096,
		MaxResponseSize:     4096,
		ManufacturerID:      0x53494d00, // "SIM"
		NumberOfPCRBanks:    uint32(len(t.TPM.Algorithms())),
		ActivePCRBanks:      algs}
	c.Size = uint8(binary.Size(&c))
	if err := c.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetCapability implements measure.TCG2Protocol.GetCapability.
func (t *TCG2) GetCapability(capability []byte) error {
	t.GetCapabilityCalls++
	if t.GetCapabilityErr != nil {
		return t.GetCapabilityErr
	}
	if len(capability) == 0 {
		return measure.StatusInvalidParameter
	}

	src, err := t.capability()
	if err != nil {
		return measure.StatusDeviceError
	}
	return fillCapability(capability, src)
}

// HashLogExtendEvent implements measure.TCG2Protocol.HashLogExtendEvent.
func (t *TCG2) HashLogExtendEvent(flags measure.TCG2ExtendFlags, data []byte, event []byte) error {
	t.HashLogExtendEventCalls++
	if t.HashLogExtendEventErr != nil {
		return t.HashLogExtendEventErr
	}
	if flags&^measure.TCG2PECOFFImage != 0 {
		return measure.StatusInvalidParameter
	}

	r := bytes.NewReader(event)
	ev, err := measure.ReadTCG2Event(r)
	if err != nil {
		return measure.StatusInvalidParameter
	}
	if r.Len() > 0 || ev.PCRIndex >= NumPCRs {
		return measure.StatusInvalidParameter
	}
	t.Received = append(t.Received, ev)

	t.TPM.hashLogExtendEvent(ev.PCRIndex.Handle(), ev.EventType, data, ev.Data)
	return nil
}
