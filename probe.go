// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

// tcg1InterfaceCheck returns the EFI_TCG_PROTOCOL implementation if there
// is one and it reports an active TPM, or nil otherwise.
func tcg1InterfaceCheck(bs BootServices) TCGProtocol {
	iface, err := bs.LocateProtocol(TCGProtocolGuid)
	if err != nil {
		return nil
	}
	tcg, ok := iface.(TCGProtocol)
	if !ok {
		return nil
	}

	buf := newCapabilityBuffer(tcgCapabilitySize)
	if _, _, _, err := tcg.StatusCheck(buf); err != nil {
		return nil
	}
	capability, err := decodeTCGCapability(buf)
	if err != nil {
		return nil
	}
	if !capability.Active() {
		return nil
	}

	return tcg
}

// tcg2InterfaceCheck returns the EFI_TCG2_PROTOCOL implementation if there
// is one and it reports a TPM, or nil otherwise. Firmware that reports
// capability structure version 1.0 is checked in the same way as
// EFI_TCG_PROTOCOL.
func tcg2InterfaceCheck(bs BootServices) TCG2Protocol {
	iface, err := bs.LocateProtocol(TCG2ProtocolGuid)
	if err != nil {
		return nil
	}
	tcg, ok := iface.(TCG2Protocol)
	if !ok {
		return nil
	}

	buf := newCapabilityBuffer(tcg2CapabilitySize)
	if err := tcg.GetCapability(buf); err != nil {
		return nil
	}
	capability, err := decodeTCG2Capability(buf)
	if err != nil {
		return nil
	}
	if !capability.Active() {
		return nil
	}

	return tcg
}
