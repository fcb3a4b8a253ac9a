// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	efi "github.com/canonical/go-efilib"
)

// BootServices provides access to firmware protocols.
type BootServices interface {
	// LocateProtocol returns the first interface that implements the
	// protocol with the supplied GUID. An error is returned if there
	// isn't one.
	LocateProtocol(guid efi.GUID) (interface{}, error)
}

// TCGProtocol corresponds to EFI_TCG_PROTOCOL, exposed by firmware
// for TPM 1.2 devices.
type TCGProtocol interface {
	// StatusCheck fills capability with a TCG_BOOT_SERVICE_CAPABILITY.
	// The first byte of capability is initialized to its size by the
	// caller.
	StatusCheck(capability []byte) (features uint32, eventLogLocation, eventLogLastEntry efi.PhysicalAddress, err error)

	// HashLogExtendEvent hashes data, extends the PCR identified by the
	// supplied TCG_PCR_EVENT with the digest and then appends the event
	// to the event log.
	HashLogExtendEvent(data []byte, algorithm TCGAlgorithmId, event []byte) (eventNumber uint32, eventLogLastEntry efi.PhysicalAddress, err error)
}

// TCG2Protocol corresponds to EFI_TCG2_PROTOCOL, exposed by firmware
// for TPM 2.0 devices.
type TCG2Protocol interface {
	// GetCapability fills capability with an
	// EFI_TCG2_BOOT_SERVICE_CAPABILITY. The first byte of capability
	// is initialized to its size by the caller. Firmware implementing
	// version 1.0 of the protocol fills it with the layout of
	// TCG_BOOT_SERVICE_CAPABILITY instead.
	GetCapability(capability []byte) error

	// HashLogExtendEvent hashes data, extends the PCR identified by the
	// supplied EFI_TCG2_EVENT with the digests and then appends the event
	// to the event log.
	HashLogExtendEvent(flags TCG2ExtendFlags, data []byte, event []byte) error
}
