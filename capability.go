// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/canonical/tcg-measure/internal/ioerr"
)

// TCGVersion corresponds to TCG_VERSION.
type TCGVersion struct {
	Major    uint8
	Minor    uint8
	RevMajor uint8
	RevMinor uint8
}

// TCGBootServiceCapability corresponds to TCG_BOOT_SERVICE_CAPABILITY.
type TCGBootServiceCapability struct {
	Size                uint8
	StructureVersion    TCGVersion
	ProtocolSpecVersion TCGVersion
	HashAlgorithmBitmap uint8
	TPMPresentFlag      bool
	TPMDeactivatedFlag  bool
}

// Active indicates whether the capability describes a TPM that is present
// and not deactivated.
func (c *TCGBootServiceCapability) Active() bool {
	return c.TPMPresentFlag && !c.TPMDeactivatedFlag
}

// Write serializes this capability in the firmware layout.
func (c *TCGBootServiceCapability) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, c)
}

// TCG2Version corresponds to EFI_TCG2_VERSION.
type TCG2Version struct {
	Major uint8
	Minor uint8
}

// TCG2BootServiceCapability corresponds to EFI_TCG2_BOOT_SERVICE_CAPABILITY.
// Unlike the event records, this structure isn't packed, so the blank
// fields reproduce the padding of its natural alignment.
type TCG2BootServiceCapability struct {
	Size                uint8
	StructureVersion    TCG2Version
	ProtocolVersion     TCG2Version
	_                   [3]uint8
	HashAlgorithmBitmap TCG2EventAlgorithmBitmap
	SupportedEventLogs  TCG2EventLogBitmap
	TPMPresentFlag      bool
	_                   uint8
	MaxCommandSize      uint16
	MaxResponseSize     uint16
	_                   [2]uint8
	ManufacturerID      uint32
	NumberOfPCRBanks    uint32
	ActivePCRBanks      TCG2EventAlgorithmBitmap
}

// Active indicates whether the capability describes a TPM that is present.
func (c *TCG2BootServiceCapability) Active() bool {
	return c.TPMPresentFlag
}

// Write serializes this capability in the firmware layout.
func (c *TCG2BootServiceCapability) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, c)
}

var (
	tcgCapabilitySize  = binary.Size(TCGBootServiceCapability{})
	tcg2CapabilitySize = binary.Size(TCG2BootServiceCapability{})

	// tcg2LegacyStructureVersion is the structure version reported by
	// firmware implementing version 1.0 of EFI_TCG2_PROTOCOL, which
	// returns its capability in the TCG_BOOT_SERVICE_CAPABILITY layout.
	tcg2LegacyStructureVersion = TCG2Version{Major: 1, Minor: 0}
)

// bootServiceCapability is implemented by *TCGBootServiceCapability and
// *TCG2BootServiceCapability.
type bootServiceCapability interface {
	Active() bool
}

// newCapabilityBuffer returns a zeroed buffer of the specified size with
// the leading size field initialized, ready to be passed to the firmware.
func newCapabilityBuffer(size int) []byte {
	buf := make([]byte, size)
	buf[0] = uint8(size)
	return buf
}

func decodeTCGCapability(data []byte) (*TCGBootServiceCapability, error) {
	var c TCGBootServiceCapability
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &c); err != nil {
		return nil, ioerr.EOFIsUnexpected("cannot decode TCG_BOOT_SERVICE_CAPABILITY: %w", err)
	}
	return &c, nil
}

// decodeLegacyCapability converts the contents of a buffer filled by
// EFI_TCG2_PROTOCOL.GetCapability into the TCG_BOOT_SERVICE_CAPABILITY
// layout. It must only be used when the structure version is 1.0.
func decodeLegacyCapability(data []byte) (*TCGBootServiceCapability, error) {
	return decodeTCGCapability(data)
}

// decodeTCG2Capability decodes the contents of a buffer filled by
// EFI_TCG2_PROTOCOL.GetCapability. The returned value is a
// *TCGBootServiceCapability if the firmware reports structure version 1.0,
// or a *TCG2BootServiceCapability otherwise.
func decodeTCG2Capability(data []byte) (bootServiceCapability, error) {
	var c TCG2BootServiceCapability
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &c); err != nil {
		return nil, ioerr.EOFIsUnexpected("cannot decode EFI_TCG2_BOOT_SERVICE_CAPABILITY: %w", err)
	}
	if c.StructureVersion == tcg2LegacyStructureVersion {
		return decodeLegacyCapability(data)
	}
	return &c, nil
}
