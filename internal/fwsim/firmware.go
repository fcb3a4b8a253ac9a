// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package fwsim provides a simulated firmware implementing the boot
// services and TCG protocols consumed by the measure package. It backs the
// tests and the tcgmeasure-sim tool.
package fwsim

import (
	efi "github.com/canonical/go-efilib"

	"github.com/canonical/tcg-measure"
)

// Firmware is a simulated firmware that implements measure.BootServices.
type Firmware struct {
	protocols map[efi.GUID]interface{}

	LocateProtocolCalls int
}

// NewFirmware returns a new simulated firmware with no protocols
// installed.
func NewFirmware() *Firmware {
	return &Firmware{protocols: make(map[efi.GUID]interface{})}
}

// InstallProtocol installs the supplied protocol interface. It replaces any
// existing interface for the same GUID.
func (f *Firmware) InstallProtocol(guid efi.GUID, iface interface{}) {
	f.protocols[guid] = iface
}

// UninstallProtocol removes the protocol interface with the supplied GUID.
func (f *Firmware) UninstallProtocol(guid efi.GUID) {
	delete(f.protocols, guid)
}

// LocateProtocol implements measure.BootServices.LocateProtocol.
func (f *Firmware) LocateProtocol(guid efi.GUID) (interface{}, error) {
	f.LocateProtocolCalls++
	iface, ok := f.protocols[guid]
	if !ok {
		return nil, measure.StatusNotFound
	}
	return iface, nil
}
