// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"time"
)

var (
	DecodeTCG2Capability = decodeTCG2Capability
	EncodeDescription    = encodeDescription
	NewCapabilityBuffer  = newCapabilityBuffer
	NewTCGEvent          = newTCGEvent
	NewTCG2Event         = newTCG2Event
	TCG1InterfaceCheck   = tcg1InterfaceCheck
	TCG2InterfaceCheck   = tcg2InterfaceCheck

	TCGCapabilitySize  = tcgCapabilitySize
	TCG2CapabilitySize = tcg2CapabilitySize
)

type BootServiceCapability = bootServiceCapability

func MockConsoleReporterSleep(r Reporter, fn func(time.Duration)) {
	r.(*consoleReporter).sleep = fn
}
