// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"fmt"
)

// MeasurementError is returned from Measurer.LogLoadOptions when the
// firmware fails to measure to one of the PCRs.
type MeasurementError struct {
	PCRIndex PCRIndex
	Err      error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("cannot measure to PCR %d: %v", e.PCRIndex, e.Err)
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// InvalidEventError is returned when decoding an event record that is
// malformed.
type InvalidEventError struct {
	Type string
	msg  string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Type, e.msg)
}
