// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

/*
Package measure records measurements of boot-time data to the TPM from a
firmware-stage boot loader, using either EFI_TCG2_PROTOCOL or the legacy
EFI_TCG_PROTOCOL, whichever the firmware provides.

Measurements are best effort: the absence of a TPM is not an error, and
only a failure reported by the firmware when extending a PCR is returned
to the caller.
*/
package measure

import (
	"os"

	"github.com/canonical/tcglog-parser"
)

// Options allows the behaviour of Measurer to be customized.
type Options struct {
	// Reporter is used to report measurement failures from
	// LogLoadOptions. The default prints to stderr and stalls for
	// DefaultStall.
	Reporter Reporter
}

// Measurer measures data to the TPM via the firmware.
type Measurer struct {
	bs       BootServices
	reporter Reporter
}

// NewMeasurer returns a new Measurer that locates the firmware protocols
// using the supplied boot services. The options argument may be nil.
func NewMeasurer(bs BootServices, options *Options) *Measurer {
	if options == nil {
		options = new(Options)
	}
	reporter := options.Reporter
	if reporter == nil {
		reporter = NewConsoleReporter(os.Stderr, DefaultStall)
	}
	return &Measurer{bs: bs, reporter: reporter}
}

// TPMPresent indicates whether the firmware provides access to an active
// TPM.
func (m *Measurer) TPMPresent() bool {
	return tcg2InterfaceCheck(m.bs) != nil || tcg1InterfaceCheck(m.bs) != nil
}

func (m *Measurer) logEvent(pcr PCRIndex, data []byte, eventType tcglog.EventType, tcg2Data, tcgData []byte) (measured bool, err error) {
	if pcr == PCRIndexDisabled {
		return false, nil
	}

	if tcg := tcg2InterfaceCheck(m.bs); tcg != nil {
		if err := tcg.HashLogExtendEvent(0, data, newTCG2Event(pcr, eventType, tcg2Data)); err != nil {
			return false, err
		}
		return true, nil
	}

	if tcg := tcg1InterfaceCheck(m.bs); tcg != nil {
		if _, _, err := tcg.HashLogExtendEvent(data, TCGAlgSHA, newTCGEvent(pcr, tcgData)); err != nil {
			return false, err
		}
		return true, nil
	}

	// No active TPM
	return false, nil
}

// LogEventMeasured measures data to the specified PCR and appends an
// EV_IPL event with the supplied description to the firmware's event log.
// It returns true if a measurement was made.
//
// If pcr is PCRIndexDisabled or there is no active TPM, this does nothing
// and returns no error. An error returned from the firmware is returned
// unmodified.
func (m *Measurer) LogEventMeasured(pcr PCRIndex, data []byte, description string) (measured bool, err error) {
	desc := encodeDescription(description)
	return m.logEvent(pcr, data, tcglog.EventTypeIPL, desc, desc)
}

// LogEvent measures data to the specified PCR and appends an EV_IPL event
// with the supplied description to the firmware's event log.
//
// If pcr is PCRIndexDisabled or there is no active TPM, this does nothing
// and returns no error. An error returned from the firmware is returned
// unmodified.
func (m *Measurer) LogEvent(pcr PCRIndex, data []byte, description string) error {
	_, err := m.LogEventMeasured(pcr, data, description)
	return err
}

// LogTaggedEvent measures data to the specified PCR and appends an
// EV_EVENT_TAG event with the supplied event ID and description to the
// firmware's event log. Tagged events are only defined for
// EFI_TCG2_PROTOCOL, so an EV_IPL event with the description is logged
// instead when only EFI_TCG_PROTOCOL is available.
func (m *Measurer) LogTaggedEvent(pcr PCRIndex, data []byte, eventID uint32, description string) error {
	desc := encodeDescription(description)
	tagged := TCG2TaggedEvent{EventID: eventID, Data: desc}
	_, err := m.logEvent(pcr, data, tcglog.EventTypeEventTag, tagged.Bytes(), desc)
	return err
}

// LogLoadOptions measures the supplied load options (the kernel command
// line) to KernelParametersPCR and then KernelParametersCompatPCR. The
// UCS-2 representation of the load options is both measured and logged
// as the event description.
//
// If measuring to a PCR fails, the failure is reported with the
// configured Reporter and a *MeasurementError is returned without
// measuring to any subsequent PCR.
func (m *Measurer) LogLoadOptions(loadOptions string) error {
	desc := encodeDescription(loadOptions)

	for _, pcr := range []PCRIndex{KernelParametersPCR, KernelParametersCompatPCR} {
		if _, err := m.logEvent(pcr, desc, tcglog.EventTypeIPL, desc, desc); err != nil {
			return m.reporter.ReportError(&MeasurementError{PCRIndex: pcr, Err: err},
				"Unable to add load options (i.e. kernel command) line measurement to PCR %d: %v", pcr, err)
		}
	}

	return nil
}
