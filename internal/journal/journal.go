// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

// Package journal provides a measure.Reporter that sends measurement
// failures to the systemd journal.
package journal

import (
	"errors"
	"fmt"

	"github.com/coreos/go-systemd/journal"

	"github.com/canonical/tcg-measure"
)

var (
	journalEnabled = journal.Enabled
	journalSend    = journal.Send
)

type reporter struct {
	identifier string
	fallback   measure.Reporter
}

// NewReporter returns a measure.Reporter that sends messages to the
// systemd journal with the specified syslog identifier. Messages are passed
// to fallback if the journal isn't available or sending fails.
func NewReporter(identifier string, fallback measure.Reporter) measure.Reporter {
	return &reporter{identifier: identifier, fallback: fallback}
}

func (r *reporter) ReportError(err error, format string, args ...interface{}) error {
	if !journalEnabled() {
		return r.fallback.ReportError(err, format, args...)
	}

	vars := map[string]string{
		"SYSLOG_IDENTIFIER": r.identifier,
		"EFI_STATUS":        measure.StatusOf(err).String()}
	var e *measure.MeasurementError
	if errors.As(err, &e) {
		vars["TPM_PCR"] = fmt.Sprintf("%d", e.PCRIndex)
	}

	if sendErr := journalSend(fmt.Sprintf(format, args...), journal.PriErr, vars); sendErr != nil {
		return r.fallback.ReportError(err, format, args...)
	}
	return err
}
