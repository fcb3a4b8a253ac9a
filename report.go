// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"fmt"
	"io"
	"time"
)

// DefaultStall is how long the console reporter pauses after printing a
// failure so that the message can be read before the boot continues.
const DefaultStall = 3 * time.Second

// Reporter is used to make measurement failures visible to the user.
type Reporter interface {
	// ReportError reports err with a message built from format and args.
	// It returns err.
	ReportError(err error, format string, args ...interface{}) error
}

type consoleReporter struct {
	w     io.Writer
	stall time.Duration
	sleep func(time.Duration)
}

// NewConsoleReporter returns a Reporter that writes messages to w and then
// stalls for the specified duration.
func NewConsoleReporter(w io.Writer, stall time.Duration) Reporter {
	return &consoleReporter{w: w, stall: stall, sleep: time.Sleep}
}

func (r *consoleReporter) ReportError(err error, format string, args ...interface{}) error {
	fmt.Fprintf(r.w, format+"\n", args...)
	if r.stall > 0 {
		r.sleep(r.stall)
	}
	return err
}
