// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure_test

import (
	"bytes"
	"errors"
	"time"

	. "gopkg.in/check.v1"

	. "github.com/canonical/tcg-measure"
)

type reportSuite struct{}

var _ = Suite(&reportSuite{})

func (s *reportSuite) TestConsoleReporter(c *C) {
	w := new(bytes.Buffer)
	r := NewConsoleReporter(w, DefaultStall)

	var stalls []time.Duration
	MockConsoleReporterSleep(r, func(d time.Duration) {
		stalls = append(stalls, d)
	})

	err := errors.New("some error")
	c.Check(r.ReportError(err, "Unable to measure to PCR %d: %v", 12, err), Equals, err)
	c.Check(w.String(), Equals, "Unable to measure to PCR 12: some error\n")
	c.Check(stalls, DeepEquals, []time.Duration{3 * time.Second})
}

func (s *reportSuite) TestConsoleReporterNoStall(c *C) {
	w := new(bytes.Buffer)
	r := NewConsoleReporter(w, 0)

	stalled := false
	MockConsoleReporterSleep(r, func(time.Duration) {
		stalled = true
	})

	c.Check(r.ReportError(StatusDeviceError, "foo"), Equals, StatusDeviceError)
	c.Check(w.String(), Equals, "foo\n")
	c.Check(stalled, Equals, false)
}
