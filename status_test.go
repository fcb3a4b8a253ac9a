// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure_test

import (
	"errors"

	"golang.org/x/xerrors"

	. "gopkg.in/check.v1"

	. "github.com/canonical/tcg-measure"
)

type statusSuite struct{}

var _ = Suite(&statusSuite{})

func (s *statusSuite) TestIsError(c *C) {
	c.Check(StatusSuccess.IsError(), Equals, false)
	c.Check(StatusDeviceError.IsError(), Equals, true)
	c.Check(Status(4).IsError(), Equals, false)
}

func (s *statusSuite) TestString(c *C) {
	c.Check(StatusInvalidParameter.String(), Equals, "EFI_INVALID_PARAMETER")
	c.Check(StatusSecurityViolation.Error(), Equals, "EFI_SECURITY_VIOLATION")
	c.Check(Status(1<<63|0x30).String(), Equals, "EFI error 0x30")
	c.Check(Status(4).String(), Equals, "EFI warning 0x4")
}

func (s *statusSuite) TestStatusOf(c *C) {
	c.Check(StatusOf(nil), Equals, StatusSuccess)
	c.Check(StatusOf(StatusNotFound), Equals, StatusNotFound)
	c.Check(StatusOf(xerrors.Errorf("cannot locate protocol: %w", StatusNotFound)), Equals, StatusNotFound)
	c.Check(StatusOf(&MeasurementError{PCRIndex: 8, Err: StatusAborted}), Equals, StatusAborted)
	c.Check(StatusOf(errors.New("some error")), Equals, StatusDeviceError)
}
