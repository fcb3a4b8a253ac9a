// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"bytes"
	"io"

	. "gopkg.in/check.v1"
)

type tableSuite struct{}

var _ = Suite(&tableSuite{})

func (s *tableSuite) TestLineTruncatorShortLines(c *C) {
	w := new(bytes.Buffer)
	t := &lineTruncator{w: w, width: 10}
	io.WriteString(t, "foo\nbar\n")
	c.Check(w.String(), Equals, "foo\nbar\n")
}

func (s *tableSuite) TestLineTruncatorExactWidth(c *C) {
	w := new(bytes.Buffer)
	t := &lineTruncator{w: w, width: 10}
	io.WriteString(t, "0123456789\n")
	c.Check(w.String(), Equals, "0123456789\n")
}

func (s *tableSuite) TestLineTruncatorLongLine(c *C) {
	w := new(bytes.Buffer)
	t := &lineTruncator{w: w, width: 10}
	io.WriteString(t, "console=ttyS0 quiet\nfoo\n")
	c.Check(w.String(), Equals, "console...\nfoo\n")
}

func (s *tableSuite) TestLineTruncatorSplitWrites(c *C) {
	w := new(bytes.Buffer)
	t := &lineTruncator{w: w, width: 6}
	io.WriteString(t, "abc")
	c.Check(w.Len(), Equals, 0)
	io.WriteString(t, "defgh\nij")
	c.Check(t.Flush(), IsNil)
	c.Check(w.String(), Equals, "abc...\nij")
}

func (s *tableSuite) TestLineTruncatorMultibyte(c *C) {
	w := new(bytes.Buffer)
	t := &lineTruncator{w: w, width: 5}
	io.WriteString(t, "éééééé\n")
	c.Check(w.String(), Equals, "éé...\n")
}
