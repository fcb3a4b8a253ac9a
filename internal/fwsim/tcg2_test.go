// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package fwsim_test

import (
	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"

	. "gopkg.in/check.v1"

	"github.com/canonical/tcg-measure"
	. "github.com/canonical/tcg-measure/internal/fwsim"
)

type tcg2Suite struct{}

var _ = Suite(&tcg2Suite{})

func (s *tcg2Suite) TestGetCapability(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA1, tpm2.HashAlgorithmSHA256))

	buf := make([]byte, 36)
	buf[0] = 36
	c.Check(tcg.GetCapability(buf), IsNil)
	c.Check(buf, DeepEquals, decodeHexString(c, "240101010100000003000000020000000100001000100000004d49530200000003000000"))
	c.Check(tcg.GetCapabilityCalls, Equals, 1)
}

func (s *tcg2Suite) TestGetCapabilityLegacy(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA1))
	tcg.Legacy = true

	buf := make([]byte, 36)
	buf[0] = 36
	c.Check(tcg.GetCapability(buf), IsNil)
	c.Check(buf[:12], DeepEquals, decodeHexString(c, "0c0100000001000000010100"))
	c.Check(buf[12:], DeepEquals, make([]byte, 24))
}

func (s *tcg2Suite) TestGetCapabilityBufferTooSmall(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	buf := make([]byte, 12)
	buf[0] = 12
	c.Check(tcg.GetCapability(buf), Equals, measure.StatusBufferTooSmall)
}

func (s *tcg2Suite) TestGetCapabilityEmptyBuffer(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))
	c.Check(tcg.GetCapability(nil), Equals, measure.StatusInvalidParameter)
}

func (s *tcg2Suite) TestHashLogExtendEvent(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	ev := measure.TCG2Event{PCRIndex: 12, EventType: tcglog.EventTypeIPL, Data: []byte("bar")}
	c.Check(tcg.HashLogExtendEvent(0, []byte("foo"), ev.Bytes()), IsNil)
	c.Check(tcg.Received, DeepEquals, []*measure.TCG2Event{&ev})
	c.Check(tcg.TPM.PCRValue(tpm2.HashAlgorithmSHA256, 12), DeepEquals, tpm2.Digest(decodeHexString(c, "424816d020cf3d793ac021da47379bdf608080a83eb9364a7fbe0bdfa87111d7")))
}

func (s *tcg2Suite) TestHashLogExtendEventInvalidFlags(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	ev := measure.TCG2Event{PCRIndex: 12, EventType: tcglog.EventTypeIPL}
	c.Check(tcg.HashLogExtendEvent(1, nil, ev.Bytes()), Equals, measure.StatusInvalidParameter)
}

func (s *tcg2Suite) TestHashLogExtendEventMalformed(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	// EFI_TCG2_EVENT.Size covers more data than was supplied.
	c.Check(tcg.HashLogExtendEvent(0, nil, decodeHexString(c, "2e0000000e00000001000c0000000d000000")), Equals, measure.StatusInvalidParameter)
	c.Check(tcg.TPM.Events(), HasLen, 0)
}

func (s *tcg2Suite) TestHashLogExtendEventTrailingBytes(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	ev := measure.TCG2Event{PCRIndex: 12, EventType: tcglog.EventTypeIPL}
	c.Check(tcg.HashLogExtendEvent(0, nil, append(ev.Bytes(), 0)), Equals, measure.StatusInvalidParameter)
}

func (s *tcg2Suite) TestHashLogExtendEventInvalidPCR(c *C) {
	tcg := NewTCG2(NewTPM(tpm2.HashAlgorithmSHA256))

	ev := measure.TCG2Event{PCRIndex: 24, EventType: tcglog.EventTypeIPL}
	c.Check(tcg.HashLogExtendEvent(0, nil, ev.Bytes()), Equals, measure.StatusInvalidParameter)
}
