// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package fwsim_test

import (
	"bytes"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"

	. "gopkg.in/check.v1"

	"github.com/canonical/tcg-measure"
	. "github.com/canonical/tcg-measure/internal/fwsim"
)

type tpmSuite struct{}

var _ = Suite(&tpmSuite{})

func (s *tpmSuite) TestNewTPM(c *C) {
	tpm := NewTPM(tpm2.HashAlgorithmSHA1, tpm2.HashAlgorithmSHA384)
	c.Check(tpm.Algorithms(), DeepEquals, []tpm2.HashAlgorithmId{tpm2.HashAlgorithmSHA1, tpm2.HashAlgorithmSHA384})
	c.Check(tpm.PCRValue(tpm2.HashAlgorithmSHA1, 0), DeepEquals, make(tpm2.Digest, 20))
	c.Check(tpm.PCRValue(tpm2.HashAlgorithmSHA384, 23), DeepEquals, make(tpm2.Digest, 48))
	c.Check(tpm.PCRValue(tpm2.HashAlgorithmSHA384, 24), IsNil)
	c.Check(tpm.PCRValue(tpm2.HashAlgorithmSHA256, 0), IsNil)
	c.Check(tpm.Events(), HasLen, 0)
}

func (s *tpmSuite) TestWriteLogCryptoAgile(c *C) {
	tpm := NewTPM(tpm2.HashAlgorithmSHA1, tpm2.HashAlgorithmSHA256)
	tcg2 := NewTCG2(tpm)

	for _, pcr := range []measure.PCRIndex{12, 8} {
		ev := measure.TCG2Event{PCRIndex: pcr, EventType: tcglog.EventTypeIPL, Data: []byte("bar")}
		c.Assert(tcg2.HashLogExtendEvent(0, []byte("foo"), ev.Bytes()), IsNil)
	}

	w := new(bytes.Buffer)
	c.Assert(tpm.WriteLog(w), IsNil)

	log, err := tcglog.ReadLog(bytes.NewReader(w.Bytes()), &tcglog.LogOptions{})
	c.Assert(err, IsNil)
	c.Check(log.Algorithms.Contains(tpm2.HashAlgorithmSHA1), Equals, true)
	c.Check(log.Algorithms.Contains(tpm2.HashAlgorithmSHA256), Equals, true)

	c.Assert(log.Events, HasLen, 3)
	c.Check(log.Events[0].EventType, Equals, tcglog.EventTypeNoAction)
	for i, pcr := range []tpm2.Handle{12, 8} {
		ev := log.Events[i+1]
		c.Check(ev.PCRIndex, Equals, pcr)
		c.Check(ev.EventType, Equals, tcglog.EventTypeIPL)
		c.Check(ev.Digests[tpm2.HashAlgorithmSHA1], DeepEquals, tpm2.Digest(decodeHexString(c, "0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33")))
		c.Check(ev.Digests[tpm2.HashAlgorithmSHA256], DeepEquals, tpm2.Digest(decodeHexString(c, "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae")))
		c.Check(ev.Data.Bytes(), DeepEquals, []byte("bar"))
	}
}

func (s *tpmSuite) TestWriteLogSHA1(c *C) {
	tpm := NewTPM(tpm2.HashAlgorithmSHA1)
	tcg := NewTCG(tpm)

	ev := measure.TCGPCREvent{PCRIndex: 8, EventType: tcglog.EventTypeIPL, Data: []byte("bar")}
	_, _, err := tcg.HashLogExtendEvent([]byte("foo"), measure.TCGAlgSHA, ev.Bytes())
	c.Assert(err, IsNil)

	w := new(bytes.Buffer)
	c.Assert(tpm.WriteLog(w), IsNil)

	ev.Digest = [20]byte{}
	copy(ev.Digest[:], decodeHexString(c, "0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33"))
	c.Check(w.Bytes(), DeepEquals, ev.Bytes())

	log, err := tcglog.ReadLog(bytes.NewReader(w.Bytes()), &tcglog.LogOptions{})
	c.Assert(err, IsNil)
	c.Assert(log.Events, HasLen, 1)
	c.Check(log.Events[0].PCRIndex, Equals, tpm2.Handle(8))
	c.Check(log.Events[0].Digests[tpm2.HashAlgorithmSHA1], DeepEquals, tpm2.Digest(ev.Digest[:]))
}
