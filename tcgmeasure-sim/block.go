// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"
)

type blockFormatter struct {
	dst io.Writer

	algs      []tpm2.HashAlgorithmId
	verbosity int
	hexdump   bool
}

func (*blockFormatter) printHeader() {}

func (f *blockFormatter) printEvent(event *tcglog.Event) {
	fmt.Fprintf(f.dst, "\nPCR: %d\n", event.PCRIndex)
	fmt.Fprintf(f.dst, "TYPE: %s\n", event.EventType)
	for _, alg := range f.algs {
		digest, ok := event.Digests[alg]
		if !ok {
			continue
		}
		fmt.Fprintf(f.dst, "DIGEST(%s): %x\n", alg, digest)
	}

	if f.verbosity > 0 {
		fmt.Fprintf(f.dst, "DETAILS: %s\n", indent(eventDetailsStringer(event, f.verbosity > 1), 1))
	}
	if f.hexdump {
		io.WriteString(f.dst, "EVENT DATA BYTES:\n\t")
		io.WriteString(f.dst, indent(stringer(hex.Dump(event.Data.Bytes())), 1).String())
	}
}

func (*blockFormatter) flush() {}

func newBlockFormatter(w io.Writer, algs []tpm2.HashAlgorithmId, verbosity int, hexdump bool) formatter {
	return &blockFormatter{
		dst:       w,
		algs:      algs,
		verbosity: verbosity,
		hexdump:   hexdump}
}
