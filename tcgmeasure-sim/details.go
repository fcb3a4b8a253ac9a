// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	efi "github.com/canonical/go-efilib"
	"github.com/canonical/tcglog-parser"

	"github.com/canonical/tcg-measure"
)

type stringer string

func (s stringer) String() string { return string(s) }

type indentStringer struct {
	src    fmt.Stringer
	indent int
}

func (s *indentStringer) String() string {
	prefix := "\n" + strings.Repeat("\t", s.indent)
	return strings.Replace(s.src.String(), "\n", prefix, -1)
}

func indent(src fmt.Stringer, n int) fmt.Stringer {
	return &indentStringer{src: src, indent: n}
}

// decodeDescription converts a null terminated UCS-2 description back to
// a string.
func decodeDescription(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("odd payload length (%d bytes)", len(data))
	}
	u := make([]uint16, len(data)/2)
	binary.Read(bytes.NewReader(data), binary.LittleEndian, u)
	if len(u) == 0 || u[len(u)-1] != 0 {
		return "", fmt.Errorf("missing terminator")
	}
	return efi.ConvertUTF16ToUTF8(u[:len(u)-1]), nil
}

type descriptionStringer []byte

func (s descriptionStringer) String() string {
	desc, err := decodeDescription(s)
	if err != nil {
		return fmt.Sprintf("Invalid description: %v", err)
	}
	return desc
}

type taggedEventStringer struct {
	data    []byte
	verbose bool
}

func (s *taggedEventStringer) String() string {
	ev, err := measure.ReadTCG2TaggedEvent(bytes.NewReader(s.data))
	if err != nil {
		return fmt.Sprintf("Invalid tagged event: %v", err)
	}
	if s.verbose {
		return fmt.Sprintf("EventID: 0x%08x, EventSize: %d, %s", ev.EventID, len(ev.Data), descriptionStringer(ev.Data))
	}
	return fmt.Sprintf("EventID: 0x%08x, %s", ev.EventID, descriptionStringer(ev.Data))
}

func eventDetailsStringer(event *tcglog.Event, verbose bool) fmt.Stringer {
	switch event.EventType {
	case tcglog.EventTypeIPL:
		return descriptionStringer(event.Data.Bytes())
	case tcglog.EventTypeEventTag:
		return &taggedEventStringer{data: event.Data.Bytes(), verbose: verbose}
	default:
		return event.Data
	}
}
