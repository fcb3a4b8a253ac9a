// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/canonical/tcglog-parser"

	"github.com/canonical/tcg-measure/internal/ioerr"
)

// TCGPCREvent corresponds to TCG_PCR_EVENT, the event record passed to
// EFI_TCG_PROTOCOL.HashLogExtendEvent.
type TCGPCREvent struct {
	PCRIndex  PCRIndex
	EventType tcglog.EventType
	Digest    [20]byte // filled in by the firmware
	Data      []byte
}

// tcgPCREventHeader is the fixed part of TCG_PCR_EVENT.
type tcgPCREventHeader struct {
	PCRIndex  PCRIndex
	EventType tcglog.EventType
	Digest    [20]byte
	EventSize uint32
}

var tcgPCREventHeaderSize = binary.Size(tcgPCREventHeader{})

// Size returns the size of the serialized record.
func (e *TCGPCREvent) Size() int {
	return tcgPCREventHeaderSize + len(e.Data)
}

// Write serializes this event record to w.
func (e *TCGPCREvent) Write(w io.Writer) error {
	if int64(len(e.Data)) > math.MaxUint32 {
		return &InvalidEventError{Type: "TCG_PCR_EVENT", msg: "event data too large"}
	}
	hdr := tcgPCREventHeader{
		PCRIndex:  e.PCRIndex,
		EventType: e.EventType,
		Digest:    e.Digest,
		EventSize: uint32(len(e.Data))}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	_, err := w.Write(e.Data)
	return err
}

// Bytes returns the serialized record. It panics if the data is larger
// than 4GiB.
func (e *TCGPCREvent) Bytes() []byte {
	return serializeEvent(e.Size(), e.Write)
}

// ReadTCGPCREvent decodes a TCG_PCR_EVENT from r.
func ReadTCGPCREvent(r io.Reader) (*TCGPCREvent, error) {
	var hdr tcgPCREventHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}

	data := make([]byte, hdr.EventSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, ioerr.EOFIsUnexpected("cannot read event data: %w", err)
	}

	return &TCGPCREvent{
		PCRIndex:  hdr.PCRIndex,
		EventType: hdr.EventType,
		Digest:    hdr.Digest,
		Data:      data}, nil
}

// TCG2Event corresponds to EFI_TCG2_EVENT, the event record passed to
// EFI_TCG2_PROTOCOL.HashLogExtendEvent.
type TCG2Event struct {
	PCRIndex  PCRIndex
	EventType tcglog.EventType
	Data      []byte
}

// tcg2EventHeader corresponds to EFI_TCG2_EVENT_HEADER.
type tcg2EventHeader struct {
	HeaderSize    uint32
	HeaderVersion uint16
	PCRIndex      PCRIndex
	EventType     tcglog.EventType
}

// tcg2EventPrefix is the part of EFI_TCG2_EVENT that precedes the event
// data.
type tcg2EventPrefix struct {
	Size   uint32
	Header tcg2EventHeader
}

var (
	tcg2EventHeaderSize = binary.Size(tcg2EventHeader{})
	tcg2EventPrefixSize = binary.Size(tcg2EventPrefix{})
)

// Size returns the size of the serialized record, which is also the
// value of its leading Size field.
func (e *TCG2Event) Size() int {
	return tcg2EventPrefixSize + len(e.Data)
}

// Write serializes this event record to w.
func (e *TCG2Event) Write(w io.Writer) error {
	if int64(e.Size()) > math.MaxUint32 {
		return &InvalidEventError{Type: "EFI_TCG2_EVENT", msg: "event data too large"}
	}
	prefix := tcg2EventPrefix{
		Size: uint32(e.Size()),
		Header: tcg2EventHeader{
			HeaderSize:    uint32(tcg2EventHeaderSize),
			HeaderVersion: TCG2EventHeaderVersion,
			PCRIndex:      e.PCRIndex,
			EventType:     e.EventType}}
	if err := binary.Write(w, binary.LittleEndian, &prefix); err != nil {
		return err
	}
	_, err := w.Write(e.Data)
	return err
}

// Bytes returns the serialized record. It panics if the data is larger
// than 4GiB.
func (e *TCG2Event) Bytes() []byte {
	return serializeEvent(e.Size(), e.Write)
}

// ReadTCG2Event decodes an EFI_TCG2_EVENT from r. The header size and
// version must match the values defined by the protocol.
func ReadTCG2Event(r io.Reader) (*TCG2Event, error) {
	var prefix tcg2EventPrefix
	if err := binary.Read(r, binary.LittleEndian, &prefix); err != nil {
		return nil, err
	}

	switch {
	case prefix.Header.HeaderSize != uint32(tcg2EventHeaderSize):
		return nil, &InvalidEventError{Type: "EFI_TCG2_EVENT", msg: fmt.Sprintf("unexpected header size %d", prefix.Header.HeaderSize)}
	case prefix.Header.HeaderVersion != TCG2EventHeaderVersion:
		return nil, &InvalidEventError{Type: "EFI_TCG2_EVENT", msg: fmt.Sprintf("unexpected header version %d", prefix.Header.HeaderVersion)}
	case prefix.Size < uint32(tcg2EventPrefixSize):
		return nil, &InvalidEventError{Type: "EFI_TCG2_EVENT", msg: fmt.Sprintf("size %d smaller than header", prefix.Size)}
	}

	data := make([]byte, prefix.Size-uint32(tcg2EventPrefixSize))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, ioerr.EOFIsUnexpected("cannot read event data: %w", err)
	}

	return &TCG2Event{
		PCRIndex:  prefix.Header.PCRIndex,
		EventType: prefix.Header.EventType,
		Data:      data}, nil
}

// TCG2TaggedEvent corresponds to EFI_TCG2_TAGGED_EVENT, which is the data
// of an EV_EVENT_TAG event.
type TCG2TaggedEvent struct {
	EventID uint32
	Data    []byte
}

// Write serializes this tagged event to w.
func (e *TCG2TaggedEvent) Write(w io.Writer) error {
	if int64(len(e.Data)) > math.MaxUint32 {
		return &InvalidEventError{Type: "EFI_TCG2_TAGGED_EVENT", msg: "event data too large"}
	}
	if err := binary.Write(w, binary.LittleEndian, e.EventID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Data))); err != nil {
		return err
	}
	_, err := w.Write(e.Data)
	return err
}

// Bytes returns the serialized tagged event. It panics if the data is
// larger than 4GiB.
func (e *TCG2TaggedEvent) Bytes() []byte {
	return serializeEvent(8+len(e.Data), e.Write)
}

// ReadTCG2TaggedEvent decodes an EFI_TCG2_TAGGED_EVENT from r.
func ReadTCG2TaggedEvent(r io.Reader) (*TCG2TaggedEvent, error) {
	var hdr struct {
		EventID   uint32
		EventSize uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}

	data := make([]byte, hdr.EventSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, ioerr.EOFIsUnexpected("cannot read tagged event data: %w", err)
	}

	return &TCG2TaggedEvent{EventID: hdr.EventID, Data: data}, nil
}

// serializeEvent runs fn against a zeroed buffer allocated up front with
// its final size, so that the header and data share one allocation. Writes
// to a bytes.Buffer don't fail, so fn can only fail when the event data is
// larger than its 32-bit size field can describe, which is a programming
// error.
func serializeEvent(size int, fn func(io.Writer) error) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := fn(buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// newTCGEvent builds the TCG_PCR_EVENT for an EV_IPL measurement with the
// supplied UCS-2 encoded description.
func newTCGEvent(pcr PCRIndex, description []byte) []byte {
	ev := TCGPCREvent{
		PCRIndex:  pcr,
		EventType: tcglog.EventTypeIPL,
		Data:      description}
	return ev.Bytes()
}

// newTCG2Event builds the EFI_TCG2_EVENT for a measurement of the specified
// type with the supplied event data.
func newTCG2Event(pcr PCRIndex, eventType tcglog.EventType, data []byte) []byte {
	ev := TCG2Event{
		PCRIndex:  pcr,
		EventType: eventType,
		Data:      data}
	return ev.Bytes()
}
