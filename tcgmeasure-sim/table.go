// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"
	"golang.org/x/sys/unix"
)

type formatter interface {
	printHeader()
	printEvent(event *tcglog.Event)
	flush()
}

// lineTruncator buffers each line written to it and cuts it to the width
// of the terminal, marking truncated lines with "...".
type lineTruncator struct {
	w     io.Writer
	width int
	line  []byte
}

func (t *lineTruncator) emit(eol string) error {
	line := []rune(string(t.line))
	t.line = t.line[:0]
	if len(line) > t.width {
		line = append(line[:t.width-3], '.', '.', '.')
	}
	_, err := io.WriteString(t.w, string(line)+eol)
	return err
}

func (t *lineTruncator) Write(data []byte) (int, error) {
	for _, b := range data {
		if b != '\n' {
			t.line = append(t.line, b)
			continue
		}
		if err := t.emit("\n"); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

// Flush writes out any partial line.
func (t *lineTruncator) Flush() error {
	if len(t.line) == 0 {
		return nil
	}
	return t.emit("")
}

// tableStringer keeps only the first line of a multi-line string so that
// it fits in a table cell.
type tableStringer struct {
	fmt.Stringer
}

func (s *tableStringer) String() string {
	str := s.Stringer.String()
	n := strings.IndexAny(str, "\n\t")
	if n == -1 {
		return str
	}
	return str[0:n] + " ..."
}

type tableFormatter struct {
	dst       *tabwriter.Writer
	truncator *lineTruncator

	alg     tpm2.HashAlgorithmId
	verbose bool
}

func (f *tableFormatter) printHeader() {
	fmt.Fprintf(f.dst, "PCR\tTYPE\tDIGEST(%v)\tDESCRIPTION\n", f.alg)
}

func (f *tableFormatter) printEvent(event *tcglog.Event) {
	fmt.Fprintf(f.dst, "%d\t%s\t%x\t%s\n", event.PCRIndex, event.EventType, event.Digests[f.alg],
		&tableStringer{eventDetailsStringer(event, f.verbose)})
}

func (f *tableFormatter) flush() {
	f.dst.Flush()
	if f.truncator != nil {
		f.truncator.Flush()
	}
}

// newTableFormatter returns a formatter that prints one event per row,
// showing the digest for the specified bank. When f is a terminal, rows
// are cut to its width.
func newTableFormatter(f *os.File, alg tpm2.HashAlgorithmId, verbose bool) (formatter, error) {
	out := &tableFormatter{alg: alg, verbose: verbose}

	var w io.Writer = f
	sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	switch {
	case err == unix.ENOTTY:
		// Not a terminal
	case err != nil:
		return nil, err
	case sz.Col > 3:
		out.truncator = &lineTruncator{w: f, width: int(sz.Col)}
		w = out.truncator
	}

	out.dst = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	return out, nil
}
