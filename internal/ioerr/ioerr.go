// Copyright 2021 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package ioerr

import (
	"fmt"
	"io"

	"golang.org/x/xerrors"
)

// EOFIsUnexpected converts [io.EOF] errors into [io.ErrUnexpectedEOF], which is
// useful when decoding the parts of a firmware record that follow its header,
// where running out of data means that the record is truncated.
//
// It can be called in one of 2 ways:
//   - With a single argument which must be an error or nil. The supplied error is
//     returned untouched unless it is [io.EOF], in which case [io.ErrUnexpectedEOF]
//     is returned.
//   - With a format string followed by arguments. The arguments are passed to
//     [xerrors.Errorf] with any [io.EOF] converted to [io.ErrUnexpectedEOF].
//
// This will panic if the arguments don't fit either form.
func EOFIsUnexpected(args ...interface{}) error {
	switch {
	case len(args) > 1:
		format, ok := args[0].(string)
		if !ok {
			panic(fmt.Sprintf("expected a format string, got %T", args[0]))
		}
		fmtArgs := make([]interface{}, 0, len(args)-1)
		for _, arg := range args[1:] {
			if err, isErr := arg.(error); isErr && err == io.EOF {
				arg = io.ErrUnexpectedEOF
			}
			fmtArgs = append(fmtArgs, arg)
		}
		return xerrors.Errorf(format, fmtArgs...)
	case len(args) == 1:
		switch err := args[0].(type) {
		case error:
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		case nil:
			return nil
		default:
			panic("invalid type")
		}
	default:
		panic("no arguments")
	}
}
