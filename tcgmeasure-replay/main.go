// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/canonical/go-tpm2"
	"github.com/canonical/tcglog-parser"
	"github.com/jessevdk/go-flags"
	"golang.org/x/xerrors"

	internal_flags "github.com/canonical/tcg-measure/internal/flags"
	"github.com/canonical/tcg-measure/internal/replay"
)

type options struct {
	Alg  internal_flags.HashAlgorithmId `long:"alg" description:"PCR bank to replay" default:"sha256" choice:"sha1" choice:"sha256" choice:"sha384" choice:"sha512"`
	Pcrs internal_flags.PCRRange        `short:"p" long:"pcrs" description:"Replay the specified PCRs. Can be specified multiple times. The default is every PCR in the log"`

	Positional struct {
		LogPath string `positional-arg-name:"log-path"`
	} `positional-args:"true"`
}

var opts options

func printPCRValues(w io.Writer, alg tpm2.HashAlgorithmId, values map[tpm2.Handle]tpm2.Digest) error {
	var pcrs []tpm2.Handle
	for pcr := range values {
		pcrs = append(pcrs, pcr)
	}
	sort.Slice(pcrs, func(i, j int) bool { return pcrs[i] < pcrs[j] })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "PCR\tBANK\tVALUE\n")
	for _, pcr := range pcrs {
		fmt.Fprintf(tw, "%d\t%v\t%x\n", pcr, alg, values[pcr])
	}
	return tw.Flush()
}

// replayLog reads the event log from r and returns the values of the
// specified PCRs in the bank for alg, or every PCR in the log if pcrs is
// empty.
func replayLog(r io.Reader, alg tpm2.HashAlgorithmId, pcrs []tpm2.Handle) (map[tpm2.Handle]tpm2.Digest, error) {
	log, err := tcglog.ReadLog(r, &tcglog.LogOptions{})
	if err != nil {
		return nil, xerrors.Errorf("cannot read log: %w", err)
	}

	if !log.Algorithms.Contains(alg) {
		return nil, fmt.Errorf("the log does not contain entries for the %v digest algorithm", alg)
	}

	values, err := replay.Replay(log.Events, alg, pcrs)
	if err != nil {
		return nil, xerrors.Errorf("cannot replay log: %w", err)
	}
	return values, nil
}

func run() error {
	if _, err := flags.Parse(&opts); err != nil {
		return err
	}

	path := opts.Positional.LogPath
	if path == "" {
		path = "/sys/kernel/security/tpm0/binary_bios_measurements"
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	alg := tpm2.HashAlgorithmId(opts.Alg)
	values, err := replayLog(f, alg, opts.Pcrs)
	if err != nil {
		return err
	}

	return printPCRValues(os.Stdout, alg, values)
}

func main() {
	if err := run(); err != nil {
		switch e := err.(type) {
		case *flags.Error:
			// flags already prints this
			if e.Type != flags.ErrHelp {
				os.Exit(1)
			}
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
