// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/canonical/go-tpm2"
	"github.com/jessevdk/go-flags"
	"golang.org/x/xerrors"

	"github.com/canonical/tcg-measure"
	internal_flags "github.com/canonical/tcg-measure/internal/flags"
	"github.com/canonical/tcg-measure/internal/fwsim"
	"github.com/canonical/tcg-measure/internal/journal"
	"github.com/canonical/tcg-measure/internal/replay"
)

type options struct {
	Interface string                           `long:"interface" description:"Firmware protocol to expose" default:"tcg2" choice:"tcg2" choice:"tcg2-1.0" choice:"tcg" choice:"none"`
	Algs      internal_flags.HashAlgorithmList `long:"alg" description:"Comma separated PCR banks of the simulated TPM. Ignored for --interface=tcg, which only has a SHA-1 bank" default:"sha1,sha256"`
	Pcrs      internal_flags.PCRRange          `short:"p" long:"pcrs" description:"Display events and PCR values associated with the specified PCRs. Can be specified multiple times"`
	Verbose   []bool                           `short:"v" long:"verbose" description:"Display more details of event data"`
	Block     bool                             `long:"block" description:"Display each event as a block rather than as a table row"`
	Hexdump   bool                             `long:"hexdump" description:"Display hexdump of event data associated with each event (implies --block)"`
	Fail      bool                             `long:"fail" description:"Make the simulated firmware fail every measurement with EFI_DEVICE_ERROR"`
	Log       string                           `long:"log" description:"Write the resulting event log to the specified file"`
	Journal   bool                             `long:"journal" description:"Report measurement failures to the systemd journal"`

	Positional struct {
		Cmdline []string `positional-arg-name:"cmdline"`
	} `positional-args:"true"`
}

var opts options

func shouldDisplayPCR(pcr tpm2.Handle) bool {
	if len(opts.Pcrs) == 0 {
		return true
	}
	return opts.Pcrs.Contains(pcr)
}

func newFirmware() (*fwsim.Firmware, *fwsim.TPM) {
	fw := fwsim.NewFirmware()

	switch opts.Interface {
	case "tcg":
		tpm := fwsim.NewTPM(tpm2.HashAlgorithmSHA1)
		tcg := fwsim.NewTCG(tpm)
		if opts.Fail {
			tcg.HashLogExtendEventErr = measure.StatusDeviceError
		}
		fw.InstallProtocol(measure.TCGProtocolGuid, tcg)
		return fw, tpm
	case "tcg2", "tcg2-1.0":
		tpm := fwsim.NewTPM(opts.Algs...)
		tcg := fwsim.NewTCG2(tpm)
		tcg.Legacy = opts.Interface == "tcg2-1.0"
		if opts.Fail {
			tcg.HashLogExtendEventErr = measure.StatusDeviceError
		}
		fw.InstallProtocol(measure.TCG2ProtocolGuid, tcg)
		return fw, tpm
	default:
		return fw, fwsim.NewTPM(opts.Algs...)
	}
}

func printEvents(tpm *fwsim.TPM) error {
	var f formatter
	switch {
	case opts.Block || opts.Hexdump:
		f = newBlockFormatter(os.Stdout, tpm.Algorithms(), len(opts.Verbose), opts.Hexdump)
	default:
		var err error
		f, err = newTableFormatter(os.Stdout, tpm.Algorithms()[0], len(opts.Verbose) > 0)
		if err != nil {
			return xerrors.Errorf("cannot create table formatter: %w", err)
		}
	}

	f.printHeader()
	for _, event := range tpm.Events() {
		if !shouldDisplayPCR(event.PCRIndex) {
			continue
		}
		f.printEvent(event)
	}
	f.flush()
	return nil
}

// printPCRValues prints the value of each PCR that was measured to, after
// checking that replaying the event log produces the same value.
func printPCRValues(w io.Writer, tpm *fwsim.TPM) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "\nPCR\tBANK\tVALUE\n")

	for _, alg := range tpm.Algorithms() {
		values, err := replay.Replay(tpm.Events(), alg, opts.Pcrs)
		if err != nil {
			return xerrors.Errorf("cannot replay log for %v: %w", alg, err)
		}

		var pcrs []tpm2.Handle
		for pcr := range values {
			pcrs = append(pcrs, pcr)
		}
		sort.Slice(pcrs, func(i, j int) bool { return pcrs[i] < pcrs[j] })

		for _, pcr := range pcrs {
			if !bytes.Equal(values[pcr], tpm.PCRValue(alg, pcr)) {
				return fmt.Errorf("log is inconsistent with PCR %d in the %v bank", pcr, alg)
			}
			fmt.Fprintf(tw, "%d\t%v\t%x\n", pcr, alg, values[pcr])
		}
	}

	return tw.Flush()
}

func writeLog(tpm *fwsim.TPM, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tpm.WriteLog(f); err != nil {
		return err
	}
	return f.Close()
}

func run() error {
	if _, err := flags.Parse(&opts); err != nil {
		return err
	}

	fw, tpm := newFirmware()

	var reporter measure.Reporter = measure.NewConsoleReporter(os.Stderr, 0)
	if opts.Journal {
		reporter = journal.NewReporter("tcgmeasure-sim", reporter)
	}

	m := measure.NewMeasurer(fw, &measure.Options{Reporter: reporter})
	if !m.TPMPresent() {
		fmt.Fprintln(os.Stderr, "No active TPM, nothing will be measured")
	}

	measureErr := m.LogLoadOptions(strings.Join(opts.Positional.Cmdline, " "))

	if err := printEvents(tpm); err != nil {
		return err
	}
	if err := printPCRValues(os.Stdout, tpm); err != nil {
		return err
	}

	if opts.Log != "" {
		if err := writeLog(tpm, opts.Log); err != nil {
			return xerrors.Errorf("cannot write log: %w", err)
		}
	}

	if measureErr != nil {
		return xerrors.Errorf("cannot measure load options (%v): %w", measure.StatusOf(measureErr), measureErr)
	}
	return nil
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
