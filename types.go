// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"fmt"

	"github.com/canonical/go-tpm2"
)

// PCRIndex corresponds to the index of a PCR on the TPM.
type PCRIndex uint32

// Handle returns the PCR index as a TPM handle, which is how PCR indices
// appear in a TCG event log.
func (i PCRIndex) Handle() tpm2.Handle {
	return tpm2.Handle(i)
}

func (i PCRIndex) String() string {
	if i == PCRIndexDisabled {
		return "disabled"
	}
	return fmt.Sprintf("%d", uint32(i))
}

func (i PCRIndex) Format(s fmt.State, f rune) {
	switch f {
	case 's', 'v':
		fmt.Fprintf(s, "%s", i.String())
	default:
		fmt.Fprintf(s, makeDefaultFormatter(s, f), uint32(i))
	}
}

// TCGAlgorithmId corresponds to TCG_ALGORITHM_ID, used by the legacy TCG
// protocol.
type TCGAlgorithmId uint32

func (a TCGAlgorithmId) String() string {
	switch a {
	case TCGAlgSHA:
		return "TCG_ALG_SHA"
	default:
		return fmt.Sprintf("%08x", uint32(a))
	}
}

// TCG2ExtendFlags corresponds to the flags argument of
// EFI_TCG2_PROTOCOL.HashLogExtendEvent.
type TCG2ExtendFlags uint64

// TCG2EventAlgorithmBitmap corresponds to EFI_TCG2_EVENT_ALGORITHM_BITMAP.
type TCG2EventAlgorithmBitmap uint32

var tcg2AlgorithmBits = []struct {
	bit TCG2EventAlgorithmBitmap
	alg tpm2.HashAlgorithmId
}{
	{bit: TCG2BootHashAlgSHA1, alg: tpm2.HashAlgorithmSHA1},
	{bit: TCG2BootHashAlgSHA256, alg: tpm2.HashAlgorithmSHA256},
	{bit: TCG2BootHashAlgSHA384, alg: tpm2.HashAlgorithmSHA384},
	{bit: TCG2BootHashAlgSHA512, alg: tpm2.HashAlgorithmSHA512},
	{bit: TCG2BootHashAlgSM3256, alg: tpm2.HashAlgorithmSM3_256},
}

// MakeTCG2EventAlgorithmBitmap returns the bitmap describing the supplied
// digest algorithms. Algorithms with no corresponding bit are ignored.
func MakeTCG2EventAlgorithmBitmap(algs ...tpm2.HashAlgorithmId) (out TCG2EventAlgorithmBitmap) {
	for _, alg := range algs {
		for _, b := range tcg2AlgorithmBits {
			if b.alg == alg {
				out |= b.bit
			}
		}
	}
	return out
}

// Algorithms returns the digest algorithms described by this bitmap.
func (b TCG2EventAlgorithmBitmap) Algorithms() (out []tpm2.HashAlgorithmId) {
	for _, a := range tcg2AlgorithmBits {
		if b&a.bit != 0 {
			out = append(out, a.alg)
		}
	}
	return out
}

// TCG2EventLogBitmap corresponds to EFI_TCG2_EVENT_LOG_BITMAP.
type TCG2EventLogBitmap uint32
