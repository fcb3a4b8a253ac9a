// Copyright 2021 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bsiegert/ranges"
	"github.com/canonical/go-tpm2"
)

var algorithmNames = []struct {
	name string
	alg  tpm2.HashAlgorithmId
}{
	{"sha1", tpm2.HashAlgorithmSHA1},
	{"sha256", tpm2.HashAlgorithmSHA256},
	{"sha384", tpm2.HashAlgorithmSHA384},
	{"sha512", tpm2.HashAlgorithmSHA512},
}

func algorithmName(alg tpm2.HashAlgorithmId) (string, error) {
	for _, n := range algorithmNames {
		if n.alg == alg {
			return n.name, nil
		}
	}
	return "", fmt.Errorf("unrecognized algorithm %v", alg)
}

func parseAlgorithm(value string) (tpm2.HashAlgorithmId, error) {
	for _, n := range algorithmNames {
		if n.name == value {
			return n.alg, nil
		}
	}
	return 0, fmt.Errorf("unrecognized algorithm \"%s\"", value)
}

type HashAlgorithmId tpm2.HashAlgorithmId

func (h HashAlgorithmId) MarshalFlag() (string, error) {
	return algorithmName(tpm2.HashAlgorithmId(h))
}

func (h *HashAlgorithmId) UnmarshalFlag(value string) error {
	alg, err := parseAlgorithm(value)
	if err != nil {
		return err
	}
	*h = HashAlgorithmId(alg)
	return nil
}

// HashAlgorithmList is a comma separated list of digest algorithms, such as
// the PCR banks of a TPM.
type HashAlgorithmList []tpm2.HashAlgorithmId

func (l HashAlgorithmList) MarshalFlag() (string, error) {
	var s []string
	for _, alg := range l {
		name, err := algorithmName(alg)
		if err != nil {
			return "", err
		}
		s = append(s, name)
	}
	return strings.Join(s, ","), nil
}

func (l *HashAlgorithmList) UnmarshalFlag(value string) error {
	var out HashAlgorithmList
	for _, v := range strings.Split(value, ",") {
		alg, err := parseAlgorithm(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		for _, a := range out {
			if a == alg {
				return fmt.Errorf("duplicate algorithm \"%s\"", v)
			}
		}
		out = append(out, alg)
	}
	*l = out
	return nil
}

type PCRRange []tpm2.Handle

func (r PCRRange) MarshalFlag() (string, error) {
	var s []string
	for _, p := range r {
		s = append(s, strconv.FormatUint(uint64(p), 10))
	}
	return strings.Join(s, ","), nil
}

func (r *PCRRange) UnmarshalFlag(value string) error {
	i, err := ranges.Parse(value)
	if err != nil {
		return err
	}
	for _, p := range i {
		if p < 0 {
			return fmt.Errorf("invalid PCR index %d", p)
		}
		*r = append(*r, tpm2.Handle(p))
	}
	return nil
}

func (r *PCRRange) Contains(index tpm2.Handle) bool {
	for _, p := range *r {
		if p == index {
			return true
		}
	}
	return false
}
