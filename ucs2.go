// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"encoding/binary"
	"strings"

	efi "github.com/canonical/go-efilib"
)

// encodeDescription returns the little-endian UCS-2 representation of s,
// including the terminating null character. This is the form in which
// strings are measured and logged. Like any null terminated string, s ends
// at its first null character.
func encodeDescription(s string) []byte {
	if n := strings.IndexByte(s, 0); n >= 0 {
		s = s[:n]
	}
	u := append(efi.ConvertUTF8ToUCS2(s), 0)
	out := make([]byte, len(u)*2)
	for i, c := range u {
		binary.LittleEndian.PutUint16(out[i*2:], c)
	}
	return out
}
