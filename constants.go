// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"math"

	efi "github.com/canonical/go-efilib"
)

const (
	// PCRIndexDisabled indicates that a measurement is disabled. Calls
	// supplying this index succeed without touching the firmware.
	PCRIndexDisabled PCRIndex = math.MaxUint32

	KernelParametersPCR       PCRIndex = 12 // PCR that the kernel command line is measured to
	KernelParametersCompatPCR PCRIndex = 8  // PCR that older boot loaders measured the kernel command line to
)

var (
	// TCGProtocolGuid corresponds to EFI_TCG_PROTOCOL_GUID.
	TCGProtocolGuid = efi.MakeGUID(0xf541796d, 0xa62e, 0x4954, 0xa775, [...]uint8{0x95, 0x84, 0xf6, 0x1b, 0x9c, 0xdd})

	// TCG2ProtocolGuid corresponds to EFI_TCG2_PROTOCOL_GUID.
	TCG2ProtocolGuid = efi.MakeGUID(0x607f766c, 0x7455, 0x42be, 0x930b, [...]uint8{0xe4, 0xd7, 0x6d, 0xb2, 0x72, 0x0f})
)

const (
	TCGAlgSHA TCGAlgorithmId = 0x00000004 // TCG_ALG_SHA
)

const (
	// TCG2EventHeaderVersion is the only defined value of
	// EFI_TCG2_EVENT_HEADER.HeaderVersion.
	TCG2EventHeaderVersion uint16 = 1

	// TCG2PECOFFImage corresponds to PE_COFF_IMAGE. Measurements made by
	// this package never set it.
	TCG2PECOFFImage TCG2ExtendFlags = 0x0000000000000010
)

const (
	TCG2BootHashAlgSHA1   TCG2EventAlgorithmBitmap = 0x00000001 // EFI_TCG2_BOOT_HASH_ALG_SHA1
	TCG2BootHashAlgSHA256 TCG2EventAlgorithmBitmap = 0x00000002 // EFI_TCG2_BOOT_HASH_ALG_SHA256
	TCG2BootHashAlgSHA384 TCG2EventAlgorithmBitmap = 0x00000004 // EFI_TCG2_BOOT_HASH_ALG_SHA384
	TCG2BootHashAlgSHA512 TCG2EventAlgorithmBitmap = 0x00000008 // EFI_TCG2_BOOT_HASH_ALG_SHA512
	TCG2BootHashAlgSM3256 TCG2EventAlgorithmBitmap = 0x00000010 // EFI_TCG2_BOOT_HASH_ALG_SM3_256
)

const (
	TCG2EventLogFormatTCG_1_2 TCG2EventLogBitmap = 0x00000001 // EFI_TCG2_EVENT_LOG_FORMAT_TCG_1_2
	TCG2EventLogFormatTCG_2   TCG2EventLogBitmap = 0x00000002 // EFI_TCG2_EVENT_LOG_FORMAT_TCG_2
)
