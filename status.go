// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package measure

import (
	"errors"
	"fmt"
)

const statusErrorBit = 1 << 63

// Status corresponds to an EFI_STATUS value returned from a firmware
// protocol call. Non-success values are errors and are returned as-is
// through this package so that callers can inspect them with errors.As.
type Status uint64

const (
	StatusSuccess           Status = 0                   // EFI_SUCCESS
	StatusLoadError         Status = statusErrorBit | 1  // EFI_LOAD_ERROR
	StatusInvalidParameter  Status = statusErrorBit | 2  // EFI_INVALID_PARAMETER
	StatusUnsupported       Status = statusErrorBit | 3  // EFI_UNSUPPORTED
	StatusBadBufferSize     Status = statusErrorBit | 4  // EFI_BAD_BUFFER_SIZE
	StatusBufferTooSmall    Status = statusErrorBit | 5  // EFI_BUFFER_TOO_SMALL
	StatusNotReady          Status = statusErrorBit | 6  // EFI_NOT_READY
	StatusDeviceError       Status = statusErrorBit | 7  // EFI_DEVICE_ERROR
	StatusWriteProtected    Status = statusErrorBit | 8  // EFI_WRITE_PROTECTED
	StatusOutOfResources    Status = statusErrorBit | 9  // EFI_OUT_OF_RESOURCES
	StatusNotFound          Status = statusErrorBit | 14 // EFI_NOT_FOUND
	StatusAccessDenied      Status = statusErrorBit | 15 // EFI_ACCESS_DENIED
	StatusTimeout           Status = statusErrorBit | 18 // EFI_TIMEOUT
	StatusAborted           Status = statusErrorBit | 21 // EFI_ABORTED
	StatusSecurityViolation Status = statusErrorBit | 26 // EFI_SECURITY_VIOLATION
)

var statusNames = map[Status]string{
	StatusSuccess:           "EFI_SUCCESS",
	StatusLoadError:         "EFI_LOAD_ERROR",
	StatusInvalidParameter:  "EFI_INVALID_PARAMETER",
	StatusUnsupported:       "EFI_UNSUPPORTED",
	StatusBadBufferSize:     "EFI_BAD_BUFFER_SIZE",
	StatusBufferTooSmall:    "EFI_BUFFER_TOO_SMALL",
	StatusNotReady:          "EFI_NOT_READY",
	StatusDeviceError:       "EFI_DEVICE_ERROR",
	StatusWriteProtected:    "EFI_WRITE_PROTECTED",
	StatusOutOfResources:    "EFI_OUT_OF_RESOURCES",
	StatusNotFound:          "EFI_NOT_FOUND",
	StatusAccessDenied:      "EFI_ACCESS_DENIED",
	StatusTimeout:           "EFI_TIMEOUT",
	StatusAborted:           "EFI_ABORTED",
	StatusSecurityViolation: "EFI_SECURITY_VIOLATION",
}

// IsError indicates whether this status is an error code.
func (s Status) IsError() bool {
	return s&statusErrorBit != 0
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	if s.IsError() {
		return fmt.Sprintf("EFI error %#x", uint64(s&^statusErrorBit))
	}
	return fmt.Sprintf("EFI warning %#x", uint64(s))
}

func (s Status) Error() string {
	return s.String()
}

// StatusOf returns the firmware status carried by the supplied error. A nil
// error is EFI_SUCCESS and an error that doesn't carry a firmware status is
// reported as EFI_DEVICE_ERROR.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusDeviceError
}
