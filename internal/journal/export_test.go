// Copyright 2022 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

package journal

import (
	"github.com/coreos/go-systemd/journal"
)

func MockJournal(enabled func() bool, send func(string, journal.Priority, map[string]string) error) (restore func()) {
	origEnabled := journalEnabled
	origSend := journalSend
	journalEnabled = enabled
	journalSend = send
	return func() {
		journalEnabled = origEnabled
		journalSend = origSend
	}
}
