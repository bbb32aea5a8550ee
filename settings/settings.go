// Package settings holds the input rules of the settings page.
package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cirquity-wallet-tui/notify"
)

// MaxLockMinutes is the largest auto-lock interval accepted. Larger values
// overflow a 32-bit millisecond timer.
const MaxLockMinutes = 35791

var (
	// ErrIgnored means the input should be dropped without a message.
	ErrIgnored = errors.New("settings: input ignored")
	// ErrLockTooLong is returned for intervals above MaxLockMinutes.
	ErrLockTooLong = errors.New("settings: auto-lock interval too long")
	// ErrBadScanHeight is returned for rescan heights that are not a
	// non-negative whole number.
	ErrBadScanHeight = errors.New("settings: bad scan height")
)

var lockInput = regexp.MustCompile(`^\d*(\.(\d\d?)?)?$`)

// AcceptLockInput reports whether s may appear in the interval field while
// typing. Keystrokes producing anything else are discarded.
func AcceptLockInput(s string) bool {
	return lockInput.MatchString(s)
}

// ParseLockInterval validates a submitted interval in minutes.
func ParseLockInterval(s string) (float64, error) {
	if s == "" || s == "0" {
		return 0, ErrIgnored
	}
	if !AcceptLockInput(s) {
		return 0, ErrIgnored
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 {
		return 0, ErrIgnored
	}
	if v > MaxLockMinutes {
		return 0, ErrLockTooLong
	}
	return v, nil
}

// LockDuration converts an interval in minutes.
func LockDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

// LockTooLongModal is shown when ParseLockInterval returns ErrLockTooLong.
func LockTooLongModal() notify.Modal {
	return notify.ErrorModal("Value too high",
		fmt.Sprintf("The auto-lock interval can be at most %d minutes.", MaxLockMinutes))
}

// ParseScanHeight validates the rescan field.
func ParseScanHeight(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadScanHeight, s)
	}
	return h, nil
}

// BadScanHeightModal is shown when ParseScanHeight fails.
func BadScanHeightModal() notify.Modal {
	return notify.ErrorModal("Invalid scan height",
		"The scan height must be a whole number of zero or more.")
}

// ConfirmRescanModal asks before rescanning from height.
func ConfirmRescanModal(height uint64) notify.Modal {
	m := notify.ConfirmModal("Rescan wallet?",
		fmt.Sprintf("This will rescan the wallet from block %d. Transactions before that block are kept as they are. This may take a while.", height),
		"OK", "Nevermind", notify.ActionRescan)
	m.Arg = height
	return m
}
