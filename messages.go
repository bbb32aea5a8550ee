package main

import (
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/updater"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
}

// clearClipboardMsg clears the copy feedback
type clearClipboardMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// daemonConnectedMsg contains result of a daemon connection attempt
type daemonConnectedMsg struct {
	url    string
	client *daemon.Client
	height uint64
	err    error
}

// daemonInfoMsg carries a daemon status refresh
type daemonInfoMsg struct {
	info daemon.Info
}

// daemonTickMsg schedules the next status refresh
type daemonTickMsg struct{}

// lockTickMsg checks the auto-lock timer
type lockTickMsg struct{}

// nodeListMsg contains the public node list
type nodeListMsg struct {
	nodes []daemon.PublicNode
	err   error
}

// updateCheckedMsg contains the result of the release check
type updateCheckedMsg struct {
	release updater.Release
	newer   bool
	err     error
}

// fileWrittenMsg reports a background file write (backup, CSV export)
type fileWrittenMsg struct {
	what string
	path string
	err  error
}
