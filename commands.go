package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/history"
	"cirquity-wallet-tui/updater"
	"cirquity-wallet-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectDaemon establishes a JSON-RPC connection to the daemon
func connectDaemon(url string) tea.Cmd {
	return func() tea.Msg {
		result := daemon.Connect(url)
		return daemonConnectedMsg{url: url, client: result.Client, height: result.Height, err: result.Error}
	}
}

// loadInfo fetches the daemon status for the home page
func loadInfo(client *daemon.Client) tea.Cmd {
	return func() tea.Msg {
		return daemonInfoMsg{info: daemon.LoadInfo(client)}
	}
}

// scheduleInfo waits for the next status refresh
func scheduleInfo() tea.Cmd {
	return tea.Tick(config.DaemonUpdateInterval, func(time.Time) tea.Msg {
		return daemonTickMsg{}
	})
}

// scheduleLockCheck ticks the auto-lock timer
func scheduleLockCheck() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return lockTickMsg{}
	})
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{what: what}
		}
		return nil
	}
}

// clearClipboard waits 2 seconds then clears clipboard feedback
func clearClipboard() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// fetchNodes downloads the public node list
func fetchNodes() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		nodes, err := daemon.FetchNodeList(ctx, &http.Client{Timeout: 15 * time.Second}, config.NodeListURL)
		return nodeListMsg{nodes: nodes, err: err}
	}
}

// checkUpdate asks the release server for a newer version
func checkUpdate(c *updater.Checker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		rel, newer, err := c.Check(ctx)
		return updateCheckedMsg{release: rel, newer: newer, err: err}
	}
}

// writeBackup writes the wallet's keys and seed to a text file
func writeBackup(w *wallet.Wallet, path string) tea.Cmd {
	return func() tea.Msg {
		return fileWrittenMsg{what: "backup", path: path, err: w.WriteBackup(path)}
	}
}

// exportCSV writes the transaction history as CSV
func exportCSV(txs []history.Transaction, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fileWrittenMsg{what: "export", path: path, err: err}
		}
		err = history.WriteCSV(f, txs, config.DecimalPlaces, config.Ticker)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			err = fmt.Errorf("write csv: %w", err)
		}
		return fileWrittenMsg{what: "export", path: path, err: err}
	}
}
