package main

import (
	"cirquity-wallet-tui/history"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- HOME --------------------

func (m *model) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	if m.wallet == nil {
		return nil
	}
	visible := m.txView.Visible(m.wallet.Transactions())

	switch msg.String() {
	case "up", "k":
		if m.txCursor > 0 {
			m.txCursor--
		}
	case "down", "j":
		if m.txCursor < len(visible)-1 {
			m.txCursor++
		}
	case "enter":
		if m.txCursor >= 0 && m.txCursor < len(visible) {
			m.txView.Toggle(visible[m.txCursor].Hash)
		}
	case "m":
		if m.txView.HasMore(m.wallet.Transactions()) {
			m.txView.LoadMore()
			m.addLog("debug", "Showing more transactions")
		}
	case "c":
		return copyToClipboard("Address", m.wallet.PrimaryAddress())
	case "s":
		m.showSettings()
	case "r":
		if m.daemonClient != nil {
			return loadInfo(m.daemonClient)
		}
	case "esc", "q":
		return m.quit()
	}
	return nil
}

// recordTransaction adds tx to the open wallet and keeps the list position
// stable for the user.
func (m *model) recordTransaction(tx history.Transaction) {
	if m.wallet == nil || !m.wallet.AddTransaction(tx) {
		return
	}
	m.txView.OnNewTransaction()
	if m.txCursor > 0 {
		m.txCursor++
	}
}
