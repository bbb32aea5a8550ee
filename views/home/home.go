package home

import (
	"fmt"
	"strings"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/history"
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Data is everything the home page shows.
type Data struct {
	Address    string
	ScanHeight uint64
	Info       daemon.Info
	Connecting bool
	Spinner    string
	Copied     string

	Transactions []history.Transaction
	Expanded     func(hash string) bool
	HasMore      bool
	Cursor       int
}

// Render renders the home view: address and QR code on the left, daemon
// status and transactions on the right.
func Render(width int, d Data) string {
	left := renderAddress(d)
	right := renderStatus(d) + "\n\n" + renderTransactions(d)

	leftWidth := helpers.Max(0, width*4/10-2)
	rightWidth := helpers.Max(0, width*6/10-2)

	leftPanel := styles.PanelStyle.Width(leftWidth).Render(left)
	rightPanel := styles.PanelStyle.
		Width(rightWidth + 1).
		Height(helpers.Max(0, lipgloss.Height(leftPanel)-2)).
		Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func renderAddress(d Data) string {
	lines := []string{
		styles.TitleStyle.Render("Your Address"),
		"",
		lipgloss.NewStyle().Foreground(styles.CAccent2).Render(wrap(d.Address, 33)),
		"",
		helpers.GenerateQRCode(d.Address),
	}
	if d.Copied != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(d.Copied))
	}
	return strings.Join(lines, "\n")
}

func renderStatus(d Data) string {
	h := styles.TitleStyle.Render("Daemon")
	if d.Connecting {
		return h + "\n\n" + d.Spinner + " connecting…"
	}
	if d.Info.ErrMessage != "" {
		return h + "\n\n" + lipgloss.NewStyle().Foreground(styles.CWarn).Render(d.Info.ErrMessage)
	}

	state := d.Info.State()
	stateStyle := lipgloss.NewStyle().Foreground(styles.CWarn)
	if state == daemon.Synced {
		stateStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	}

	lines := []string{
		h,
		"",
		fmt.Sprintf("%s %d / %d (%.2f%%)", styles.Muted("Height:"), d.Info.Height, d.Info.NetworkHeight, d.Info.SyncPercent()),
		fmt.Sprintf("%s %d", styles.Muted("Peers:"), d.Info.PeerCount),
		fmt.Sprintf("%s %d", styles.Muted("Wallet scan height:"), d.ScanHeight),
		stateStyle.Render(state.String()),
		styles.Muted("Updated " + helpers.LoadedAt(d.Info.LoadedAt, false)),
	}
	return strings.Join(lines, "\n")
}

func renderTransactions(d Data) string {
	h := styles.TitleStyle.Render("Transactions")
	if len(d.Transactions) == 0 {
		return h + "\n\n" + styles.Muted("No transactions yet.")
	}

	in := lipgloss.NewStyle().Foreground(styles.CAccent)
	out := lipgloss.NewStyle().Foreground(styles.CWarn)
	selected := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)

	lines := []string{h, ""}
	for i, tx := range d.Transactions {
		amount := history.FormatAmount(tx.Amount, config.DecimalPlaces, config.Ticker)
		if tx.Incoming() {
			amount = in.Render("+" + amount)
		} else {
			amount = out.Render(amount)
		}

		when := "unconfirmed"
		if tx.Confirmed() {
			when = tx.Timestamp.Format("2006-01-02 15:04")
		}

		marker := "  "
		hash := helpers.ShortenAddr(tx.Hash)
		if i == d.Cursor {
			marker = selected.Render("▶ ")
			hash = selected.Render(hash)
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s  %s", marker, styles.Muted(when), hash, amount))

		if d.Expanded != nil && d.Expanded(tx.Hash) {
			lines = append(lines,
				"    "+styles.Muted("Hash: ")+tx.Hash,
				"    "+styles.Muted("Fee: ")+history.FormatAmount(int64(tx.Fee), config.DecimalPlaces, config.Ticker),
				fmt.Sprintf("    %s%d", styles.Muted("Block: "), tx.Height),
			)
			if tx.PaymentID != "" {
				lines = append(lines, "    "+styles.Muted("Payment ID: ")+tx.PaymentID)
			}
			lines = append(lines, "    "+styles.Muted("Explorer: ")+config.ExplorerBaseURL+tx.Hash)
		}
	}
	if d.HasMore {
		lines = append(lines, "", styles.Muted("Press ")+styles.Key("m")+styles.Muted(" to load more"))
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s[i:helpers.Min(i+n, len(s))])
	}
	return b.String()
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " details",
		styles.Key("c") + " copy address",
		styles.Key("s") + " settings",
		styles.Key("ctrl+g") + " logger",
		styles.Key("F10") + " menu",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
