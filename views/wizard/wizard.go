package wizard

import (
	"strings"

	"cirquity-wallet-tui/styles"
	flow "cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/lipgloss"
)

// StepLabel is the indicator text for a step.
func StepLabel(s flow.Step) string {
	switch s {
	case flow.StepGenerate:
		return "Generate"
	case flow.StepSecure:
		return "Secure"
	case flow.StepBackup:
		return "Backup"
	case flow.StepVerify:
		return "Verify"
	case flow.StepEnterKeys:
		return "Enter keys"
	default:
		return string(s)
	}
}

// Title names the flow.
func Title(k flow.Kind) string {
	if k == flow.FlowImport {
		return "Restore Wallet From Keys"
	}
	return "Create New Wallet"
}

// Indicator renders "✓ Generate ── ● Secure ── ○ Backup".
func Indicator(steps flow.Steps, current flow.Step) string {
	cur, _ := steps.Ordinal(current)
	done := lipgloss.NewStyle().Foreground(styles.CAccent)
	active := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
	pending := lipgloss.NewStyle().Foreground(styles.CMuted)

	parts := make([]string, 0, steps.Len())
	for i, s := range steps.Names() {
		label := StepLabel(s)
		switch {
		case i < cur:
			parts = append(parts, done.Render("✓ "+label))
		case i == cur:
			parts = append(parts, active.Render("● "+label))
		default:
			parts = append(parts, pending.Render("○ "+label))
		}
	}
	return strings.Join(parts, pending.Render(" ── "))
}

// Generate shows the freshly generated address.
func Generate(address, qr string) string {
	lines := []string{
		"Welcome! A new wallet has been generated for you.",
		"",
		styles.Muted("Your new address:"),
		lipgloss.NewStyle().Foreground(styles.CAccent2).Render(address),
	}
	if qr != "" {
		lines = append(lines, "", qr)
	}
	return strings.Join(lines, "\n")
}

// Secure shows the password pair. mismatch is rendered only when the
// confirmation has been typed into.
func Secure(heading, password, confirm string, mismatch, shown bool) string {
	lines := []string{
		heading,
		"",
		styles.Muted("Enter a password:"),
		password,
		"",
		styles.Muted("Confirm password:"),
		confirm,
	}
	if mismatch {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CWarn).Render("Passwords do not match"))
	}
	state := "off"
	if shown {
		state = "on"
	}
	lines = append(lines, "", styles.Muted("Show password: ")+lipgloss.NewStyle().Bold(true).Render(state))
	return strings.Join(lines, "\n")
}

// Backup shows the mnemonic seed.
func Backup(seed, feedback string) string {
	words := strings.Fields(seed)
	var rows []string
	for i := 0; i < len(words); i += 6 {
		end := min(i+6, len(words))
		rows = append(rows, strings.Join(words[i:end], " "))
	}
	seedBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Foreground(styles.CAccent).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))

	lines := []string{
		"Back up your wallet. Write these words down and keep them somewhere safe;",
		"they are the only way to recover the wallet if the file is lost.",
		"",
		styles.Muted("Mnemonic seed:"),
		seedBox,
	}
	if feedback != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(feedback))
	}
	return strings.Join(lines, "\n")
}

// Verify asks for the seed again.
func Verify(input string) string {
	return strings.Join([]string{
		"Let's make sure you wrote the seed down correctly.",
		"",
		styles.Muted("Enter your mnemonic seed:"),
		input,
	}, "\n")
}

// EnterKeys shows the key import fields.
func EnterKeys(spend, view, height string) string {
	return strings.Join([]string{
		"Enter the private keys of the wallet to restore.",
		"",
		styles.Muted("Private spend key:"),
		spend,
		"",
		styles.Muted("Private view key:"),
		view,
		"",
		styles.Muted("Scan height (optional, leave empty to scan from block 0):"),
		height,
	}, "\n")
}

// ImportVerify shows the address the keys restore.
func ImportVerify(address string) string {
	return strings.Join([]string{
		"Is this the address you expected?",
		"",
		lipgloss.NewStyle().Foreground(styles.CAccent2).Render(address),
		"",
		styles.Muted("Go back to correct the keys if it is not."),
	}, "\n")
}

// Nav returns the navigation bar for a wizard step.
func Nav(width int, steps flow.Steps, step flow.Step, extra ...string) string {
	next := "next"
	if steps.IsLast(step) {
		next = "save"
	}
	back := "back"
	if step == steps.First() {
		back = "cancel"
	}
	keys := []string{
		styles.Key("Enter") + " " + next,
		styles.Key("Esc") + " " + back,
	}
	keys = append(keys, extra...)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}
