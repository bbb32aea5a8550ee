package settings

import (
	"fmt"
	"strings"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Row is one entry of the general settings list.
type Row struct {
	Label string
	Value string
}

// Nav returns the navigation bar for settings view
func Nav(width int, formOpen, onNode bool) string {
	var keys []string
	switch {
	case formOpen:
		keys = []string{
			styles.Key("Enter") + " confirm",
			styles.Key("Esc") + " cancel",
		}
	case onNode:
		keys = []string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("f") + " fetch public nodes",
			styles.Key("Esc") + " back",
		}
	default:
		keys = []string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " change",
			styles.Key("a") + " add node",
			styles.Key("f") + " fetch public nodes",
			styles.Key("Esc") + " back",
		}
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the settings view. Rows are numbered nodes first, then the
// general rows; selected indexes into that combined list.
func Render(nodes []config.DaemonNode, general []Row, selected int, connected string) string {
	lines := []string{styles.TitleStyle.Render("Daemon Nodes"), ""}

	if len(nodes) == 0 {
		lines = append(lines,
			styles.Muted("No daemon nodes configured."),
			"",
			styles.Muted("Press ")+styles.Key("a")+styles.Muted(" to add one or ")+styles.Key("f")+styles.Muted(" to fetch the public list."),
			"")
	}

	for i, n := range nodes {
		marker := lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ ")
		if n.Active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		urlStyle := lipgloss.NewStyle().Foreground(styles.CMuted)
		if i == selected {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			urlStyle = urlStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		addr := n.Address()
		if n.SSL {
			addr += "  (ssl)"
		}
		if n.Active && connected != "" {
			addr += "  " + connected
		}
		lines = append(lines, marker+nameStyle.Render(n.Name), "  "+urlStyle.Render(addr))
	}

	lines = append(lines, "", styles.TitleStyle.Render("General"), "")

	labelWidth := 0
	for _, r := range general {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}
	for i, r := range general {
		label := fmt.Sprintf("%-*s", labelWidth, r.Label)
		line := "  " + label + "  " + styles.Muted(r.Value)
		if len(nodes)+i == selected {
			line = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ") +
				lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(label) + "  " + r.Value
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// OnOff renders a boolean setting.
func OnOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
