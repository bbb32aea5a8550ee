package modal

import (
	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render centres the dialog on a w×h screen. primarySelected picks which
// button is highlighted when there are two.
func Render(w, h int, m notify.Modal, primarySelected bool) string {
	dialogBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(1, 2)

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFF7DB")).
		Background(lipgloss.Color("#888B7E")).
		Padding(0, 3).
		MarginTop(1)

	activeButtonStyle := buttonStyle.
		Foreground(lipgloss.Color("#FFF7DB")).
		Background(lipgloss.Color("#F25D94")).
		Underline(true)

	title := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).
		Render(helpers.FadeString(m.Title, "#F25D94", "#EDFF82"))
	body := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Foreground(styles.CText).
		Render(m.Body)

	primary := m.Primary
	if primary == "" {
		primary = "OK"
	}

	var buttons string
	if m.HasSecondary() {
		var okButton, cancelButton string
		if primarySelected {
			okButton = activeButtonStyle.MarginRight(2).Render(primary)
			cancelButton = buttonStyle.Render(m.Secondary)
		} else {
			okButton = buttonStyle.MarginRight(2).Render(primary)
			cancelButton = activeButtonStyle.Render(m.Secondary)
		}
		buttons = lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	} else {
		buttons = activeButtonStyle.Render(primary)
	}

	ui := lipgloss.JoinVertical(lipgloss.Center, title, "", body, buttons)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialogBoxStyle.Render(ui))
}
