package unlock

import (
	"strconv"
	"strings"

	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// TempPassword stores the password field
var TempPassword string

// CreateForm asks for the password of the wallet at path.
func CreateForm(path string) *huh.Form {
	TempPassword = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description(path).
				EchoMode(huh.EchoModePassword).
				Value(&TempPassword),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Info describes the wallet behind the unlock form
type Info struct {
	Address    string
	ScanHeight uint64
	// Locked is true when an open wallet was locked by the timer rather
	// than opened from disk.
	Locked bool
}

// Render shows the unlock form
func Render(form *huh.Form, info Info, errMsg string) string {
	title := "Open Wallet"
	if info.Locked {
		title = "Wallet Locked"
	}
	lines := []string{styles.TitleStyle.Render(title), ""}
	if info.Address != "" {
		lines = append(lines, styles.Muted("Address: ")+helpers.ShortenAddr(info.Address))
		if !info.Locked {
			lines = append(lines, styles.Muted("Scan height: ")+strconv.FormatUint(info.ScanHeight, 10))
		}
		lines = append(lines, "")
	}
	if form != nil {
		lines = append(lines, form.View())
	}
	if errMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.CWarn).Bold(true).Render(errMsg))
	}
	return strings.Join(lines, "\n")
}

// Nav returns the navigation bar for the unlock view
func Nav(width int, locked bool) string {
	keys := []string{styles.Key("Enter") + " unlock"}
	if locked {
		keys = append(keys, styles.Key("ctrl+w")+" close wallet")
	} else {
		keys = append(keys, styles.Key("Esc")+" back")
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}
