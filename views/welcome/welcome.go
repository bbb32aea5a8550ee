package welcome

import (
	"strings"

	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/styles"

	"github.com/charmbracelet/huh"
)

// TempSelection stores the welcome menu selection
var TempSelection string

// Menu choices.
const (
	ChoiceNew      = "new"
	ChoiceRestore  = "restore"
	ChoiceOpen     = "open"
	ChoiceSettings = "settings"
	ChoiceQuit     = "quit"
)

// CreateForm creates the welcome menu form. lastWallet, when set, is offered
// as the first choice.
func CreateForm(lastWallet string) *huh.Form {
	TempSelection = ""

	opts := []huh.Option[string]{}
	if lastWallet != "" {
		opts = append(opts, huh.NewOption("Open "+lastWallet, ChoiceOpen))
	}
	opts = append(opts,
		huh.NewOption("Create a new wallet", ChoiceNew),
		huh.NewOption("Restore from private keys", ChoiceRestore),
	)
	if lastWallet == "" {
		opts = append(opts, huh.NewOption("Open a wallet file", ChoiceOpen))
	}
	opts = append(opts,
		huh.NewOption("Settings", ChoiceSettings),
		huh.NewOption("Quit", ChoiceQuit),
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(opts...).
				Title("Cirquity Wallet").
				Description("No wallet is open").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the welcome view
func Render(form *huh.Form) string {
	banner := helpers.FadeString("cirquity wallet", "#7EE787", "#82CFFD")
	if form != nil {
		return banner + "\n\n" + form.View()
	}
	return banner + "\n\nLoading menu..."
}

// Nav returns the navigation bar for welcome view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("ctrl+g") + " logger",
		styles.Key("F10") + " menu",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
