package styles

import "github.com/charmbracelet/lipgloss"

// Theme is one colour palette.
type Theme struct {
	Bg      lipgloss.Color
	Panel   lipgloss.Color
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Accent  lipgloss.Color
	Accent2 lipgloss.Color
	Warn    lipgloss.Color
	Error   lipgloss.Color
}

// Dark is the default palette.
var Dark = Theme{
	Bg:      lipgloss.Color("#0B0F14"), // near-black
	Panel:   lipgloss.Color("#0F1720"), // slightly lighter
	Border:  lipgloss.Color("#874BFD"),
	Muted:   lipgloss.Color("#8AA0B6"),
	Text:    lipgloss.Color("#D6E2F0"),
	Accent:  lipgloss.Color("#7EE787"), // green-ish
	Accent2: lipgloss.Color("#79C0FF"), // blue-ish
	Warn:    lipgloss.Color("#FFA657"), // orange
	Error:   lipgloss.Color("#FF5F5F"),
}

// Light is used when dark mode is switched off.
var Light = Theme{
	Bg:      lipgloss.Color("#F6F8FA"),
	Panel:   lipgloss.Color("#FFFFFF"),
	Border:  lipgloss.Color("#6639BA"),
	Muted:   lipgloss.Color("#57606A"),
	Text:    lipgloss.Color("#1F2328"),
	Accent:  lipgloss.Color("#1A7F37"),
	Accent2: lipgloss.Color("#0969DA"),
	Warn:    lipgloss.Color("#BC4C00"),
	Error:   lipgloss.Color("#CF222E"),
}

// Theme colors
var (
	CBg      lipgloss.Color
	CPanel   lipgloss.Color
	CBorder  lipgloss.Color
	CMuted   lipgloss.Color
	CText    lipgloss.Color
	CAccent  lipgloss.Color
	CAccent2 lipgloss.Color
	CWarn    lipgloss.Color
	CError   lipgloss.Color
)

// Shared styles
var (
	AppStyle       lipgloss.Style
	TitleStyle     lipgloss.Style
	PanelStyle     lipgloss.Style
	NavStyle       lipgloss.Style
	HotkeyStyle    lipgloss.Style
	HotkeyKeyStyle lipgloss.Style
	HelpRightStyle lipgloss.Style
	MutedStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
)

var dark = true

func init() { Apply(true) }

// IsDark reports the active palette.
func IsDark() bool { return dark }

// Apply switches the palette and rebuilds the shared styles.
func Apply(darkMode bool) {
	dark = darkMode
	t := Light
	if darkMode {
		t = Dark
	}

	CBg, CPanel, CBorder = t.Bg, t.Panel, t.Border
	CMuted, CText, CAccent = t.Muted, t.Text, t.Accent
	CAccent2, CWarn, CError = t.Accent2, t.Warn, t.Error

	AppStyle = lipgloss.NewStyle().
		Background(CBg).
		Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
		Foreground(CAccent2).
		Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Background(CPanel).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CBorder).
		Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
		Background(CPanel).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(CBorder).
		Padding(0, 1)

	HotkeyStyle = lipgloss.NewStyle().
		Foreground(CMuted)

	HotkeyKeyStyle = lipgloss.NewStyle().
		Foreground(CAccent).
		Bold(true)

	HelpRightStyle = lipgloss.NewStyle().
		Foreground(CMuted)

	MutedStyle = lipgloss.NewStyle().Foreground(CMuted)
	ErrorStyle = lipgloss.NewStyle().Foreground(CError).Bold(true)
}

// Key renders a key with accent styling
func Key(s string) string {
	return HotkeyKeyStyle.Render(s)
}

// Muted renders s in the muted colour.
func Muted(s string) string {
	return MutedStyle.Render(s)
}
