// Package menu builds the application menu and its keyboard accelerators.
// Accelerators follow the platform convention: Command on darwin, Ctrl
// elsewhere.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action identifies what a menu item does.
type Action string

const (
	ActionNone           Action = ""
	ActionOpen           Action = "open"
	ActionNew            Action = "new"
	ActionRestore        Action = "restore"
	ActionSave           Action = "save"
	ActionSaveCopy       Action = "save-copy"
	ActionClose          Action = "close"
	ActionChangePassword Action = "password"
	ActionBackup         Action = "backup"
	ActionLock           Action = "lock"
	ActionToggleLog      Action = "toggle-log"
	ActionToggleDarkMode Action = "toggle-dark-mode"
	ActionRescan         Action = "rescan"
	ActionExportCSV      Action = "export-csv"
)

// Item is one entry of a menu. Items with ActionNone are labels only.
type Item struct {
	Label       string
	Accelerator string
	Action      Action
}

// Enabled reports whether choosing the item does anything.
func (i Item) Enabled() bool { return i.Action != ActionNone }

// Menu is a titled list of items.
type Menu struct {
	Label string
	Items []Item
}

// Build returns the menus for goos. version is shown under Help.
func Build(goos, version string) []Menu {
	mod := "Ctrl"
	if goos == "darwin" {
		mod = "Command"
	}
	accel := func(k string) string { return mod + "+" + k }

	return []Menu{
		{
			Label: "File",
			Items: []Item{
				{Label: "Open", Accelerator: accel("O"), Action: ActionOpen},
				{Label: "New", Accelerator: accel("N"), Action: ActionNew},
				{Label: "Restore", Action: ActionRestore},
				{Label: "Save", Accelerator: accel("S"), Action: ActionSave},
				{Label: "Save a Copy", Action: ActionSaveCopy},
				{Label: "Close", Accelerator: accel("W"), Action: ActionClose},
			},
		},
		{
			Label: "Wallet",
			Items: []Item{
				{Label: "Password", Action: ActionChangePassword},
				{Label: "Backup", Action: ActionBackup},
				{Label: "Lock", Accelerator: accel("L"), Action: ActionLock},
			},
		},
		{
			Label: "View",
			Items: []Item{
				{Label: "Toggle Log", Accelerator: accel("G"), Action: ActionToggleLog},
				{Label: "Toggle Dark Mode", Accelerator: accel("D"), Action: ActionToggleDarkMode},
			},
		},
		{
			Label: "Tools",
			Items: []Item{
				{Label: "Rescan", Action: ActionRescan},
				{Label: "Export to CSV", Action: ActionExportCSV},
			},
		},
		{
			Label: "Help",
			Items: []Item{
				{Label: version},
			},
		},
	}
}

// KeyString converts an accelerator such as "Command+Shift+O" into the key
// string Bubble Tea reports. Terminals never see the Command key, so it is
// mapped to alt (Option), which macOS terminals can forward as Meta.
func KeyString(accel string) string {
	parts := strings.Split(accel, "+")
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		last := i == len(parts)-1
		switch {
		case last:
			out = append(out, strings.ToLower(p))
		case p == "Command" || p == "Alt":
			out = append(out, "alt")
		case p == "Ctrl":
			out = append(out, "ctrl")
		case p == "Shift":
			out = append(out, "shift")
		}
	}
	return orderModifiers(out)
}

// Bubble Tea prints modifiers as ctrl, alt, shift in that order.
func orderModifiers(keys []string) string {
	if len(keys) <= 1 {
		return strings.Join(keys, "+")
	}
	mods, k := keys[:len(keys)-1], keys[len(keys)-1]
	var ordered []string
	for _, want := range []string{"ctrl", "alt", "shift"} {
		for _, m := range mods {
			if m == want {
				ordered = append(ordered, m)
				break
			}
		}
	}
	return strings.Join(append(ordered, k), "+")
}

// Binding pairs an action with its key binding.
type Binding struct {
	Action Action
	Key    key.Binding
}

// Bindings returns a binding for every enabled item that has an accelerator.
func Bindings(menus []Menu) []Binding {
	var out []Binding
	for _, m := range menus {
		for _, it := range m.Items {
			if !it.Enabled() || it.Accelerator == "" {
				continue
			}
			out = append(out, Binding{
				Action: it.Action,
				Key: key.NewBinding(
					key.WithKeys(KeyString(it.Accelerator)),
					key.WithHelp(it.Accelerator, strings.ToLower(it.Label)),
				),
			})
		}
	}
	return out
}

// Match returns the action whose accelerator matches msg.
func Match(menus []Menu, msg tea.KeyMsg) (Action, bool) {
	for _, b := range Bindings(menus) {
		if key.Matches(msg, b.Key) {
			return b.Action, true
		}
	}
	return ActionNone, false
}

// Flatten lists every item as "Menu › Item" for a single picker.
func Flatten(menus []Menu) []Entry {
	var out []Entry
	for _, m := range menus {
		for _, it := range m.Items {
			out = append(out, Entry{Menu: m.Label, Item: it})
		}
	}
	return out
}

// Entry is an item together with the menu it belongs to.
type Entry struct {
	Menu string
	Item Item
}

// Title is the picker label for the entry.
func (e Entry) Title() string {
	t := e.Menu + " › " + e.Item.Label
	if e.Item.Accelerator != "" {
		t += "  (" + e.Item.Accelerator + ")"
	}
	return t
}
