package config

// Page is the shell's active page.
type Page int

const (
	PageWelcome Page = iota
	PageNewWallet
	PageImportKeys
	PageUnlock
	PageHome
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageWelcome:
		return "welcome"
	case PageNewWallet:
		return "new wallet"
	case PageImportKeys:
		return "import keys"
	case PageUnlock:
		return "unlock"
	case PageHome:
		return "home"
	case PageSettings:
		return "settings"
	default:
		return "unknown"
	}
}
