package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/menu"
	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/settings"
	"cirquity-wallet-tui/styles"
	settingsview "cirquity-wallet-tui/views/settings"
	"cirquity-wallet-tui/views/unlock"
	"cirquity-wallet-tui/views/welcome"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempPath            string
	tempOldPassword     string
	tempNewPassword     string
	tempConfirmPassword string
	tempScanHeight      string
	tempLockInterval    string
	tempNodeName        string
	tempNodeHost        string
	tempNodePort        string
	tempNodeSSL         bool
	tempMenuChoice      int
)

// openPathForm asks for a file path and remembers what it is for
func (m *model) openPathForm(kind formKind, title, description, def string) {
	tempPath = def

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				Value(&tempPath).
				Placeholder(def),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = kind

	m.form.Init()
}

func (m *model) createPasswordForm() {
	tempOldPassword = ""
	tempNewPassword = ""
	tempConfirmPassword = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&tempOldPassword),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&tempNewPassword),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&tempConfirmPassword),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = formPassword

	m.form.Init()
}

func (m *model) createRescanForm() {
	tempScanHeight = ""
	if m.wallet != nil {
		tempScanHeight = strconv.FormatUint(m.wallet.ScanHeight(), 10)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rescan Wallet").
				Description("Block height to rescan from").
				Value(&tempScanHeight).
				Placeholder("0"),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = formRescan

	m.form.Init()
}

func (m *model) createLockIntervalForm() {
	tempLockInterval = strconv.FormatFloat(m.cfg.Config().AutoLockInterval, 'f', -1, 64)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Auto-lock interval").
				Description("Minutes without input before the wallet locks").
				Value(&tempLockInterval).
				Validate(func(s string) error {
					if !settings.AcceptLockInput(s) {
						return errors.New("minutes, up to two decimals")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = formLockInterval

	m.form.Init()
}

func (m *model) createNodeForm(kind formKind, idx int) {
	tempNodeName, tempNodeHost, tempNodePort, tempNodeSSL = "", "", strconv.Itoa(config.DefaultDaemonPort), false
	nodes := m.cfg.Config().Daemons
	if kind == formNodeEdit {
		if idx < 0 || idx >= len(nodes) {
			return
		}
		n := nodes[idx]
		tempNodeName, tempNodeHost, tempNodePort, tempNodeSSL = n.Name, n.Host, strconv.Itoa(n.Port), n.SSL
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node Name").
				Description("A friendly name for this daemon").
				Value(&tempNodeName).
				Placeholder("My node"),
			huh.NewInput().
				Title("Host").
				Value(&tempNodeHost).
				Placeholder("127.0.0.1"),
			huh.NewInput().
				Title("Port").
				Value(&tempNodePort).
				Validate(func(s string) error {
					if _, err := parsePort(s); err != nil {
						return err
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Use SSL?").
				Affirmative("Yes").
				Negative("No").
				Value(&tempNodeSSL),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = kind

	m.form.Init()
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p <= 0 || p > 65535 {
		return 0, errors.New("port must be between 1 and 65535")
	}
	return p, nil
}

// createMenuForm shows every menu item in one picker
func (m *model) createMenuForm() {
	tempMenuChoice = -1
	var opts []huh.Option[int]
	for i, e := range menu.Flatten(m.menus) {
		if !e.Item.Enabled() {
			continue
		}
		opts = append(opts, huh.NewOption(e.Title(), i))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Menu").
				Options(opts...).
				Value(&tempMenuChoice),
		),
	).WithTheme(huh.ThemeCatppuccin())
	m.formKind = formMenu

	m.form.Init()
}

// isAppMsg reports messages the shell handles itself even while a form
// has the keyboard.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case logInitMsg, daemonConnectedMsg, daemonInfoMsg, daemonTickMsg, lockTickMsg,
		clipboardCopiedMsg, clearClipboardMsg, nodeListMsg, updateCheckedMsg, fileWrittenMsg,
		spinner.TickMsg, tea.WindowSizeMsg:
		return true
	}
	return false
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		m.lastInput = time.Now()
		if keyMsg.String() == "ctrl+c" {
			return m, m.quit()
		}
		// Dialogs take every key while open
		if len(m.modals) > 0 {
			return m, m.handleModalKey(keyMsg)
		}
	}

	// Handle form updates first (before message switching)
	if m.form != nil && !isAppMsg(msg) {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			return m, m.cancelForm()
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f

			if m.form.State == huh.StateCompleted {
				return m, m.submitForm()
			}
			if m.form.State == huh.StateAborted {
				return m, m.cancelForm()
			}
		}
		return m, cmd
	}

	if m.activePage == config.PageWelcome && m.welcomeForm != nil && !isAppMsg(msg) {
		if cmd, handled := m.updateWelcome(msg); handled {
			return m, cmd
		}
	}

	if m.activePage == config.PageUnlock && m.unlockForm != nil && !isAppMsg(msg) {
		if cmd, handled := m.updateUnlock(msg); handled {
			return m, cmd
		}
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logger.SetStyles(logStyles())
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case daemonConnectedMsg:
		if msg.url != m.daemonURL {
			// answer for a node that is no longer selected
			msg.client.Close()
			return m, nil
		}
		m.connecting = false
		if msg.err != nil {
			m.daemonClient = nil
			m.info = daemon.Info{LoadedAt: time.Now(), ErrMessage: "Could not connect to " + msg.url}
			m.addLog("error", fmt.Sprintf("Daemon connection failed: `%s`", msg.err.Error()))
			return m, nil
		}
		m.daemonClient = msg.client
		m.addLog("success", fmt.Sprintf("Daemon connected to `%s` at height %d", msg.client.URL, msg.height))
		return m, loadInfo(m.daemonClient)

	case daemonInfoMsg:
		m.info = msg.info
		if msg.info.ErrMessage != "" {
			m.addLog("warning", msg.info.ErrMessage)
		} else {
			m.logger.Debug("daemon status", "height", msg.info.Height, "network", msg.info.NetworkHeight, "peers", msg.info.PeerCount)
		}
		return m, nil

	case daemonTickMsg:
		if m.daemonClient != nil && !m.connecting {
			return m, tea.Batch(loadInfo(m.daemonClient), scheduleInfo())
		}
		return m, scheduleInfo()

	case lockTickMsg:
		m.checkAutoLock()
		return m, scheduleLockCheck()

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ " + msg.what + " copied to clipboard"
		m.wizardFeedback = m.copiedMsg
		m.addLog("info", "Copied "+strings.ToLower(msg.what)+" to clipboard")
		return m, clearClipboard()

	case clearClipboardMsg:
		m.copiedMsg = ""
		if strings.HasPrefix(m.wizardFeedback, "✓") && strings.HasSuffix(m.wizardFeedback, "clipboard") {
			m.wizardFeedback = ""
		}
		return m, nil

	case nodeListMsg:
		if msg.err != nil {
			m.addLog("error", "Failed to fetch node list: "+msg.err.Error())
			m.openModal(notify.ErrorModal("Node list unavailable", "The public node list could not be downloaded."))
			return m, nil
		}
		m.mergeNodes(msg.nodes)
		return m, nil

	case updateCheckedMsg:
		if err := m.cfg.Modify(func(c *config.Config) { c.LastVersionCheck = time.Now() }); err != nil {
			m.addLog("error", "Failed to save config: "+err.Error())
		}
		if msg.err != nil {
			m.addLog("warning", "Update check failed: "+msg.err.Error())
			return m, nil
		}
		if msg.newer {
			rel := msg.release
			m.update = &rel
			m.addLog("info", "Update available: "+rel.LatestVersion)
			m.openModal(notify.Modal{
				Title:   "Update available",
				Body:    fmt.Sprintf("Version %s is available. Download it from %s", rel.LatestVersion, rel.DownloadPath),
				Primary: "OK",
			})
		}
		return m, nil

	case fileWrittenMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Failed to write %s to `%s`: %s", msg.what, msg.path, msg.err))
			m.openModal(notify.ErrorModal("Could not write file", "The file could not be written. Pick another location and try again."))
			return m, nil
		}
		m.addLog("success", fmt.Sprintf("Wrote %s to `%s`", msg.what, msg.path))
		m.wizardFeedback = "✓ Saved to " + msg.path
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// Remaining messages (cursor blinks) belong to the focused wizard field
	if m.wiz != nil {
		return m, m.updateWizardInput(msg)
	}
	return m, nil
}

// handleKey routes a key press that no form or dialog consumed
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showNodeDeleteDialog {
		return m.handleNodeDeleteKey(msg)
	}

	if msg.String() == "f10" {
		m.createMenuForm()
		return nil
	}

	if action, ok := menu.Match(m.menus, msg); ok {
		return m.runMenuAction(action)
	}

	if !m.textInputActive() {
		switch msg.String() {
		case "l", "L":
			return m.toggleLog()
		case "pageup", "pagedown":
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return cmd
			}
		}
	}

	switch m.activePage {
	case config.PageNewWallet, config.PageImportKeys:
		return m.handleWizardKey(msg)
	case config.PageHome:
		return m.handleHomeKey(msg)
	case config.PageSettings:
		return m.handleSettingsKey(msg)
	}
	return nil
}

// -------------------- FORMS --------------------

func (m *model) cancelForm() tea.Cmd {
	kind := m.formKind
	m.form = nil
	m.formKind = formNone

	if kind == formSavePath && m.wiz != nil {
		r := m.wiz.Save(m.wizState, "", false)
		return m.handleWizardResult(r)
	}
	return nil
}

func (m *model) submitForm() tea.Cmd {
	kind := m.formKind
	m.form = nil
	m.formKind = formNone
	path := helpers.ExpandHome(strings.TrimSpace(tempPath))

	switch kind {
	case formSavePath:
		if m.wiz == nil {
			return nil
		}
		r := m.wiz.Save(m.wizState, withWalletExt(path), path != "")
		return m.handleWizardResult(r)

	case formOpen:
		if path == "" {
			return nil
		}
		m.showUnlock(path, false)
		return nil

	case formSaveCopy:
		if m.wallet == nil || path == "" {
			return nil
		}
		path = withWalletExt(path)
		if err := m.wallet.SaveToFile(path, m.walletPassword); err != nil {
			m.addLog("error", fmt.Sprintf("Failed to save copy to `%s`: %s", path, err))
			m.openModal(notify.ErrorModal(wizard.TitleSaveError, wizard.BodySaveError))
			return nil
		}
		m.addLog("success", fmt.Sprintf("Saved a copy to `%s`", path))
		return nil

	case formPassword:
		return m.changePassword()

	case formBackup:
		w := m.backupWallet()
		if w == nil || path == "" {
			return nil
		}
		return writeBackup(w, path)

	case formExport:
		if m.wallet == nil || path == "" {
			return nil
		}
		return exportCSV(m.wallet.Transactions(), path)

	case formRescan:
		height, err := settings.ParseScanHeight(tempScanHeight)
		if err != nil {
			m.addLog("warning", err.Error())
			m.openModal(settings.BadScanHeightModal())
			return nil
		}
		m.openModal(settings.ConfirmRescanModal(height))
		return nil

	case formLockInterval:
		minutes, err := settings.ParseLockInterval(strings.TrimSpace(tempLockInterval))
		switch {
		case errors.Is(err, settings.ErrIgnored):
			return nil
		case errors.Is(err, settings.ErrLockTooLong):
			m.openModal(settings.LockTooLongModal())
			return nil
		}
		if err := m.cfg.Modify(func(c *config.Config) { c.AutoLockInterval = minutes }); err != nil {
			m.addLog("error", "Failed to save config: "+err.Error())
		}
		m.addLog("success", fmt.Sprintf("Auto-lock after %g minutes", minutes))
		return nil

	case formNodeAdd, formNodeEdit:
		return m.saveNodeForm(kind)

	case formMenu:
		entries := menu.Flatten(m.menus)
		if tempMenuChoice < 0 || tempMenuChoice >= len(entries) {
			return nil
		}
		return m.runMenuAction(entries[tempMenuChoice].Item.Action)
	}
	return nil
}

func withWalletExt(path string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + wallet.FileExtension
}

func (m *model) changePassword() tea.Cmd {
	if m.wallet == nil || m.walletPath == "" {
		return nil
	}
	// mismatched new passwords are dropped like on the wizard's secure step
	if tempNewPassword != tempConfirmPassword {
		m.addLog("warning", "New passwords do not match")
		return nil
	}
	if err := m.backend.ChangePassword(m.walletPath, tempOldPassword, tempNewPassword); err != nil {
		m.addLog("error", "Failed to change password: "+err.Error())
		m.openModal(notify.ErrorModal("Could not change password", wizard.UserMessage(err)))
		return nil
	}
	m.walletPassword = tempNewPassword
	m.addLog("success", "Wallet password changed")
	return nil
}

// -------------------- WELCOME / UNLOCK --------------------

func (m *model) updateWelcome(msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			return m.quit(), true
		}
		// accelerators and F10 still work from the welcome menu
		if _, ok := menu.Match(m.menus, keyMsg); ok || keyMsg.String() == "f10" {
			return nil, false
		}
	}

	form, cmd := m.welcomeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.welcomeForm = f
		if m.welcomeForm.State == huh.StateCompleted {
			choice := welcome.TempSelection
			m.welcomeForm = welcome.CreateForm(lastWalletName(m.cfg.Config().WalletFile))
			return m.welcomeChoice(choice), true
		}
	}
	return cmd, true
}

func (m *model) welcomeChoice(choice string) tea.Cmd {
	switch choice {
	case welcome.ChoiceNew:
		return m.runMenuAction(menu.ActionNew)
	case welcome.ChoiceRestore:
		return m.runMenuAction(menu.ActionRestore)
	case welcome.ChoiceOpen:
		if last := m.cfg.Config().WalletFile; last != "" {
			m.showUnlock(last, false)
			return nil
		}
		return m.runMenuAction(menu.ActionOpen)
	case welcome.ChoiceSettings:
		m.showSettings()
	case welcome.ChoiceQuit:
		return m.quit()
	}
	return nil
}

func (m *model) showUnlock(path string, locked bool) {
	m.unlockPath = path
	m.unlockErr = ""
	m.locked = locked
	m.unlockAddress, m.unlockHeight = "", 0
	if !locked && path != "" {
		addr, height, err := wallet.Peek(path)
		if err != nil {
			m.unlockErr = wizard.UserMessage(err)
		} else {
			m.unlockAddress, m.unlockHeight = addr, height
		}
	}
	m.unlockForm = unlock.CreateForm(path)
	m.activePage = config.PageUnlock
}

func (m *model) updateUnlock(msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			if m.locked {
				return nil, true
			}
			m.unlockForm = nil
			m.activePage = config.PageWelcome
			return nil, true
		case "ctrl+w":
			if m.locked {
				return m.runMenuAction(menu.ActionClose), true
			}
		}
	}

	form, cmd := m.unlockForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.unlockForm = f
		if m.unlockForm.State == huh.StateCompleted {
			return m.tryUnlock(unlock.TempPassword), true
		}
	}
	return cmd, true
}

func (m *model) tryUnlock(password string) tea.Cmd {
	if m.locked {
		if m.wallet != nil && password == m.walletPassword {
			m.locked = false
			m.unlockForm = nil
			m.activePage = config.PageHome
			m.addLog("info", "Wallet unlocked")
			return nil
		}
		m.unlockErr = "Incorrect password."
		m.unlockForm = unlock.CreateForm(m.unlockPath)
		return nil
	}

	w, err := m.backend.Open(m.unlockPath, password)
	if err != nil {
		m.addLog("error", fmt.Sprintf("Failed to open `%s`: %s", m.unlockPath, err))
		m.unlockErr = wizard.UserMessage(err)
		m.unlockForm = unlock.CreateForm(m.unlockPath)
		return nil
	}
	if m.wallet != nil {
		m.closeWallet()
	}
	m.wallet = w
	m.walletPassword = password
	m.unlockForm = nil
	return m.reInitWallet(m.unlockPath)
}

// -------------------- MODALS / NOTIFICATIONS --------------------

func (m *model) openModal(md notify.Modal) {
	m.modals = append(m.modals, md)
	if len(m.modals) == 1 {
		m.modalPrimarySelected = true
	}
	m.logger.Debug("modal", "title", md.Title)
}

// drainNotifications applies everything components asked for since the
// last drain
func (m *model) drainNotifications() tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.notes.Drain() {
		switch e := ev.(type) {
		case notify.ModalRequested:
			m.openModal(e.Modal)
		case notify.WalletReady:
			cmds = append(cmds, m.reInitWallet(e.Path))
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	current := m.modals[0]
	switch msg.String() {
	case "left", "right", "h", "l", "tab", "shift+tab":
		if current.HasSecondary() {
			m.modalPrimarySelected = !m.modalPrimarySelected
		}
		return nil
	case "enter", " ":
		return m.closeModal(m.modalPrimarySelected || !current.HasSecondary())
	case "esc":
		return m.closeModal(!current.HasSecondary())
	}
	return nil
}

func (m *model) closeModal(primary bool) tea.Cmd {
	current := m.modals[0]
	m.modals = m.modals[1:]
	m.modalPrimarySelected = true
	if !primary {
		return nil
	}

	switch current.Confirm {
	case notify.ActionRescan:
		m.rescan(current.Arg)
	case notify.ActionQuit:
		return m.quit()
	case notify.ActionCloseWallet:
		m.closeWallet()
	}
	return nil
}

func (m *model) rescan(height uint64) {
	if m.wallet == nil {
		return
	}
	m.wallet.Rescan(height)
	m.txView.Reset()
	m.txCursor = 0
	if err := m.saveWallet(); err != nil {
		m.addLog("error", "Failed to save wallet after rescan: "+err.Error())
	}
	m.addLog("info", fmt.Sprintf("Rescanning wallet from block %d", height))
}

// -------------------- WALLET LIFECYCLE --------------------

// reInitWallet switches the shell to the wallet that was just saved or
// opened at path
func (m *model) reInitWallet(path string) tea.Cmd {
	if m.wallet == nil {
		m.showUnlock(path, false)
		return nil
	}
	m.walletPath = path
	m.locked = false
	m.lastInput = time.Now()
	m.txView.Reset()
	m.txCursor = 0
	m.wiz = nil
	m.resetWizardInputs()

	if err := m.cfg.Modify(func(c *config.Config) { c.WalletFile = path }); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	m.activePage = config.PageHome
	m.returnPage = config.PageHome
	m.addLog("success", fmt.Sprintf("Opened wallet `%s` (%s)", path, helpers.ShortenAddr(m.wallet.PrimaryAddress())))

	if m.daemonClient == nil && !m.connecting && m.daemonURL != "" {
		m.connecting = true
		return connectDaemon(m.daemonURL)
	}
	return nil
}

func (m *model) saveWallet() error {
	if m.wallet == nil || m.walletPath == "" {
		return nil
	}
	return m.wallet.SaveToFile(m.walletPath, m.walletPassword)
}

func (m *model) closeWallet() {
	if m.wallet == nil {
		return
	}
	if err := m.saveWallet(); err != nil {
		m.addLog("error", "Failed to save wallet: "+err.Error())
	}
	m.addLog("info", "Closed wallet "+helpers.ShortenAddr(m.wallet.PrimaryAddress()))
	m.wallet = nil
	m.walletPath = ""
	m.walletPassword = ""
	m.locked = false
	m.txView.Reset()
	m.txCursor = 0
	m.activePage = config.PageWelcome
	m.returnPage = config.PageWelcome
	m.welcomeForm = welcome.CreateForm(lastWalletName(m.cfg.Config().WalletFile))
}

func (m *model) quit() tea.Cmd {
	if err := m.saveWallet(); err != nil {
		m.addLog("error", "Failed to save wallet: "+err.Error())
	}
	if m.daemonClient != nil {
		m.daemonClient.Close()
	}
	return tea.Quit
}

func (m *model) checkAutoLock() {
	if m.wallet == nil || m.locked {
		return
	}
	cfg := m.cfg.Config()
	if !cfg.AutoLockEnabled || cfg.AutoLockInterval <= 0 {
		return
	}
	if time.Since(m.lastInput) < settings.LockDuration(cfg.AutoLockInterval) {
		return
	}
	m.lockWallet()
}

func (m *model) lockWallet() {
	if m.wallet == nil {
		return
	}
	if err := m.saveWallet(); err != nil {
		m.addLog("error", "Failed to save wallet: "+err.Error())
	}
	m.form = nil
	m.formKind = formNone
	m.showUnlock(m.walletPath, true)
	m.addLog("info", "Wallet locked")
}

// -------------------- MENU --------------------

func (m *model) runMenuAction(action menu.Action) tea.Cmd {
	m.logger.Debug("menu action", "action", action)

	needsWallet := map[menu.Action]bool{
		menu.ActionSave: true, menu.ActionSaveCopy: true, menu.ActionClose: true,
		menu.ActionChangePassword: true, menu.ActionBackup: true, menu.ActionLock: true,
		menu.ActionRescan: true, menu.ActionExportCSV: true,
	}
	if needsWallet[action] && (m.wallet == nil || m.locked) {
		m.addLog("warning", "No wallet is open")
		return nil
	}

	switch action {
	case menu.ActionOpen:
		def := m.cfg.Config().WalletFile
		if def == "" {
			def = helpers.DefaultWalletPath("cirquity")
		}
		m.openPathForm(formOpen, "Open Wallet", "Path to a "+wallet.FileExtension+" file", def)
	case menu.ActionNew:
		m.closeWallet()
		return m.startWizard(wizard.FlowCreate)
	case menu.ActionRestore:
		m.closeWallet()
		return m.startWizard(wizard.FlowImport)
	case menu.ActionSave:
		if err := m.saveWallet(); err != nil {
			m.addLog("error", "Failed to save wallet: "+err.Error())
			m.openModal(notify.ErrorModal(wizard.TitleSaveError, wizard.BodySaveError))
			return nil
		}
		m.addLog("success", "Wallet saved")
	case menu.ActionSaveCopy:
		m.openPathForm(formSaveCopy, "Save a Copy", "Where to write the copy", strings.TrimSuffix(m.walletPath, wallet.FileExtension)+"-copy"+wallet.FileExtension)
	case menu.ActionClose:
		m.closeWallet()
	case menu.ActionChangePassword:
		m.createPasswordForm()
	case menu.ActionBackup:
		m.openPathForm(formBackup, "Backup Wallet", "Text file for the keys and seed", strings.TrimSuffix(m.walletPath, wallet.FileExtension)+"-backup.txt")
	case menu.ActionLock:
		m.lockWallet()
	case menu.ActionToggleLog:
		return m.toggleLog()
	case menu.ActionToggleDarkMode:
		m.toggleDarkMode()
	case menu.ActionRescan:
		m.createRescanForm()
	case menu.ActionExportCSV:
		m.openPathForm(formExport, "Export Transactions", "CSV file to write", strings.TrimSuffix(m.walletPath, wallet.FileExtension)+"-transactions.csv")
	}
	return nil
}

func (m *model) toggleLog() tea.Cmd {
	m.logEnabled = !m.logEnabled
	if err := m.cfg.Modify(func(c *config.Config) { c.Logger = m.logEnabled }); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	if m.logEnabled {
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	m.logReady = false
	return nil
}

func (m *model) toggleDarkMode() {
	dark := !styles.IsDark()
	styles.Apply(dark)
	m.logger.SetStyles(logStyles())
	for f, in := range m.inputs {
		in.PromptStyle = promptStyle()
		in.TextStyle = textStyle()
		in.Cursor.Style = cursorStyle()
		m.inputs[f] = in
	}
	if err := m.cfg.Modify(func(c *config.Config) { c.DarkMode = dark }); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	m.addLog("info", "Dark mode "+settingsview.OnOff(dark))
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.form != nil {
		return true
	}
	if m.activePage == config.PageUnlock && m.unlockForm != nil {
		return true
	}
	if m.wiz != nil && len(m.wizardFields()) > 0 {
		return true
	}
	return false
}
