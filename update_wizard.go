package main

import (
	"errors"
	"fmt"
	"strings"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- WIZARD --------------------

// startWizard opens the create or import flow
func (m *model) startWizard(kind wizard.Kind) tea.Cmd {
	opts := []wizard.Option{wizard.WithLogger(m.logger)}
	backend := backendAdapter{b: m.backend}

	var c *wizard.Controller
	if kind == wizard.FlowImport {
		c = wizard.NewImportController(backend, m.notes, opts...)
	} else {
		c = wizard.NewCreateController(backend, m.notes, opts...)
	}

	s, err := c.Start()
	if err != nil {
		m.addLog("error", "Failed to start wizard: "+err.Error())
		m.notes.OpenModal(notify.ErrorModal(wizard.TitleCreationError, wizard.UserMessage(err)))
		return m.drainNotifications()
	}

	if m.activePage != config.PageNewWallet && m.activePage != config.PageImportKeys {
		m.returnPage = m.activePage
	}
	m.wiz = c
	m.wizState = s
	m.resetWizardInputs()
	if kind == wizard.FlowImport {
		m.activePage = config.PageImportKeys
	} else {
		m.activePage = config.PageNewWallet
	}
	m.addLog("info", "Started "+kind.String()+" wizard")
	return m.focusWizard()
}

// resetWizardInputs clears every wizard field
func (m *model) resetWizardInputs() {
	for f, in := range m.inputs {
		in.Reset()
		in.Blur()
		if f == wizard.FieldPassword || f == wizard.FieldConfirmPassword {
			in.EchoMode = textinput.EchoPassword
		}
		m.inputs[f] = in
	}
	m.seedInput.Reset()
	m.seedInput.Blur()
	m.wizFocus = 0
	m.showPassword = false
	m.wizardFeedback = ""
}

// wizardFields lists the editable fields of the current step in tab order
func (m model) wizardFields() []wizard.Field {
	if m.wiz == nil {
		return nil
	}
	switch m.wizState.Step {
	case wizard.StepSecure:
		return []wizard.Field{wizard.FieldPassword, wizard.FieldConfirmPassword}
	case wizard.StepEnterKeys:
		return []wizard.Field{wizard.FieldSpendKey, wizard.FieldViewKey, wizard.FieldScanHeight}
	case wizard.StepVerify:
		if m.wiz.Kind() == wizard.FlowCreate {
			return []wizard.Field{wizard.FieldConfirmSeed}
		}
	}
	return nil
}

// focusWizard focuses the field at wizFocus and blurs the rest
func (m *model) focusWizard() tea.Cmd {
	fields := m.wizardFields()
	if m.wizFocus >= len(fields) {
		m.wizFocus = 0
	}

	for f, in := range m.inputs {
		in.Blur()
		m.inputs[f] = in
	}
	m.seedInput.Blur()

	if len(fields) == 0 {
		return nil
	}
	focused := fields[m.wizFocus]
	if focused == wizard.FieldConfirmSeed {
		return m.seedInput.Focus()
	}
	in := m.inputs[focused]
	cmd := in.Focus()
	m.inputs[focused] = in
	return cmd
}

// updateWizardInput forwards msg to the focused field and records its value
func (m *model) updateWizardInput(msg tea.Msg) tea.Cmd {
	fields := m.wizardFields()
	if len(fields) == 0 {
		return nil
	}
	focused := fields[m.wizFocus%len(fields)]

	var cmd tea.Cmd
	var value string
	if focused == wizard.FieldConfirmSeed {
		m.seedInput, cmd = m.seedInput.Update(msg)
		value = m.seedInput.Value()
	} else {
		in := m.inputs[focused]
		in, cmd = in.Update(msg)
		m.inputs[focused] = in
		value = in.Value()
	}

	if value != m.wizState.Get(focused) {
		m.wizState = wizard.Reduce(m.wiz.Steps(), m.wizState, wizard.SetField{Field: focused, Value: value})
	}
	return cmd
}

func (m *model) handleWizardKey(msg tea.KeyMsg) tea.Cmd {
	if m.wiz == nil {
		return nil
	}
	fields := m.wizardFields()

	switch msg.String() {
	case "enter":
		return m.handleWizardResult(m.wiz.TryAdvance(m.wizState))

	case "esc":
		if m.wizState.Step == m.wiz.Steps().First() {
			return m.cancelWizard()
		}
		m.wizState = m.wiz.Back(m.wizState)
		m.wizFocus = 0
		m.wizardFeedback = ""
		return m.focusWizard()

	case "tab", "down":
		if len(fields) > 1 {
			m.wizFocus = (m.wizFocus + 1) % len(fields)
			return m.focusWizard()
		}
		if len(fields) == 1 {
			break
		}
		return nil

	case "shift+tab", "up":
		if len(fields) > 1 {
			m.wizFocus = (m.wizFocus + len(fields) - 1) % len(fields)
			return m.focusWizard()
		}
		if len(fields) == 1 {
			break
		}
		return nil

	case "ctrl+t":
		if m.wizState.Step == wizard.StepSecure {
			m.togglePasswordVisibility()
		}
		return nil
	}

	// pages without fields have single-letter shortcuts
	if len(fields) == 0 {
		return m.handleWizardShortcut(msg)
	}
	return m.updateWizardInput(msg)
}

func (m *model) handleWizardShortcut(msg tea.KeyMsg) tea.Cmd {
	a := m.wizState.Artifact
	if a == nil {
		return nil
	}
	switch msg.String() {
	case "c":
		if m.wizState.Step == wizard.StepBackup {
			seed, err := a.MnemonicSeed()
			if err != nil {
				m.addLog("error", "No seed to copy: "+err.Error())
				return nil
			}
			return copyToClipboard("Seed", seed)
		}
		return copyToClipboard("Address", a.PrimaryAddress())

	case "b":
		if m.wizState.Step != wizard.StepBackup || walletOf(m.wizState) == nil {
			return nil
		}
		name := "cirquity-backup"
		if addr := a.PrimaryAddress(); len(addr) > 12 {
			name = "cirquity-" + addr[4:12] + "-backup"
		}
		def := strings.TrimSuffix(helpers.DefaultWalletPath(name), wallet.FileExtension) + ".txt"
		m.openPathForm(formBackup, "Backup Wallet", "Text file for the keys and seed", def)
	}
	return nil
}

func (m *model) togglePasswordVisibility() {
	m.showPassword = !m.showPassword
	mode := textinput.EchoPassword
	if m.showPassword {
		mode = textinput.EchoNormal
	}
	for _, f := range []wizard.Field{wizard.FieldPassword, wizard.FieldConfirmPassword} {
		in := m.inputs[f]
		in.EchoMode = mode
		m.inputs[f] = in
	}
}

// handleWizardResult applies a controller transition
func (m *model) handleWizardResult(r wizard.Result) tea.Cmd {
	m.wizState = r.State
	m.logger.Debug("wizard transition", "step", r.State.Step, "outcome", r.Outcome)

	var cmds []tea.Cmd
	switch r.Outcome {
	case wizard.Advanced:
		m.wizFocus = 0
		m.wizardFeedback = ""
		cmds = append(cmds, m.focusWizard())

	case wizard.AwaitingSavePath:
		m.openPathForm(formSavePath, "Save Wallet", "Where to write the new wallet file. Esc cancels.",
			helpers.DefaultWalletPath("cirquity"))

	case wizard.Cancelled:
		m.addLog("debug", "Save cancelled")

	case wizard.Completed:
		m.wallet = walletOf(r.State)
		m.walletPassword = r.State.Get(wizard.FieldPassword)

	case wizard.Blocked:
		if r.Err != nil && !errors.Is(r.Err, wizard.ErrPasswordMismatch) {
			m.addLog("debug", fmt.Sprintf("Wizard blocked: %s", r.Err))
		}

	case wizard.Failed:
		m.addLog("error", fmt.Sprintf("Wizard step %s failed: %s", r.State.Step, r.Err))
	}

	cmds = append(cmds, m.drainNotifications())
	return tea.Batch(cmds...)
}

// backupWallet is the wallet a backup form writes: the new wallet while the
// wizard is on its backup page, otherwise the open one.
func (m model) backupWallet() *wallet.Wallet {
	if m.wiz != nil && m.wizState.Step == wizard.StepBackup {
		return walletOf(m.wizState)
	}
	return m.wallet
}

// cancelWizard drops the flow and everything it generated
func (m *model) cancelWizard() tea.Cmd {
	m.addLog("info", "Cancelled "+m.wiz.Kind().String()+" wizard")
	m.wiz = nil
	m.wizState = wizard.State{}
	m.resetWizardInputs()

	m.activePage = m.returnPage
	if m.activePage == config.PageHome && m.wallet == nil {
		m.activePage = config.PageWelcome
	}
	return nil
}
