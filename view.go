package main

import (
	"strings"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/helpers"
	"cirquity-wallet-tui/styles"
	homeview "cirquity-wallet-tui/views/home"
	logview "cirquity-wallet-tui/views/log"
	"cirquity-wallet-tui/views/modal"
	settingsview "cirquity-wallet-tui/views/settings"
	"cirquity-wallet-tui/views/unlock"
	"cirquity-wallet-tui/views/welcome"
	wizardview "cirquity-wallet-tui/views/wizard"
	"cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m model) renderNodeDeleteDialog() string {
	var (
		dialogBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(styles.CBorder).
				Padding(1, 0)

		buttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(lipgloss.Color("#888B7E")).
				Padding(0, 3).
				MarginTop(1)

		activeButtonStyle = buttonStyle.
					Foreground(lipgloss.Color("#FFF7DB")).
					Background(lipgloss.Color("#F25D94")).
					MarginRight(2).
					Underline(true)
	)

	name := ""
	if nodes := m.cfg.Config().Daemons; m.deleteNodeIdx >= 0 && m.deleteNodeIdx < len(nodes) {
		name = nodes[m.deleteNodeIdx].Name
	}
	msg := helpers.FadeString("Are you sure you want to delete the daemon "+name+"?", "#F25D94", "#EDFF82")
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)

	var okButton, cancelButton string
	if m.deleteNodeYesSelected {
		okButton = activeButtonStyle.Render("Yes")
		cancelButton = buttonStyle.Render("No")
	} else {
		okButton = buttonStyle.MarginRight(2).Render("Yes")
		cancelButton = activeButtonStyle.MarginRight(0).Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, buttons)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
	)
}

// statusColor is green when the daemon answers
func (m model) statusColor() lipgloss.Color {
	if m.daemonClient != nil && !m.connecting {
		return styles.CAccent
	}
	return lipgloss.Color("#c01c28")
}

func (m model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	var walletDisplay string
	switch {
	case m.wallet != nil && m.locked:
		walletDisplay = lipgloss.NewStyle().Foreground(styles.CWarn).Bold(true).Render("Wallet: locked")
	case m.wallet != nil:
		walletDisplay = lipgloss.NewStyle().
			Foreground(styles.CAccent2).
			Bold(true).
			Render("Wallet: " + helpers.FadeString(helpers.ShortenAddr(m.wallet.PrimaryAddress()), "#F25D94", "#EDFF82"))
	default:
		walletDisplay = styles.Muted("Wallet: none open")
	}

	// Daemon status with dot
	statusIcon := "○"
	var statusText string
	switch {
	case m.daemonURL == "":
		statusText = "No daemon"
	case m.connecting:
		statusText = "Connecting..."
	case m.daemonClient == nil:
		statusText = "Connection Failed"
	default:
		statusIcon = "●"
		statusText = "Connected"
		if node, ok := m.activeNode(); ok {
			statusText = node.Name
		}
		if m.info.NetworkHeight > 0 {
			statusText += " · " + m.info.State().String()
		}
	}
	daemonDisplay := lipgloss.NewStyle().
		Foreground(m.statusColor()).
		Bold(true).
		Render(statusIcon + " " + statusText)

	title := "cirquity wallet"
	if m.update != nil {
		title += " (update " + m.update.LatestVersion + ")"
	}
	titleText := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString(title, "#7EE787", "#82CFFD"))

	walletWidth := lipgloss.Width(walletDisplay)
	daemonWidth := lipgloss.Width(daemonDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := walletWidth + daemonWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = walletDisplay + "\n" + titleText + "\n" + daemonDisplay
	} else {
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = walletDisplay + strings.Repeat(" ", max(1, leftPadding)) +
			titleText + strings.Repeat(" ", max(1, rightPadding)) + daemonDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// wizardBody renders the current wizard step
func (m model) wizardBody() string {
	s := m.wizState
	steps := m.wiz.Steps()

	address := ""
	if s.Artifact != nil {
		address = s.Artifact.PrimaryAddress()
	}

	var body string
	switch s.Step {
	case wizard.StepGenerate:
		qr := ""
		if address != "" {
			qr = helpers.GenerateQRCode(address)
		}
		body = wizardview.Generate(address, qr)
	case wizard.StepSecure:
		heading := "Secure your wallet with a password."
		confirm := s.Get(wizard.FieldConfirmPassword)
		body = wizardview.Secure(heading,
			m.inputs[wizard.FieldPassword].View(),
			m.inputs[wizard.FieldConfirmPassword].View(),
			confirm != "" && !s.PasswordsMatch(),
			m.showPassword)
	case wizard.StepBackup:
		seed := ""
		if s.Artifact != nil {
			seed, _ = s.Artifact.MnemonicSeed()
		}
		body = wizardview.Backup(seed, m.wizardFeedback)
	case wizard.StepVerify:
		if m.wiz.Kind() == wizard.FlowImport {
			body = wizardview.ImportVerify(address)
		} else {
			body = wizardview.Verify(m.seedInput.View())
		}
	case wizard.StepEnterKeys:
		body = wizardview.EnterKeys(
			m.inputs[wizard.FieldSpendKey].View(),
			m.inputs[wizard.FieldViewKey].View(),
			m.inputs[wizard.FieldScanHeight].View())
	}

	if m.wizardFeedback != "" && s.Step != wizard.StepBackup {
		body += "\n\n" + lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(m.wizardFeedback)
	}

	return styles.TitleStyle.Render(wizardview.Title(m.wiz.Kind())) + "\n\n" +
		wizardview.Indicator(steps, s.Step) + "\n\n" + body
}

func (m model) wizardNav() string {
	var extra []string
	switch m.wizState.Step {
	case wizard.StepGenerate:
		extra = append(extra, styles.Key("c")+" copy address")
	case wizard.StepSecure:
		extra = append(extra, styles.Key("Tab")+" next field", styles.Key("ctrl+t")+" show/hide")
	case wizard.StepBackup:
		extra = append(extra, styles.Key("c")+" copy seed", styles.Key("b")+" save backup")
	case wizard.StepEnterKeys:
		extra = append(extra, styles.Key("Tab")+" next field")
	}
	return wizardview.Nav(m.w-2, m.wiz.Steps(), m.wizState.Step, extra...)
}

func (m model) formTitle() string {
	switch m.formKind {
	case formNodeAdd:
		return "Add Daemon"
	case formNodeEdit:
		return "Edit Daemon"
	case formPassword:
		return "Change Password"
	case formMenu:
		return "Menu"
	}
	return ""
}

func (m *model) View() string {
	if len(m.modals) > 0 {
		return styles.AppStyle.Render(modal.Render(m.w, m.h, m.modals[0], m.modalPrimarySelected))
	}
	if m.showNodeDeleteDialog {
		return styles.AppStyle.Render(m.renderNodeDeleteDialog())
	}

	headerPanel := styles.PanelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageWelcome:
		pageContent = styles.PanelStyle.Width(max(0, m.w-2)).Render(welcome.Render(m.welcomeForm))
		nav = welcome.Nav(m.w - 2)

	case config.PageNewWallet, config.PageImportKeys:
		if m.wiz != nil {
			pageContent = styles.PanelStyle.Width(max(0, m.w-2)).Render(m.wizardBody())
			nav = m.wizardNav()
		}

	case config.PageUnlock:
		info := unlock.Info{Address: m.unlockAddress, ScanHeight: m.unlockHeight, Locked: m.locked}
		if m.locked && m.wallet != nil {
			info.Address = m.wallet.PrimaryAddress()
		}
		pageContent = styles.PanelStyle.Width(max(0, m.w-2)).Render(unlock.Render(m.unlockForm, info, m.unlockErr))
		nav = unlock.Nav(m.w-2, m.locked)

	case config.PageHome:
		if m.wallet != nil {
			txs := m.wallet.Transactions()
			pageContent = homeview.Render(m.w, homeview.Data{
				Address:      m.wallet.PrimaryAddress(),
				ScanHeight:   m.wallet.ScanHeight(),
				Info:         m.info,
				Connecting:   m.connecting,
				Spinner:      m.spin.View(),
				Copied:       m.copiedMsg,
				Transactions: m.txView.Visible(txs),
				Expanded:     m.txView.Expanded,
				HasMore:      m.txView.HasMore(txs),
				Cursor:       m.txCursor,
			})
		}
		nav = homeview.Nav(m.w - 2)

	case config.PageSettings:
		nodes := m.cfg.Config().Daemons
		content := settingsview.Render(nodes, m.generalRows(), m.selectedRow, m.connectionLabel())
		pageContent = styles.PanelStyle.Width(max(0, m.w-2)).Render(content)
		nav = settingsview.Nav(m.w-2, false, m.selectedRow < len(nodes))
	}

	// Forms replace the page body
	if m.form != nil {
		content := m.form.View()
		if t := m.formTitle(); t != "" {
			content = styles.TitleStyle.Render(t) + "\n\n" + content
		}
		pageContent = styles.PanelStyle.Width(max(0, m.w-2)).Render(content)
		nav = settingsview.Nav(m.w-2, true, false)
	}

	sections := []string{headerPanel, pageContent, nav}
	if m.logEnabled {
		// Keep viewport height in sync with the rendered panel
		m.logViewport.Height = logview.PanelHeight(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
