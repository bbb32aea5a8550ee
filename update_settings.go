package main

import (
	"fmt"
	"strconv"
	"strings"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/menu"
	settingsview "cirquity-wallet-tui/views/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// -------------------- SETTINGS --------------------

// general settings rows, after the node list
const (
	rowDarkMode = iota
	rowAutoLock
	rowLockInterval
	rowLogger
	rowScanCoinbase
	rowCheckUpdates
	rowRescan
	rowFetchNodes
	rowCount
)

func (m *model) showSettings() {
	if m.activePage != config.PageSettings {
		m.returnPage = m.activePage
	}
	m.activePage = config.PageSettings
	m.selectedRow = 0
}

// generalRows describes the non-node settings for the view
func (m model) generalRows() []settingsview.Row {
	cfg := m.cfg.Config()
	rescan := "open a wallet first"
	if m.wallet != nil {
		rescan = fmt.Sprintf("from block %d", m.wallet.ScanHeight())
	}
	rows := make([]settingsview.Row, rowCount)
	rows[rowDarkMode] = settingsview.Row{Label: "Dark mode", Value: settingsview.OnOff(cfg.DarkMode)}
	rows[rowAutoLock] = settingsview.Row{Label: "Auto-lock", Value: settingsview.OnOff(cfg.AutoLockEnabled)}
	rows[rowLockInterval] = settingsview.Row{Label: "Auto-lock interval", Value: strconv.FormatFloat(cfg.AutoLockInterval, 'f', -1, 64) + " min"}
	rows[rowLogger] = settingsview.Row{Label: "Log panel", Value: settingsview.OnOff(m.logEnabled)}
	rows[rowScanCoinbase] = settingsview.Row{Label: "Scan coinbase transactions", Value: settingsview.OnOff(cfg.ScanCoinbaseTransactions)}
	rows[rowCheckUpdates] = settingsview.Row{Label: "Check for updates", Value: settingsview.OnOff(cfg.CheckForUpdates)}
	rows[rowRescan] = settingsview.Row{Label: "Rescan wallet", Value: rescan}
	rows[rowFetchNodes] = settingsview.Row{Label: "Fetch public node list", Value: "adds nodes that are not configured yet"}
	return rows
}

func (m *model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	nodes := m.cfg.Config().Daemons
	total := len(nodes) + rowCount
	onNode := m.selectedRow < len(nodes)

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < total-1 {
			m.selectedRow++
		}
	case "a":
		m.createNodeForm(formNodeAdd, -1)
	case "e":
		if onNode {
			m.createNodeForm(formNodeEdit, m.selectedRow)
		}
	case "d", "delete", "backspace":
		if onNode {
			m.showNodeDeleteDialog = true
			m.deleteNodeIdx = m.selectedRow
			m.deleteNodeYesSelected = false
		}
	case "f":
		m.addLog("info", "Fetching public node list")
		return fetchNodes()
	case "enter", " ":
		if onNode {
			return m.activateNode(m.selectedRow)
		}
		return m.changeGeneral(m.selectedRow - len(nodes))
	case "esc", "h":
		m.activePage = m.returnPage
		if m.activePage == config.PageSettings || (m.activePage == config.PageHome && m.wallet == nil) {
			m.activePage = config.PageWelcome
		}
	}
	return nil
}

func (m *model) changeGeneral(row int) tea.Cmd {
	var err error
	switch row {
	case rowDarkMode:
		m.toggleDarkMode()
	case rowAutoLock:
		err = m.cfg.Modify(func(c *config.Config) { c.AutoLockEnabled = !c.AutoLockEnabled })
	case rowLockInterval:
		m.createLockIntervalForm()
	case rowLogger:
		return m.toggleLog()
	case rowScanCoinbase:
		err = m.cfg.Modify(func(c *config.Config) { c.ScanCoinbaseTransactions = !c.ScanCoinbaseTransactions })
	case rowCheckUpdates:
		err = m.cfg.Modify(func(c *config.Config) { c.CheckForUpdates = !c.CheckForUpdates })
	case rowRescan:
		return m.runMenuAction(menu.ActionRescan)
	case rowFetchNodes:
		m.addLog("info", "Fetching public node list")
		return fetchNodes()
	}
	if err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	return nil
}

// activateNode makes node idx the active daemon and reconnects
func (m *model) activateNode(idx int) tea.Cmd {
	nodes := m.cfg.Config().Daemons
	if idx < 0 || idx >= len(nodes) {
		return nil
	}
	if err := m.cfg.Modify(func(c *config.Config) {
		for i := range c.Daemons {
			c.Daemons[i].Active = i == idx
		}
	}); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	m.envOverride = false
	m.addLog("success", fmt.Sprintf("Activated daemon: `%s`", nodes[idx].Name))
	return m.reconnect()
}

// reconnect drops the current daemon connection and dials the active node
func (m *model) reconnect() tea.Cmd {
	node, ok := m.activeNode()
	if m.daemonClient != nil {
		m.daemonClient.Close()
		m.daemonClient = nil
	}
	m.info = daemon.Info{}
	if !ok {
		m.daemonURL = ""
		m.connecting = false
		return nil
	}
	m.backend = newBackend(node)
	m.daemonURL = daemon.URL(node)
	m.connecting = true
	return connectDaemon(m.daemonURL)
}

func (m *model) saveNodeForm(kind formKind) tea.Cmd {
	name := strings.TrimSpace(tempNodeName)
	host := strings.TrimSpace(tempNodeHost)
	port, err := parsePort(tempNodePort)
	if name == "" || host == "" || err != nil {
		m.addLog("warning", "Node needs a name, a host and a valid port")
		return nil
	}
	node := config.DaemonNode{Name: name, Host: host, Port: port, SSL: tempNodeSSL}

	reconnect := false
	err = m.cfg.Modify(func(c *config.Config) {
		if kind == formNodeAdd {
			c.Daemons = append(c.Daemons, node)
			return
		}
		if m.selectedRow >= 0 && m.selectedRow < len(c.Daemons) {
			node.Active = c.Daemons[m.selectedRow].Active
			reconnect = node.Active
			c.Daemons[m.selectedRow] = node
		}
	})
	if err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}

	if kind == formNodeAdd {
		m.addLog("success", fmt.Sprintf("Added daemon: `%s` (%s)", name, node.Address()))
	} else {
		m.addLog("success", fmt.Sprintf("Updated daemon: `%s`", name))
	}
	if reconnect {
		return m.reconnect()
	}
	return nil
}

// mergeNodes adds public nodes that are not configured yet
func (m *model) mergeNodes(nodes []daemon.PublicNode) {
	added := 0
	err := m.cfg.Modify(func(c *config.Config) {
		known := make(map[string]bool, len(c.Daemons))
		for _, d := range c.Daemons {
			known[strings.ToLower(d.Address())] = true
		}
		for _, n := range nodes {
			d := n.DaemonNode()
			if known[strings.ToLower(d.Address())] {
				continue
			}
			known[strings.ToLower(d.Address())] = true
			c.Daemons = append(c.Daemons, d)
			added++
		}
	})
	if err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	m.addLog("success", fmt.Sprintf("Fetched %d public nodes, %d new", len(nodes), added))
}

func (m *model) handleNodeDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "right", "h", "l", "tab":
		m.deleteNodeYesSelected = !m.deleteNodeYesSelected
	case "y":
		return m.deleteNode()
	case "n", "esc":
		m.showNodeDeleteDialog = false
	case "enter":
		if m.deleteNodeYesSelected {
			return m.deleteNode()
		}
		m.showNodeDeleteDialog = false
	}
	return nil
}

func (m *model) deleteNode() tea.Cmd {
	m.showNodeDeleteDialog = false
	nodes := m.cfg.Config().Daemons
	idx := m.deleteNodeIdx
	if idx < 0 || idx >= len(nodes) {
		return nil
	}
	wasActive := nodes[idx].Active

	err := m.cfg.Modify(func(c *config.Config) {
		c.Daemons = append(c.Daemons[:idx], c.Daemons[idx+1:]...)
		if wasActive && len(c.Daemons) > 0 {
			c.Daemons[0].Active = true
		}
	})
	if err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
	m.addLog("success", fmt.Sprintf("Deleted daemon: `%s`", nodes[idx].Name))

	if m.selectedRow >= len(nodes)-1 && m.selectedRow > 0 {
		m.selectedRow--
	}
	if wasActive {
		return m.reconnect()
	}
	return nil
}

// connectionLabel is shown next to the active node
func (m model) connectionLabel() string {
	switch {
	case m.connecting:
		return lipgloss.NewStyle().Foreground(m.statusColor()).Render("connecting…")
	case m.daemonClient != nil:
		return lipgloss.NewStyle().Foreground(m.statusColor()).Render("connected")
	default:
		return lipgloss.NewStyle().Foreground(m.statusColor()).Render("offline")
	}
}
