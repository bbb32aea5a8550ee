package config

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Manager owns the in-memory config and its file. Every change rewrites the
// whole file.
type Manager struct {
	path   string
	cfg    Config
	logger *log.Logger
}

// NewManager wraps an already loaded config.
func NewManager(path string, cfg Config, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{path: path, cfg: cfg, logger: logger}
}

// Path returns the config file location.
func (m *Manager) Path() string { return m.path }

// Config returns a copy of the current config.
func (m *Manager) Config() Config {
	c := m.cfg
	c.Daemons = append([]DaemonNode(nil), m.cfg.Daemons...)
	return c
}

// SetLogger replaces the logger once the shell's log panel exists.
func (m *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// Modify applies fn to the config and writes the result. On a write error
// the in-memory config keeps the change so the UI stays consistent with what
// the user did; the error is returned for the caller to report.
func (m *Manager) Modify(fn func(*Config)) error {
	before := m.cfg
	fn(&m.cfg)
	m.logger.Debug("config update", "from", summary(before), "to", summary(m.cfg))
	if err := Save(m.path, m.cfg); err != nil {
		m.logger.Error("failed to write config", "path", m.path, "err", err)
		return err
	}
	return nil
}

func summary(c Config) string {
	d, _ := c.ActiveDaemon()
	return fmt.Sprintf("dark=%t lock=%t/%gm logger=%t wallet=%q daemon=%s",
		c.DarkMode, c.AutoLockEnabled, c.AutoLockInterval, c.Logger, c.WalletFile, d.Address())
}
