package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Daemons, again.Daemons)
	assert.Equal(t, cfg.AutoLockInterval, again.AutoLockInterval)
}

func TestLoadOrCreateKeepsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	cfg, err := LoadOrCreate(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig().Daemons, cfg.Daemons)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestSaveUsesOriginalKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.WalletFile = "/tmp/main.wallet"
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"darkmode"`, `"autoLockEnabled"`, `"autoLockInterval"`, `"walletFile"`, `"scanCoinbaseTransactions"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestActiveDaemon(t *testing.T) {
	cfg := Config{Daemons: []DaemonNode{
		{Name: "a", Host: "a.example", Port: 1},
		{Name: "b", Host: "b.example", Port: 2, Active: true},
	}}
	d, ok := cfg.ActiveDaemon()
	require.True(t, ok)
	assert.Equal(t, "b.example:2", d.Address())

	cfg.Daemons[1].Active = false
	d, ok = cfg.ActiveDaemon()
	require.True(t, ok)
	assert.Equal(t, "a", d.Name)

	_, ok = Config{}.ActiveDaemon()
	assert.False(t, ok)
}

func TestManagerModify(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := NewManager(path, DefaultConfig(), log.New(os.Stderr))

	require.NoError(t, m.Modify(func(c *Config) {
		c.DarkMode = false
		c.WalletFile = "/w/main.wallet"
	}))
	assert.False(t, m.Config().DarkMode)

	onDisk, err := Load(path)
	require.NoError(t, err)
	assert.False(t, onDisk.DarkMode)
	assert.Equal(t, "/w/main.wallet", onDisk.WalletFile)
}

func TestManagerConfigIsCopy(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), FileName), DefaultConfig(), nil)
	c := m.Config()
	c.Daemons[0].Host = "changed"
	assert.NotEqual(t, "changed", m.Config().Daemons[0].Host)
}

func TestManagerModifyWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	// parent of the config path is a regular file
	m := NewManager(filepath.Join(blocker, FileName), DefaultConfig(), nil)
	err := m.Modify(func(c *Config) { c.Logger = true })
	assert.Error(t, err)
	assert.True(t, m.Config().Logger)
}

func TestEnv(t *testing.T) {
	t.Setenv("CIRQ_CONFIG_DIR", "/tmp/cirq")
	t.Setenv("CIRQ_DAEMON_HOST", "node.example")
	t.Setenv("CIRQ_DAEMON_SSL", "true")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 18128, e.DaemonPort)
	assert.Equal(t, "info", e.LogLevel)

	dir, err := e.Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cirq", dir)

	cfg := e.Apply(DefaultConfig())
	d, ok := cfg.ActiveDaemon()
	require.True(t, ok)
	assert.Equal(t, "node.example", d.Host)
	assert.True(t, d.SSL)
	assert.Len(t, cfg.Daemons, len(DefaultConfig().Daemons)+1)
	for _, n := range cfg.Daemons[1:] {
		assert.False(t, n.Active)
	}
}

func TestEnvBadPort(t *testing.T) {
	t.Setenv("CIRQ_DAEMON_PORT", "many")
	_, err := LoadEnv()
	assert.Error(t, err)
}
