package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/history"
	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

func newTestModel(t *testing.T, env config.Env) *model {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	mgr := config.NewManager(path, config.DefaultConfig(), log.New(io.Discard))
	m := newModel(appOptions{
		cfg:      mgr,
		env:      env,
		version:  "dev",
		logLevel: log.DebugLevel,
	})
	return &m
}

func setField(m *model, f wizard.Field, v string) {
	m.wizState = wizard.Reduce(m.wiz.Steps(), m.wizState, wizard.SetField{Field: f, Value: v})
}

func TestBackendAdapterReturnsUntypedNil(t *testing.T) {
	a := backendAdapter{b: newBackend(config.DaemonNode{Host: "127.0.0.1", Port: config.DefaultDaemonPort})}

	w, err := a.ImportFromSeed(0, "definitely not a mnemonic")
	require.Error(t, err)
	assert.True(t, w == nil, "error path must return a nil interface")

	w, err = a.ImportFromKeys(0, "zz", "zz")
	require.Error(t, err)
	assert.True(t, w == nil, "error path must return a nil interface")

	w, err = a.CreateWallet()
	require.NoError(t, err)
	assert.NotEmpty(t, w.PrimaryAddress())
}

func TestWithWalletExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/mine", "/tmp/mine" + wallet.FileExtension},
		{"/tmp/mine.wallet", "/tmp/mine.wallet"},
		{"/tmp/mine.dat", "/tmp/mine.dat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withWalletExt(tt.in), tt.in)
	}
}

func TestParsePort(t *testing.T) {
	p, err := parsePort(" 18128 ")
	require.NoError(t, err)
	assert.Equal(t, 18128, p)

	for _, bad := range []string{"", "0", "65536", "-1", "http"} {
		_, err := parsePort(bad)
		assert.Error(t, err, bad)
	}
}

func TestLastWalletName(t *testing.T) {
	assert.Equal(t, "", lastWalletName(""))
	assert.Equal(t, "main.wallet", lastWalletName("/home/u/main.wallet"))
	assert.Equal(t, "main.wallet", lastWalletName(`C:\Users\u\main.wallet`))
	assert.Equal(t, "main.wallet", lastWalletName("main.wallet"))
}

func TestCreateWizardEndToEnd(t *testing.T) {
	m := newTestModel(t, config.Env{})

	m.startWizard(wizard.FlowCreate)
	require.NotNil(t, m.wiz)
	assert.Equal(t, config.PageNewWallet, m.activePage)
	assert.Equal(t, wizard.StepGenerate, m.wizState.Step)
	require.NotNil(t, m.wizState.Artifact)
	address := m.wizState.Artifact.PrimaryAddress()

	m.handleWizardKey(enterKey)
	assert.Equal(t, wizard.StepSecure, m.wizState.Step)

	// mismatched passwords block without a dialog
	setField(m, wizard.FieldPassword, "hunter2")
	setField(m, wizard.FieldConfirmPassword, "hunter3")
	m.handleWizardKey(enterKey)
	assert.Equal(t, wizard.StepSecure, m.wizState.Step)
	assert.Empty(t, m.modals)

	setField(m, wizard.FieldConfirmPassword, "hunter2")
	m.handleWizardKey(enterKey)
	assert.Equal(t, wizard.StepBackup, m.wizState.Step)

	m.handleWizardKey(enterKey)
	assert.Equal(t, wizard.StepVerify, m.wizState.Step)

	seed, err := m.wizState.Artifact.MnemonicSeed()
	require.NoError(t, err)
	setField(m, wizard.FieldConfirmSeed, "  "+strings.ReplaceAll(seed, " ", "   ")+"\n")
	m.handleWizardKey(enterKey)
	assert.Empty(t, m.modals)
	assert.Equal(t, formSavePath, m.formKind)
	require.NotNil(t, m.form)

	base := filepath.Join(t.TempDir(), "mine")
	tempPath = base
	m.submitForm()

	want := base + wallet.FileExtension
	require.NotNil(t, m.wallet)
	assert.Equal(t, address, m.wallet.PrimaryAddress())
	assert.Equal(t, want, m.walletPath)
	assert.Equal(t, "hunter2", m.walletPassword)
	assert.Equal(t, config.PageHome, m.activePage)
	assert.Nil(t, m.wiz)
	assert.Equal(t, want, m.cfg.Config().WalletFile)

	_, err = os.Stat(want)
	require.NoError(t, err)
}

func TestWizardBackupShortcutAsksForPath(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.startWizard(wizard.FlowCreate)
	m.handleWizardKey(enterKey)
	setField(m, wizard.FieldPassword, "pw")
	setField(m, wizard.FieldConfirmPassword, "pw")
	m.handleWizardKey(enterKey)
	require.Equal(t, wizard.StepBackup, m.wizState.Step)

	cmd := m.handleWizardKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	assert.Nil(t, cmd, "nothing is written before a path is chosen")
	assert.Equal(t, formBackup, m.formKind)
	require.NotNil(t, m.form)
	assert.True(t, strings.HasSuffix(tempPath, "-backup.txt"))

	existing := filepath.Join(t.TempDir(), "old-backup.txt")
	require.NoError(t, os.WriteFile(existing, []byte("earlier wallet"), 0600))

	// cancelling leaves other files alone
	m.cancelForm()
	assert.Equal(t, formNone, m.formKind)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "earlier wallet", string(data))

	m.handleWizardKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	target := filepath.Join(t.TempDir(), "new-backup.txt")
	tempPath = target
	cmd = m.submitForm()
	require.NotNil(t, cmd)
	msg, ok := cmd().(fileWrittenMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, target, msg.path)

	seed, err := m.wizState.Artifact.MnemonicSeed()
	require.NoError(t, err)
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), seed)
	assert.Equal(t, wizard.StepBackup, m.wizState.Step)
}

func TestCreateWizardCancelledSaveStaysOnVerify(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.startWizard(wizard.FlowCreate)
	m.handleWizardKey(enterKey)
	setField(m, wizard.FieldPassword, "pw")
	setField(m, wizard.FieldConfirmPassword, "pw")
	m.handleWizardKey(enterKey)
	m.handleWizardKey(enterKey)

	seed, err := m.wizState.Artifact.MnemonicSeed()
	require.NoError(t, err)
	setField(m, wizard.FieldConfirmSeed, seed)
	m.handleWizardKey(enterKey)
	require.Equal(t, formSavePath, m.formKind)

	m.cancelForm()
	assert.Equal(t, wizard.StepVerify, m.wizState.Step)
	assert.Nil(t, m.wallet)
	assert.Empty(t, m.modals)
	assert.Equal(t, config.PageNewWallet, m.activePage)
}

func TestCreateWizardWrongSeedOpensDialog(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.startWizard(wizard.FlowCreate)
	m.handleWizardKey(enterKey)
	setField(m, wizard.FieldPassword, "pw")
	setField(m, wizard.FieldConfirmPassword, "pw")
	m.handleWizardKey(enterKey)
	m.handleWizardKey(enterKey)

	other, err := m.backend.Create()
	require.NoError(t, err)
	seed, err := other.MnemonicSeed()
	require.NoError(t, err)
	setField(m, wizard.FieldConfirmSeed, seed)
	m.handleWizardKey(enterKey)

	require.Len(t, m.modals, 1)
	assert.Equal(t, wizard.TitleCreationError, m.modals[0].Title)
	assert.Equal(t, wizard.StepVerify, m.wizState.Step)
	assert.Equal(t, formNone, m.formKind)
}

func TestImportWizardRejectsBadScanHeight(t *testing.T) {
	m := newTestModel(t, config.Env{})
	src, err := m.backend.Create()
	require.NoError(t, err)
	spend, view := src.PrivateKeys()

	m.startWizard(wizard.FlowImport)
	assert.Equal(t, config.PageImportKeys, m.activePage)
	setField(m, wizard.FieldSpendKey, spend)
	setField(m, wizard.FieldViewKey, view)
	setField(m, wizard.FieldScanHeight, "12a")
	m.handleWizardKey(enterKey)

	require.Len(t, m.modals, 1)
	assert.Equal(t, wizard.TitleImportError, m.modals[0].Title)
	assert.Equal(t, wizard.BodyScanHeightError, m.modals[0].Body)
	assert.Equal(t, wizard.StepEnterKeys, m.wizState.Step)

	// acknowledging the dialog keeps the typed values
	m.handleModalKey(enterKey)
	assert.Empty(t, m.modals)
	assert.Equal(t, "12a", m.wizState.Get(wizard.FieldScanHeight))

	setField(m, wizard.FieldScanHeight, "")
	m.handleWizardKey(enterKey)
	assert.Equal(t, wizard.StepVerify, m.wizState.Step)
	assert.Equal(t, src.PrimaryAddress(), m.wizState.Artifact.PrimaryAddress())
}

func TestWizardEscOnFirstStepCancels(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.startWizard(wizard.FlowImport)
	setField(m, wizard.FieldSpendKey, "abc")

	m.handleWizardKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.wiz)
	assert.Equal(t, config.PageWelcome, m.activePage)
	assert.Empty(t, m.wizState.Fields)
}

func TestDrainNotificationsOpensModalsInOrder(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.notes.OpenModal(notify.ErrorModal("first", "a"))
	m.notes.OpenModal(notify.ErrorModal("second", "b"))

	m.drainNotifications()
	require.Len(t, m.modals, 2)
	assert.Equal(t, "first", m.modals[0].Title)

	m.handleModalKey(enterKey)
	require.Len(t, m.modals, 1)
	assert.Equal(t, "second", m.modals[0].Title)
}

func TestRecordTransaction(t *testing.T) {
	m := newTestModel(t, config.Env{})
	w, err := m.backend.Create()
	require.NoError(t, err)
	m.wallet = w
	m.txCursor = 2
	before := m.txView.Displayed()

	tx := history.Transaction{Hash: "aa", Amount: 1500, Height: 10}
	m.recordTransaction(tx)
	assert.Len(t, m.wallet.Transactions(), 1)
	assert.Equal(t, 3, m.txCursor)
	assert.Equal(t, before+1, m.txView.Displayed())

	// duplicates are ignored
	m.recordTransaction(tx)
	assert.Len(t, m.wallet.Transactions(), 1)
	assert.Equal(t, 3, m.txCursor)
}

func TestMergeNodesSkipsKnownAddresses(t *testing.T) {
	m := newTestModel(t, config.Env{})
	before := len(m.cfg.Config().Daemons)

	m.mergeNodes([]daemon.PublicNode{
		{Name: "dup", URL: "API-BLOCK.cirquity.com", Port: 443, SSL: true},
		{Name: "new", URL: "node.example.org", Port: 18128},
		{Name: "new again", URL: "node.example.org", Port: 18128},
	})

	nodes := m.cfg.Config().Daemons
	require.Len(t, nodes, before+1)
	assert.Equal(t, "new", nodes[len(nodes)-1].Name)
	assert.False(t, nodes[len(nodes)-1].Active)
}

func TestDeleteActiveNodeActivatesFirstRemaining(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.showNodeDeleteDialog = true
	m.deleteNodeIdx = 0

	m.handleNodeDeleteKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	assert.False(t, m.showNodeDeleteDialog)
	nodes := m.cfg.Config().Daemons
	require.Len(t, nodes, 1)
	assert.Equal(t, "Local daemon", nodes[0].Name)
	assert.True(t, nodes[0].Active)
	assert.Equal(t, daemon.URL(nodes[0]), m.daemonURL)
	assert.True(t, m.connecting)
}

func TestNodeDeleteDialogDefaultsToNo(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.handleSettingsKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.True(t, m.showNodeDeleteDialog)

	m.handleNodeDeleteKey(enterKey)
	assert.False(t, m.showNodeDeleteDialog)
	assert.Len(t, m.cfg.Config().Daemons, 2)
}

func TestEnvDaemonOverridesUntilNodeActivated(t *testing.T) {
	m := newTestModel(t, config.Env{DaemonHost: "10.0.0.5", DaemonPort: 18128})

	node, ok := m.activeNode()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", node.Host)
	// not persisted
	for _, d := range m.cfg.Config().Daemons {
		assert.NotEqual(t, "10.0.0.5", d.Host)
	}

	m.activateNode(1)
	assert.False(t, m.envOverride)
	node, ok = m.activeNode()
	require.True(t, ok)
	assert.Equal(t, "Local daemon", node.Name)
}

func TestSettingsTogglesPersist(t *testing.T) {
	m := newTestModel(t, config.Env{})
	m.showSettings()
	nodes := len(m.cfg.Config().Daemons)

	was := m.cfg.Config().ScanCoinbaseTransactions
	m.selectedRow = nodes + rowScanCoinbase
	m.handleSettingsKey(enterKey)
	assert.Equal(t, !was, m.cfg.Config().ScanCoinbaseTransactions)

	reloaded, err := config.Load(m.cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, !was, reloaded.ScanCoinbaseTransactions)
}

func TestUnlockPageShowsFileDetails(t *testing.T) {
	m := newTestModel(t, config.Env{})
	src, err := m.backend.Create()
	require.NoError(t, err)
	seed, err := src.MnemonicSeed()
	require.NoError(t, err)
	w, err := m.backend.FromSeed(1200, seed)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "main"+wallet.FileExtension)
	require.NoError(t, w.SaveToFile(path, "pw"))

	m.showUnlock(path, false)
	assert.Equal(t, config.PageUnlock, m.activePage)
	assert.Equal(t, w.PrimaryAddress(), m.unlockAddress)
	assert.Equal(t, uint64(1200), m.unlockHeight)
	assert.Empty(t, m.unlockErr)
	assert.Nil(t, m.wallet, "nothing is decrypted before the password")

	m.showUnlock(filepath.Join(t.TempDir(), "missing"+wallet.FileExtension), false)
	assert.Empty(t, m.unlockAddress)
	assert.NotEmpty(t, m.unlockErr)
}
