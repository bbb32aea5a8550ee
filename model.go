package main

import (
	"io"
	"runtime"
	"strings"
	"time"

	"cirquity-wallet-tui/config"
	"cirquity-wallet-tui/daemon"
	"cirquity-wallet-tui/history"
	"cirquity-wallet-tui/menu"
	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/styles"
	"cirquity-wallet-tui/updater"
	"cirquity-wallet-tui/views/welcome"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// formKind says what the shared huh form is collecting
type formKind string

const (
	formNone         formKind = ""
	formOpen         formKind = "open"
	formSavePath     formKind = "save-path"
	formSaveCopy     formKind = "save-copy"
	formPassword     formKind = "password"
	formBackup       formKind = "backup"
	formExport       formKind = "export"
	formRescan       formKind = "rescan"
	formLockInterval formKind = "lock-interval"
	formNodeAdd      formKind = "node-add"
	formNodeEdit     formKind = "node-edit"
	formMenu         formKind = "menu"
)

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	// page to return to when settings or a cancelled wizard closes
	returnPage config.Page

	cfg         *config.Manager
	env         config.Env
	envOverride bool
	version     string
	menus       []menu.Menu
	checker     *updater.Checker

	// wallet session
	backend        *wallet.Backend
	wallet         *wallet.Wallet
	walletPath     string
	walletPassword string
	notes          *notify.Queue

	// welcome / unlock
	welcomeForm *huh.Form
	unlockForm  *huh.Form
	unlockPath  string
	unlockErr   string
	locked      bool

	// read from the file before it is decrypted
	unlockAddress string
	unlockHeight  uint64

	// wizard page
	wiz            *wizard.Controller
	wizState       wizard.State
	inputs         map[wizard.Field]textinput.Model
	seedInput      textarea.Model
	wizFocus       int
	showPassword   bool
	wizardFeedback string

	// shared form (paths, node editor, menu picker, ...)
	form     *huh.Form
	formKind formKind

	// daemon
	spin         spinner.Model
	daemonURL    string
	daemonClient *daemon.Client
	connecting   bool
	info         daemon.Info

	// home
	txView   *history.View
	txCursor int

	// clipboard feedback
	copiedMsg string

	// settings
	selectedRow           int
	showNodeDeleteDialog  bool
	deleteNodeIdx         int
	deleteNodeYesSelected bool

	// modal dialogs, first one is on screen
	modals               []notify.Modal
	modalPrimarySelected bool

	// auto-lock
	lastInput time.Time

	// newer release, if any
	update *updater.Release

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// appOptions are the start-up inputs resolved by the CLI
type appOptions struct {
	cfg      *config.Manager
	env      config.Env
	version  string
	logLevel log.Level
	// extra log destination, e.g. CIRQ_LOG_FILE
	logFile io.Writer
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model from the loaded configuration
func newModel(opts appOptions) model {
	cfg := opts.cfg.Config()
	styles.Apply(cfg.DarkMode)

	logBuffer := &strings.Builder{}
	var out io.Writer = logBuffer
	if opts.logFile != nil {
		out = io.MultiWriter(logBuffer, opts.logFile)
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           opts.logLevel,
	})
	opts.cfg.SetLogger(logger)

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // resized on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	checkerURL := config.UpdateURL
	if opts.env.UpdateURL != "" {
		checkerURL = opts.env.UpdateURL
	}

	m := model{
		activePage:  config.PageWelcome,
		returnPage:  config.PageWelcome,
		cfg:         opts.cfg,
		env:         opts.env,
		envOverride: opts.env.DaemonHost != "",
		version:     opts.version,
		menus:       menu.Build(runtime.GOOS, opts.version),
		checker:     updater.New(checkerURL, opts.version, logger),
		notes:       &notify.Queue{},
		inputs:      newWizardInputs(),
		seedInput:   newSeedInput(),
		spin:        sp,
		txView:      history.New(history.DefaultPageSize),
		logEnabled:  cfg.Logger,
		logger:      logger,
		logBuffer:   logBuffer,
		logViewport: vp,
		logSpinner:  logSpin,
		lastInput:   time.Now(),
	}

	node, _ := m.activeNode()
	m.backend = newBackend(node)
	m.daemonURL = daemon.URL(node)
	m.connecting = true
	m.welcomeForm = welcome.CreateForm(lastWalletName(cfg.WalletFile))
	return m
}

// newWizardInputs builds the single-line wizard fields
func newWizardInputs() map[wizard.Field]textinput.Model {
	mk := func(prompt, placeholder string, limit int, secret bool) textinput.Model {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = placeholder
		in.PromptStyle = promptStyle()
		in.TextStyle = textStyle()
		in.Cursor.Style = cursorStyle()
		in.CharLimit = limit
		in.Width = 64
		if secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		return in
	}
	return map[wizard.Field]textinput.Model{
		wizard.FieldPassword:        mk("› ", "password", 256, true),
		wizard.FieldConfirmPassword: mk("› ", "password again", 256, true),
		wizard.FieldSpendKey:        mk("› ", "64 hex characters", 64, false),
		wizard.FieldViewKey:         mk("› ", "64 hex characters", 64, false),
		wizard.FieldScanHeight:      mk("› ", "0", 20, false),
	}
}

// newSeedInput builds the seed confirmation area. Enter advances the
// wizard, so it never inserts a newline.
func newSeedInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "word1 word2 word3 …"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1024
	ta.SetWidth(72)
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	return ta
}

// lastWalletName is the file name offered on the welcome page
func lastWalletName(path string) string {
	if path == "" {
		return ""
	}
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// activeNode returns the daemon to use: the environment override until the
// user picks a node, otherwise the configured active node.
func (m model) activeNode() (config.DaemonNode, bool) {
	cfg := m.cfg.Config()
	if m.envOverride {
		cfg = m.env.Apply(cfg)
	}
	return cfg.ActiveDaemon()
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, scheduleInfo(), scheduleLockCheck()}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.daemonURL != "" {
		cmds = append(cmds, connectDaemon(m.daemonURL))
	}
	cfg := m.cfg.Config()
	if cfg.CheckForUpdates && m.version != updater.DevVersion && time.Since(cfg.LastVersionCheck) > 24*time.Hour {
		cmds = append(cmds, checkUpdate(m.checker))
	}
	return tea.Batch(cmds...)
}
