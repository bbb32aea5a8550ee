package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cirquity-wallet-tui/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// -------------------- MAIN --------------------

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	configDir string
	logLevel  string
}

var rootCmd = &cobra.Command{
	Use:     "cirquity-wallet",
	Short:   "Terminal wallet for Cirquity",
	Version: version,
	Long: `cirquity-wallet creates, restores and opens Cirquity wallets in the terminal.

Without a subcommand it starts the full-screen interface. Settings are read
from config.json in the config directory and from CIRQ_* environment variables.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configDir, "config-dir", "", "Config directory (default: from CIRQ_CONFIG_DIR or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from CIRQ_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is what every command needs before it can run
type session struct {
	env      config.Env
	cfg      *config.Manager
	logLevel log.Level
	logFile  *os.File
	logger   *log.Logger
}

func (s *session) Close() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

// loadSession resolves environment, flags and the config file. A broken
// config file is reported and replaced by defaults in memory.
func loadSession(stderr io.Writer) (*session, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if rootFlags.configDir != "" {
		env.ConfigDir = rootFlags.configDir
	}
	if rootFlags.logLevel != "" {
		env.LogLevel = rootFlags.logLevel
	}

	level, err := parseLogLevel(env.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", env.LogLevel, err)
	}

	s := &session{env: env, logLevel: level}
	var out io.Writer = stderr
	if env.LogFile != "" {
		f, err := os.OpenFile(env.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.logFile = f
		out = io.MultiWriter(stderr, f)
	}
	s.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "cirquity",
	})

	dir, err := env.Dir()
	if err != nil {
		s.Close()
		return nil, err
	}
	path := filepath.Join(dir, config.FileName)
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		s.logger.Warn("using default config", "path", path, "err", err)
	}
	s.cfg = config.NewManager(path, cfg, s.logger)
	return s, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := loadSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	var logFile io.Writer
	if s.logFile != nil {
		logFile = s.logFile
	}
	m := newModel(appOptions{
		cfg:      s.cfg,
		env:      s.env,
		version:  version,
		logLevel: s.logLevel,
		logFile:  logFile,
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
