package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cirquity-wallet-tui/notify"
	"cirquity-wallet-tui/wallet"
	"cirquity-wallet-tui/wizard"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// -------------------- CLI --------------------

var restoreFlags struct {
	viewKey    string
	spendKey   string
	scanHeight string
	out        string
}

var restoreKeysCmd = &cobra.Command{
	Use:   "restore-keys",
	Short: "Restore a wallet from its private view and spend keys",
	Long: `Restore a wallet from its private keys without starting the interface.

The password is read from the terminal without echo. Transactions below
--scan-height are not scanned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRestore(cmd, restoreFlags.spendKey, restoreFlags.viewKey)
	},
}

var restoreSeedCmd = &cobra.Command{
	Use:   "restore-seed",
	Short: "Restore a wallet from its mnemonic seed (read from stdin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprint(cmd.ErrOrStderr(), "Enter mnemonic seed: ")
		seed, err := readLine(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
		height, err := wizard.ParseScanHeight(restoreFlags.scanHeight)
		if err != nil {
			return err
		}

		s, err := loadSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		b := sessionBackend(s)
		w, err := b.FromSeed(height, seed)
		if err != nil {
			return errors.New(wizard.UserMessage(err))
		}
		spend, view := w.PrivateKeys()
		return restoreWith(cmd, s, seededBackend{backendAdapter: backendAdapter{b: b}, restored: w}, spend, view)
	},
}

func init() {
	restoreKeysCmd.Flags().StringVar(&restoreFlags.viewKey, "view-key", "", "Private view key (hex)")
	restoreKeysCmd.Flags().StringVar(&restoreFlags.spendKey, "spend-key", "", "Private spend key (hex)")
	_ = restoreKeysCmd.MarkFlagRequired("view-key")
	_ = restoreKeysCmd.MarkFlagRequired("spend-key")

	for _, c := range []*cobra.Command{restoreKeysCmd, restoreSeedCmd} {
		c.Flags().StringVar(&restoreFlags.scanHeight, "scan-height", "", "Block height to start scanning from (default: 0)")
		c.Flags().StringVar(&restoreFlags.out, "out", "", "Wallet file to write (default: cirquity"+wallet.FileExtension+" in the current directory)")
	}

	rootCmd.AddCommand(restoreKeysCmd, restoreSeedCmd)
}

func runRestore(cmd *cobra.Command, spendKey, viewKey string) error {
	s, err := loadSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()
	return restoreWith(cmd, s, backendAdapter{b: sessionBackend(s)}, spendKey, viewKey)
}

// sessionBackend returns a backend for the daemon the session points at
func sessionBackend(s *session) *wallet.Backend {
	node, _ := s.env.Apply(s.cfg.Config()).ActiveDaemon()
	return newBackend(node)
}

// seededBackend hands back a wallet already restored from its mnemonic when
// the import flow asks for the same keys, so the seed is not lost.
type seededBackend struct {
	backendAdapter
	restored *wallet.Wallet
}

func (b seededBackend) ImportFromKeys(scanHeight uint64, viewKey, spendKey string) (wizard.Artifact, error) {
	spend, view := b.restored.PrivateKeys()
	if spend == spendKey && view == viewKey && scanHeight == b.restored.ScanHeight() {
		return b.restored, nil
	}
	return b.backendAdapter.ImportFromKeys(scanHeight, viewKey, spendKey)
}

// restoreRequest is what a headless restore writes
type restoreRequest struct {
	spendKey   string
	viewKey    string
	scanHeight string
	out        string
}

// restoreWith runs the import wizard headlessly, prompting for the password
// on the terminal.
func restoreWith(cmd *cobra.Command, s *session, backend wizard.Backend, spendKey, viewKey string) error {
	req := restoreRequest{
		spendKey:   spendKey,
		viewKey:    viewKey,
		scanHeight: restoreFlags.scanHeight,
		out:        restoreFlags.out,
	}
	passwords := func() (string, string, error) {
		pw, err := promptPassword(cmd.ErrOrStderr(), "Wallet password: ")
		if err != nil {
			return "", "", err
		}
		confirm, err := promptPassword(cmd.ErrOrStderr(), "Confirm password: ")
		return pw, confirm, err
	}
	_, err := runImport(backend, s.logger, req, passwords, cmd.OutOrStdout())
	return err
}

// runImport drives the import controller from keys to a saved file
func runImport(backend wizard.Backend, logger *log.Logger, req restoreRequest,
	passwords func() (string, string, error), stdout io.Writer) (wizard.State, error) {
	notes := &notify.Queue{}
	c := wizard.NewImportController(backend, notes, wizard.WithLogger(logger))

	st, err := c.Start()
	if err != nil {
		return st, err
	}
	st = st.With(wizard.FieldSpendKey, req.spendKey).
		With(wizard.FieldViewKey, req.viewKey).
		With(wizard.FieldScanHeight, req.scanHeight)

	// keys -> verify
	r := c.TryAdvance(st)
	if r.Outcome != wizard.Advanced {
		return r.State, modalError(notes, r)
	}
	fmt.Fprintln(stdout, "Restored address:", r.State.Artifact.PrimaryAddress())

	// verify -> secure
	r = c.TryAdvance(r.State)
	if r.Outcome != wizard.Advanced {
		return r.State, modalError(notes, r)
	}

	pw, confirm, err := passwords()
	if err != nil {
		return r.State, err
	}
	st = r.State.With(wizard.FieldPassword, pw).With(wizard.FieldConfirmPassword, confirm)

	out := req.out
	if out == "" {
		out = "cirquity" + wallet.FileExtension
	}
	r = c.Finish(st, wizard.PathChooserFunc(func() (string, bool) { return out, true }))
	if r.Outcome != wizard.Completed {
		return r.State, modalError(notes, r)
	}
	fmt.Fprintln(stdout, "Wallet written to", r.State.SavedPath)
	return r.State, nil
}

// modalError turns the dialogs a controller queued into a command error
func modalError(notes *notify.Queue, r wizard.Result) error {
	if modals := notes.Modals(); len(modals) > 0 {
		parts := make([]string, 0, len(modals))
		for _, m := range modals {
			parts = append(parts, m.Title+": "+m.Body)
		}
		return errors.New(strings.Join(parts, "; "))
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("restore stopped at step %s (%s)", r.State.Step, r.Outcome)
}

func promptPassword(w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal: run the command interactively to enter a password")
	}
	fmt.Fprint(w, prompt)
	defer fmt.Fprintln(w)

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parseLogLevel accepts a level name or a number
func parseLogLevel(s string) (log.Level, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return log.Level(n), nil
	}
	return log.ParseLevel(s)
}
