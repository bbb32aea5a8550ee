package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cirquity-wallet-tui/notify"

	"github.com/charmbracelet/log"
)

// Artifact is a wallet session produced by the backend. The wizard owns it
// until SaveToFile succeeds; after that the shell does.
type Artifact interface {
	PrimaryAddress() string
	MnemonicSeed() (string, error)
	SaveToFile(path, password string) error
}

// Backend creates and restores wallets. For the import calls exactly one of
// the two return values is non-nil.
type Backend interface {
	CreateWallet() (Artifact, error)
	ImportFromSeed(scanHeight uint64, seed string) (Artifact, error)
	ImportFromKeys(scanHeight uint64, viewKey, spendKey string) (Artifact, error)
}

// PathChooser asks where a wallet should be written. ok is false when the
// user dismissed the chooser.
type PathChooser interface {
	ChooseSavePath() (path string, ok bool)
}

// PathChooserFunc adapts a function to PathChooser.
type PathChooserFunc func() (string, bool)

// ChooseSavePath implements PathChooser.
func (f PathChooserFunc) ChooseSavePath() (string, bool) { return f() }

// DefaultVerifyScanHeight is the height used when re-importing a freshly
// generated seed for verification. The wallet is thrown away afterwards so
// the value only needs to be valid.
const DefaultVerifyScanHeight = 100000

// Validation errors. None of them is returned for a state the user cannot fix
// by editing a field, retrying the save, or leaving the wizard.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrAddressMismatch  = errors.New("confirmation seed restores a different address")
	ErrBadScanHeight    = errors.New("scan height is not a whole number")
	ErrSaveFailed       = errors.New("wallet could not be saved")
	ErrUnknownStep      = errors.New("unknown wizard step")
	ErrNoArtifact       = errors.New("no wallet to work on")
	ErrFinished         = errors.New("wizard already finished")
)

// Dialog texts.
const (
	TitleVerificationError = "Seed verification failed"
	TitleCreationError     = "Wallet creation error"
	BodyCreationError      = "The seed you entered restores a different wallet than the one that was generated. Check every word and try again."
	TitleSaveError         = "Could not save wallet"
	BodySaveError          = "The wallet file could not be written. Pick another location and try again."
	TitleImportError       = "Could not restore wallet"
	BodyScanHeightError    = "The scan height must be a whole, non-negative block number. Leave it empty to scan from the start."
)

// Outcome says what a transition did.
type Outcome int

const (
	// Blocked: nothing happened and nothing is shown beyond inline state.
	Blocked Outcome = iota
	// Advanced: the step moved forward by one.
	Advanced
	// AwaitingSavePath: the terminal step validated; ask for a path and
	// call Save.
	AwaitingSavePath
	// Cancelled: the save-path prompt was dismissed.
	Cancelled
	// Failed: a dialog was opened and the step did not change.
	Failed
	// Completed: the wallet was written and handed to the shell.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Blocked:
		return "blocked"
	case Advanced:
		return "advanced"
	case AwaitingSavePath:
		return "awaiting-save-path"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Result is the return of every controller transition. Err carries the
// validation error, if any, for callers that want it; the user has already
// been told through the notifier when that was appropriate.
type Result struct {
	State   State
	Outcome Outcome
	Err     error
}

// Controller validates each "next" of one flow and performs its side effects.
type Controller struct {
	kind     Kind
	steps    Steps
	backend  Backend
	notifier notify.Notifier
	logger   *log.Logger

	verifyScanHeight uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics and programmer errors.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVerifyScanHeight overrides DefaultVerifyScanHeight.
func WithVerifyScanHeight(h uint64) Option {
	return func(c *Controller) { c.verifyScanHeight = h }
}

// NewCreateController returns the controller for the new-wallet flow.
func NewCreateController(b Backend, n notify.Notifier, opts ...Option) *Controller {
	return newController(FlowCreate, b, n, opts...)
}

// NewImportController returns the controller for the import-keys flow.
func NewImportController(b Backend, n notify.Notifier, opts ...Option) *Controller {
	return newController(FlowImport, b, n, opts...)
}

func newController(kind Kind, b Backend, n notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		kind:             kind,
		steps:            kind.Steps(),
		backend:          b,
		notifier:         n,
		logger:           log.Default(),
		verifyScanHeight: DefaultVerifyScanHeight,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Kind returns the flow this controller drives.
func (c *Controller) Kind() Kind { return c.kind }

// Steps returns the flow's step list.
func (c *Controller) Steps() Steps { return c.steps }

// Start returns the opening state. The create flow generates its wallet here
// so the first page can show the new address.
func (c *Controller) Start() (State, error) {
	s := NewState(c.kind)
	if c.kind != FlowCreate {
		return s, nil
	}
	w, err := c.backend.CreateWallet()
	if err != nil {
		return s, fmt.Errorf("create wallet: %w", err)
	}
	s.Artifact = w
	c.logger.Debug("generated wallet", "address", w.PrimaryAddress())
	return s, nil
}

// Back retreats one step. It is a no-op on the first step.
func (c *Controller) Back(s State) State {
	if s.Done {
		return s
	}
	if _, ok := c.steps.Ordinal(s.Step); !ok {
		c.programmerError(s.Step)
		return s
	}
	return Retreat(c.steps, s)
}

// TryAdvance validates the current step and moves on, or reports why not.
func (c *Controller) TryAdvance(s State) Result {
	if s.Done {
		return Result{State: s, Outcome: Blocked, Err: ErrFinished}
	}
	if _, ok := c.steps.Ordinal(s.Step); !ok {
		c.programmerError(s.Step)
		return Result{State: s, Outcome: Blocked, Err: ErrUnknownStep}
	}

	switch c.kind {
	case FlowImport:
		return c.advanceImport(s)
	default:
		return c.advanceCreate(s)
	}
}

func (c *Controller) advanceCreate(s State) Result {
	switch s.Step {
	case StepSecure:
		if !s.PasswordsMatch() {
			return Result{State: s, Outcome: Blocked, Err: ErrPasswordMismatch}
		}
	case StepVerify:
		return c.verifySeed(s)
	}
	return c.next(s)
}

// verifySeed restores the typed seed and compares the address with the
// generated wallet. A malformed seed shows the backend's own message; a
// well-formed but different seed shows a generic one.
func (c *Controller) verifySeed(s State) Result {
	if s.Artifact == nil {
		c.logger.Error("verify step reached without a generated wallet")
		return Result{State: s, Outcome: Blocked, Err: ErrNoArtifact}
	}

	seed := normalizeSeed(s.Get(FieldConfirmSeed))
	restored, err := c.backend.ImportFromSeed(c.verifyScanHeight, seed)
	if err != nil {
		c.logger.Error("seed verification failed", "err", err)
		c.notifier.OpenModal(notify.ErrorModal(TitleVerificationError, UserMessage(err)))
		return Result{State: s, Outcome: Failed, Err: err}
	}

	if restored.PrimaryAddress() != s.Artifact.PrimaryAddress() {
		c.logger.Error("wallet creation error", "err", ErrAddressMismatch)
		c.notifier.OpenModal(notify.ErrorModal(TitleCreationError, BodyCreationError))
		return Result{State: s, Outcome: Failed, Err: ErrAddressMismatch}
	}

	return Result{State: s, Outcome: AwaitingSavePath}
}

func (c *Controller) advanceImport(s State) Result {
	switch s.Step {
	case StepEnterKeys:
		return c.importKeys(s)
	case StepSecure:
		if !s.PasswordsMatch() {
			return Result{State: s, Outcome: Blocked, Err: ErrPasswordMismatch}
		}
		if s.Artifact == nil {
			c.logger.Error("secure step reached without an imported wallet")
			return Result{State: s, Outcome: Blocked, Err: ErrNoArtifact}
		}
		return Result{State: s, Outcome: AwaitingSavePath}
	}
	return c.next(s)
}

// importKeys runs on leaving the first import step, not the last, so a bad
// key is reported before the user picks a password.
func (c *Controller) importKeys(s State) Result {
	height, err := ParseScanHeight(s.Get(FieldScanHeight))
	if err != nil {
		c.logger.Warn("rejected scan height", "value", s.Get(FieldScanHeight))
		c.notifier.OpenModal(notify.ErrorModal(TitleImportError, BodyScanHeightError))
		return Result{State: s, Outcome: Failed, Err: err}
	}

	restored, err := c.backend.ImportFromKeys(height,
		strings.TrimSpace(s.Get(FieldViewKey)),
		strings.TrimSpace(s.Get(FieldSpendKey)))
	if err != nil {
		c.logger.Error("key import failed", "err", err)
		c.notifier.OpenModal(notify.ErrorModal(TitleImportError, UserMessage(err)))
		return Result{State: s, Outcome: Failed, Err: err}
	}

	s.Artifact = restored
	c.logger.Info("restored wallet from keys", "address", restored.PrimaryAddress(), "scanHeight", height)
	return c.next(s)
}

// Save is the second half of a persisting step. ok=false is the chooser's
// cancellation sentinel: nothing is written and nothing is shown.
func (c *Controller) Save(s State, path string, ok bool) Result {
	if s.Done {
		return Result{State: s, Outcome: Blocked, Err: ErrFinished}
	}
	if !ok || path == "" {
		c.logger.Debug("save cancelled", "flow", c.kind)
		return Result{State: s, Outcome: Cancelled}
	}
	if !c.steps.IsLast(s.Step) {
		c.logger.Error("save requested before the terminal step", "flow", c.kind, "step", s.Step)
		return Result{State: s, Outcome: Blocked, Err: ErrUnknownStep}
	}
	if s.Artifact == nil {
		c.logger.Error("save requested without a wallet", "flow", c.kind)
		return Result{State: s, Outcome: Blocked, Err: ErrNoArtifact}
	}

	if err := s.Artifact.SaveToFile(path, s.Get(FieldPassword)); err != nil {
		c.logger.Error("failed to save wallet", "path", path, "err", err)
		c.notifier.OpenModal(notify.ErrorModal(TitleSaveError, BodySaveError))
		return Result{State: s, Outcome: Failed, Err: fmt.Errorf("%w: %v", ErrSaveFailed, err)}
	}

	c.logger.Info("wallet saved", "path", path)
	s.Done = true
	s.SavedPath = path
	c.notifier.ReInitWallet(path)
	return Result{State: s, Outcome: Completed}
}

// Finish runs TryAdvance and, when the terminal step asks for a path, the
// chooser and Save, all synchronously. Headless callers use it.
func (c *Controller) Finish(s State, chooser PathChooser) Result {
	r := c.TryAdvance(s)
	if r.Outcome != AwaitingSavePath {
		return r
	}
	path, ok := chooser.ChooseSavePath()
	return c.Save(r.State, path, ok)
}

func (c *Controller) next(s State) Result {
	before := s.Step
	s = Advance(c.steps, s)
	if s.Step == before {
		return Result{State: s, Outcome: Blocked}
	}
	c.logger.Debug("wizard step", "flow", c.kind, "from", before, "to", s.Step)
	return Result{State: s, Outcome: Advanced}
}

func (c *Controller) programmerError(step Step) {
	c.logger.Error("programmer error: unknown wizard step", "flow", c.kind, "step", step)
}

// ParseScanHeight reads the optional scan-height field. Empty means zero.
func ParseScanHeight(v string) (uint64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	h, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadScanHeight, v)
	}
	return h, nil
}

// UserMessage returns the text a backend error wants shown to the user.
func UserMessage(err error) string {
	var um interface{ CustomMessage() string }
	if errors.As(err, &um) {
		return um.CustomMessage()
	}
	return err.Error()
}

func normalizeSeed(seed string) string {
	return strings.Join(strings.Fields(seed), " ")
}
