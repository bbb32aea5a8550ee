package wizard

import (
	"errors"
	"io"
	"testing"

	"cirquity-wallet-tui/notify"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArtifact struct {
	address string
	seed    string
	saveErr error
	saves   []string
}

func (a *fakeArtifact) PrimaryAddress() string { return a.address }

func (a *fakeArtifact) MnemonicSeed() (string, error) {
	if a.seed == "" {
		return "", errors.New("no seed")
	}
	return a.seed, nil
}

func (a *fakeArtifact) SaveToFile(path, password string) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	a.saves = append(a.saves, path+"|"+password)
	return nil
}

type libError struct{ msg string }

func (e libError) Error() string         { return "backend: " + e.msg }
func (e libError) CustomMessage() string { return e.msg }

type fakeBackend struct {
	created *fakeArtifact
	seeds   map[string]string // seed -> address
	keysErr error
	keyCall int
}

func (b *fakeBackend) CreateWallet() (Artifact, error) { return b.created, nil }

func (b *fakeBackend) ImportFromSeed(_ uint64, seed string) (Artifact, error) {
	addr, ok := b.seeds[seed]
	if !ok {
		return nil, libError{msg: "invalid mnemonic"}
	}
	return &fakeArtifact{address: addr, seed: seed}, nil
}

func (b *fakeBackend) ImportFromKeys(_ uint64, viewKey, spendKey string) (Artifact, error) {
	b.keyCall++
	if b.keysErr != nil {
		return nil, b.keysErr
	}
	return &fakeArtifact{address: "cirq1" + viewKey + spendKey}, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newCreateFixture(t *testing.T) (*Controller, *fakeBackend, *notify.Queue, State) {
	t.Helper()
	created := &fakeArtifact{address: "cirq1abc", seed: "alpha beta gamma"}
	b := &fakeBackend{
		created: created,
		seeds: map[string]string{
			"alpha beta gamma": "cirq1abc",
			"delta beta gamma": "cirq1xyz",
		},
	}
	q := &notify.Queue{}
	c := NewCreateController(b, q, WithLogger(quietLogger()))
	s, err := c.Start()
	require.NoError(t, err)
	return c, b, q, s
}

func atStep(s State, step Step) State {
	s.Step = step
	return s
}

func TestCreateStartGeneratesWallet(t *testing.T) {
	_, _, _, s := newCreateFixture(t)
	require.NotNil(t, s.Artifact)
	assert.Equal(t, "cirq1abc", s.Artifact.PrimaryAddress())
	assert.Equal(t, StepGenerate, s.Step)
}

func TestPasswordMismatchBlocksSilently(t *testing.T) {
	c, _, q, s := newCreateFixture(t)
	s = atStep(s, StepSecure).With(FieldPassword, "abc").With(FieldConfirmPassword, "abd")

	r := c.TryAdvance(s)
	assert.Equal(t, Blocked, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrPasswordMismatch)
	assert.Equal(t, StepSecure, r.State.Step)
	assert.Zero(t, q.Len())

	r = c.TryAdvance(r.State.With(FieldConfirmPassword, "abc"))
	assert.Equal(t, Advanced, r.Outcome)
	assert.Equal(t, StepBackup, r.State.Step)
}

func TestCreateMatchingSeedAsksForPath(t *testing.T) {
	c, _, q, s := newCreateFixture(t)
	s = atStep(s, StepVerify).With(FieldConfirmSeed, "  alpha  beta\ngamma ")

	r := c.TryAdvance(s)
	assert.Equal(t, AwaitingSavePath, r.Outcome)
	assert.NoError(t, r.Err)
	assert.Zero(t, q.Len())
}

func TestCreateMismatchedSeedShowsGenericError(t *testing.T) {
	c, _, q, s := newCreateFixture(t)
	s = atStep(s, StepVerify).With(FieldConfirmSeed, "delta beta gamma")

	r := c.TryAdvance(s)
	assert.Equal(t, Failed, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrAddressMismatch)
	assert.Equal(t, StepVerify, r.State.Step)

	modals := q.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, TitleCreationError, modals[0].Title)
	assert.Equal(t, BodyCreationError, modals[0].Body)
	assert.False(t, modals[0].HasSecondary())
}

func TestCreateMalformedSeedShowsLibraryMessage(t *testing.T) {
	c, _, q, s := newCreateFixture(t)
	s = atStep(s, StepVerify).With(FieldConfirmSeed, "not a seed")

	r := c.TryAdvance(s)
	assert.Equal(t, Failed, r.Outcome)

	modals := q.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, TitleVerificationError, modals[0].Title)
	assert.Equal(t, "invalid mnemonic", modals[0].Body)
}

func TestSaveCancelled(t *testing.T) {
	c, b, q, s := newCreateFixture(t)
	s = atStep(s, StepVerify).With(FieldConfirmSeed, "alpha beta gamma")

	chooser := PathChooserFunc(func() (string, bool) { return "", false })
	r := c.Finish(s, chooser)

	assert.Equal(t, Cancelled, r.Outcome)
	assert.Equal(t, StepVerify, r.State.Step)
	assert.False(t, r.State.Done)
	assert.Empty(t, b.created.saves)
	assert.Zero(t, q.Len())
}

func TestSaveFailureIsRecoverable(t *testing.T) {
	c, b, q, s := newCreateFixture(t)
	b.created.saveErr = errors.New("disk full")
	s = atStep(s, StepVerify).With(FieldConfirmSeed, "alpha beta gamma")

	r := c.Save(s, "/tmp/w.wallet", true)
	assert.Equal(t, Failed, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrSaveFailed)
	assert.False(t, r.State.Done)

	modals := q.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, TitleSaveError, modals[0].Title)

	// fixing the cause and retrying works
	q.Drain()
	b.created.saveErr = nil
	r = c.Save(r.State, "/tmp/w.wallet", true)
	assert.Equal(t, Completed, r.Outcome)
}

func TestSaveSuccessHandsOffWallet(t *testing.T) {
	c, b, q, s := newCreateFixture(t)
	s = atStep(s, StepVerify).
		With(FieldPassword, "hunter2").
		With(FieldConfirmSeed, "alpha beta gamma")

	chooser := PathChooserFunc(func() (string, bool) { return "/home/u/my.wallet", true })
	r := c.Finish(s, chooser)

	require.Equal(t, Completed, r.Outcome)
	assert.True(t, r.State.Done)
	assert.Equal(t, "/home/u/my.wallet", r.State.SavedPath)
	assert.Equal(t, StepVerify, r.State.Step)
	assert.Equal(t, []string{"/home/u/my.wallet|hunter2"}, b.created.saves)

	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, notify.WalletReady{Path: "/home/u/my.wallet"}, events[0])

	// finished wizards do not move
	assert.Equal(t, Blocked, c.TryAdvance(r.State).Outcome)
	assert.Equal(t, StepVerify, c.Back(r.State).Step)
}

func TestImportMalformedKeyStaysOnFirstStep(t *testing.T) {
	b := &fakeBackend{keysErr: libError{msg: "spend key is not valid hex"}}
	q := &notify.Queue{}
	c := NewImportController(b, q, WithLogger(quietLogger()))
	s, err := c.Start()
	require.NoError(t, err)
	assert.Nil(t, s.Artifact)

	r := c.TryAdvance(s.With(FieldSpendKey, "zz").With(FieldViewKey, "yy"))
	assert.Equal(t, Failed, r.Outcome)
	assert.Equal(t, StepEnterKeys, r.State.Step)
	assert.Nil(t, r.State.Artifact)

	modals := q.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, TitleImportError, modals[0].Title)
	assert.Equal(t, "spend key is not valid hex", modals[0].Body)
}

func TestImportBadScanHeight(t *testing.T) {
	b := &fakeBackend{}
	q := &notify.Queue{}
	c := NewImportController(b, q, WithLogger(quietLogger()))
	s, _ := c.Start()

	r := c.TryAdvance(s.With(FieldScanHeight, "-5"))
	assert.Equal(t, Failed, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrBadScanHeight)
	assert.Zero(t, b.keyCall)
	assert.Len(t, q.Modals(), 1)
}

func TestImportHappyPath(t *testing.T) {
	b := &fakeBackend{}
	q := &notify.Queue{}
	c := NewImportController(b, q, WithLogger(quietLogger()))
	s, _ := c.Start()

	r := c.TryAdvance(s.With(FieldViewKey, "v").With(FieldSpendKey, "s").With(FieldScanHeight, "1200"))
	require.Equal(t, Advanced, r.Outcome)
	assert.Equal(t, StepVerify, r.State.Step)
	assert.Equal(t, "cirq1vs", r.State.Artifact.PrimaryAddress())

	r = c.TryAdvance(r.State)
	require.Equal(t, Advanced, r.Outcome)
	assert.Equal(t, StepSecure, r.State.Step)

	// terminal password mismatch is silent too
	s = r.State.With(FieldPassword, "a").With(FieldConfirmPassword, "b")
	r = c.TryAdvance(s)
	assert.Equal(t, Blocked, r.Outcome)
	assert.Zero(t, q.Len())

	r = c.Finish(s.With(FieldConfirmPassword, "a"), PathChooserFunc(func() (string, bool) {
		return "/w/restored.wallet", true
	}))
	assert.Equal(t, Completed, r.Outcome)
	assert.Equal(t, 1, b.keyCall)
}

func TestUnknownStepIsLoggedNotFatal(t *testing.T) {
	c, _, q, s := newCreateFixture(t)
	s.Step = "enter_seed"

	r := c.TryAdvance(s)
	assert.Equal(t, Blocked, r.Outcome)
	assert.ErrorIs(t, r.Err, ErrUnknownStep)
	assert.Zero(t, q.Len())
	assert.Equal(t, s.Step, c.Back(s).Step)
}

func TestBackFromFirstStep(t *testing.T) {
	c, _, _, s := newCreateFixture(t)
	assert.Equal(t, StepGenerate, c.Back(s).Step)

	s = atStep(s, StepBackup)
	assert.Equal(t, StepSecure, c.Back(s).Step)
}

func TestParseScanHeight(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"42", 42, false},
		{" 1000 ", 1000, false},
		{"abc", 0, true},
		{"-1", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScanHeight(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadScanHeight)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
