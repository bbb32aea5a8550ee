package wallet

import "errors"

// Sentinel kinds. Every error returned by this package wraps one of them.
var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic seed")
	ErrInvalidKey      = errors.New("invalid private key")
	ErrWrongPassword   = errors.New("wrong password")
	ErrNoMnemonic      = errors.New("wallet has no mnemonic seed")
	ErrCorruptFile     = errors.New("corrupt wallet file")
)

// Error pairs a sentinel kind with the sentence the UI should show.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

// CustomMessage is the user-facing explanation.
func (e *Error) CustomMessage() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}
