// Package notify carries UI-level requests (open a dialog, switch to a newly
// saved wallet) from components to the shell. Components receive a Notifier
// by reference; nothing subscribes globally.
package notify

// Action is what the shell should do when the primary button of a modal is
// chosen. ActionNone just closes the dialog.
type Action int

const (
	ActionNone Action = iota
	ActionRescan
	ActionQuit
	ActionCloseWallet
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRescan:
		return "rescan"
	case ActionQuit:
		return "quit"
	case ActionCloseWallet:
		return "close-wallet"
	default:
		return "unknown"
	}
}

// Modal describes a dialog with one acknowledgement button and an optional
// second button. Secondary is empty for single-button dialogs.
type Modal struct {
	Title     string
	Body      string
	Primary   string
	Secondary string
	Confirm   Action

	// Arg is passed along with Confirm, e.g. the scan height of a rescan.
	Arg uint64
}

// HasSecondary reports whether the dialog shows a second button.
func (m Modal) HasSecondary() bool { return m.Secondary != "" }

// ErrorModal is the single "OK" dialog used for every surfaced failure.
func ErrorModal(title, body string) Modal {
	return Modal{Title: title, Body: body, Primary: "OK"}
}

// ConfirmModal asks before running action.
func ConfirmModal(title, body, primary, secondary string, action Action) Modal {
	return Modal{Title: title, Body: body, Primary: primary, Secondary: secondary, Confirm: action}
}

// Notifier is implemented by whatever owns the screen.
type Notifier interface {
	OpenModal(m Modal)
	ReInitWallet(path string)
}

// Event is one recorded notification.
type Event interface {
	isEvent()
}

// ModalRequested is recorded by OpenModal.
type ModalRequested struct {
	Modal Modal
}

// WalletReady is recorded by ReInitWallet.
type WalletReady struct {
	Path string
}

func (ModalRequested) isEvent() {}
func (WalletReady) isEvent()    {}

// Queue records notifications in order until the shell drains them. The
// shell is single-threaded so there is no locking.
type Queue struct {
	events []Event
}

// OpenModal implements Notifier.
func (q *Queue) OpenModal(m Modal) {
	q.events = append(q.events, ModalRequested{Modal: m})
}

// ReInitWallet implements Notifier.
func (q *Queue) ReInitWallet(path string) {
	q.events = append(q.events, WalletReady{Path: path})
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.events) }

// Drain returns the pending events and clears the queue.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Modals returns the pending modal requests without draining.
func (q *Queue) Modals() []Modal {
	var out []Modal
	for _, e := range q.events {
		if m, ok := e.(ModalRequested); ok {
			out = append(out, m.Modal)
		}
	}
	return out
}
