// Package wizard holds the step machinery shared by the new-wallet and
// import-keys flows: an ordered step list, the field state the user edits,
// and a controller that validates each step before moving on.
package wizard

import (
	"errors"
	"fmt"
)

// Step identifies one page of a wizard.
type Step string

// Create flow steps
const (
	StepGenerate Step = "generate"
	StepSecure   Step = "secure"
	StepBackup   Step = "backup"
	StepVerify   Step = "verify"
)

// Import flow steps
const (
	StepEnterKeys Step = "enter_seed"
)

// ErrNoSteps is returned when a step list is built without any steps.
var ErrNoSteps = errors.New("wizard: empty step list")

// Steps is an ordered, duplicate-free list of steps. Ordinals are 1-based so
// they can be shown directly in the progress indicator.
type Steps struct {
	names []Step
	index map[Step]int
}

// NewSteps builds a step list from the given identifiers.
func NewSteps(names ...Step) (Steps, error) {
	if len(names) == 0 {
		return Steps{}, ErrNoSteps
	}
	index := make(map[Step]int, len(names))
	for i, n := range names {
		if n == "" {
			return Steps{}, fmt.Errorf("wizard: step %d has no name", i+1)
		}
		if _, dup := index[n]; dup {
			return Steps{}, fmt.Errorf("wizard: duplicate step %q", n)
		}
		index[n] = i + 1
	}
	return Steps{names: append([]Step(nil), names...), index: index}, nil
}

// MustSteps is NewSteps for package-level tables.
func MustSteps(names ...Step) Steps {
	s, err := NewSteps(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// The two flows the shell knows about.
var (
	CreateSteps = MustSteps(StepGenerate, StepSecure, StepBackup, StepVerify)
	ImportSteps = MustSteps(StepEnterKeys, StepVerify, StepSecure)
)

// Len returns the number of steps.
func (s Steps) Len() int { return len(s.names) }

// Ordinal returns the 1-based position of step. ok is false for a step that
// is not part of this list.
func (s Steps) Ordinal(step Step) (n int, ok bool) {
	n, ok = s.index[step]
	return n, ok
}

// At returns the step at ordinal n.
func (s Steps) At(n int) (Step, bool) {
	if n < 1 || n > len(s.names) {
		return "", false
	}
	return s.names[n-1], true
}

// First returns the opening step.
func (s Steps) First() Step {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// Last returns the terminal step.
func (s Steps) Last() Step {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[len(s.names)-1]
}

// IsLast reports whether step is the terminal step.
func (s Steps) IsLast(step Step) bool {
	return len(s.names) > 0 && step == s.Last()
}

// Names returns a copy of the ordered identifiers.
func (s Steps) Names() []Step {
	return append([]Step(nil), s.names...)
}
