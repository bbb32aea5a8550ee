package wizard

// Kind selects which wallet flow a wizard runs.
type Kind int

const (
	FlowCreate Kind = iota
	FlowImport
)

func (k Kind) String() string {
	switch k {
	case FlowCreate:
		return "create"
	case FlowImport:
		return "import"
	default:
		return "unknown"
	}
}

// Steps returns the step list for the flow.
func (k Kind) Steps() Steps {
	if k == FlowImport {
		return ImportSteps
	}
	return CreateSteps
}

// Field names a user-editable value on one of the wizard pages.
type Field string

const (
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldConfirmSeed     Field = "confirm_seed"
	FieldSpendKey        Field = "spend_key"
	FieldViewKey         Field = "view_key"
	FieldScanHeight      Field = "scan_height"
)

// State is everything a wizard view renders from. It is treated as a value:
// the reducer and the controller return new states and never write into the
// field map of the state they were given.
type State struct {
	Flow     Kind
	Step     Step
	Fields   map[Field]string
	Artifact Artifact

	// Done is set once the wallet has been written to disk and handed to the
	// shell. SavedPath is where it went.
	Done      bool
	SavedPath string
}

// NewState returns the opening state of a flow.
func NewState(flow Kind) State {
	return State{
		Flow:   flow,
		Step:   flow.Steps().First(),
		Fields: map[Field]string{},
	}
}

// Get returns the current value of a field.
func (s State) Get(f Field) string {
	return s.Fields[f]
}

// With returns a copy of s with field f set to v.
func (s State) With(f Field, v string) State {
	fields := make(map[Field]string, len(s.Fields)+1)
	for k, val := range s.Fields {
		fields[k] = val
	}
	fields[f] = v
	s.Fields = fields
	return s
}

// PasswordsMatch drives the inline "passwords do not match" indicator.
func (s State) PasswordsMatch() bool {
	return s.Get(FieldPassword) == s.Get(FieldConfirmPassword)
}

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// SetField records a keystroke-level edit of one field.
type SetField struct {
	Field Field
	Value string
}

// Back moves one step towards the start.
type Back struct{}

// Reset discards every field and returns to the first step. The artifact is
// kept so a create flow does not silently swap the wallet it showed.
type Reset struct{}

func (SetField) isAction() {}
func (Back) isAction()     {}
func (Reset) isAction()    {}

// Reduce applies a user action to a state. Transitions that need validation
// or side effects go through Controller.TryAdvance instead.
func Reduce(steps Steps, s State, a Action) State {
	switch a := a.(type) {
	case SetField:
		return s.With(a.Field, a.Value)
	case Back:
		return Retreat(steps, s)
	case Reset:
		s.Fields = map[Field]string{}
		s.Step = steps.First()
		s.Done = false
		s.SavedPath = ""
		return s
	}
	return s
}

// Advance moves to the next step. It does not validate anything and is a
// no-op on the terminal step or an unknown step.
func Advance(steps Steps, s State) State {
	n, ok := steps.Ordinal(s.Step)
	if !ok {
		return s
	}
	if next, ok := steps.At(n + 1); ok {
		s.Step = next
	}
	return s
}

// Retreat moves to the previous step. The first step cannot retreat.
func Retreat(steps Steps, s State) State {
	n, ok := steps.Ordinal(s.Step)
	if !ok || n == 1 {
		return s
	}
	if prev, ok := steps.At(n - 1); ok {
		s.Step = prev
	}
	return s
}
