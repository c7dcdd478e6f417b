package intake

import "strings"

// OtherDepartment is the department choice that routes the payload's
// department through the custom department text.
const OtherDepartment = "Other"

// DefaultSubmitters is the built-in list of general managers offered on the
// first step.
var DefaultSubmitters = []string{
	"Don Hill",
	"Mark Macy",
	"David Frank",
	"Paul Vaughn",
	"Dan Schrodel",
	"Dan Shanahan",
	"Brandon Cooley",
}

// DefaultDepartments is the built-in department list. It always ends with
// OtherDepartment.
var DefaultDepartments = []string{
	"Sales",
	"Operations",
	"Finance",
	"HR",
	"IT",
	"Marketing",
	OtherDepartment,
}

// Step identifies a wizard step.
type Step int

const (
	StepSubmitter Step = iota + 1
	StepDepartment
	StepAutomations
)

// StepCount is the number of input steps (the confirmation screen is not a step).
const StepCount = 3

func (s Step) String() string {
	switch s {
	case StepSubmitter:
		return "submitter"
	case StepDepartment:
		return "department"
	case StepAutomations:
		return "automations"
	default:
		return "unknown"
	}
}

// EntryField names one editable field of an AutomationEntry.
type EntryField int

const (
	FieldSummary EntryField = iota
	FieldCurrentProcess
	FieldPainPoints
	FieldDesiredOutcome
	FieldTools
)

// EntryFields lists the entry fields in display order.
var EntryFields = []EntryField{
	FieldSummary,
	FieldCurrentProcess,
	FieldPainPoints,
	FieldDesiredOutcome,
	FieldTools,
}

// Optional reports whether the field may be left blank. Optional fields
// never carry validation errors.
func (f EntryField) Optional() bool {
	return f == FieldPainPoints || f == FieldTools
}

// Label returns the question shown next to the field.
func (f EntryField) Label() string {
	switch f {
	case FieldSummary:
		return "Short Summary"
	case FieldCurrentProcess:
		return "How is this done today?"
	case FieldPainPoints:
		return "What's painful about the current process?"
	case FieldDesiredOutcome:
		return "What would a successful automation look like?"
	case FieldTools:
		return "Tools / Systems Involved"
	default:
		return ""
	}
}

// Placeholder returns the example text shown in an empty field.
func (f EntryField) Placeholder() string {
	switch f {
	case FieldSummary:
		return "Example: Automate daily revenue report emails"
	case FieldCurrentProcess:
		return "Who does it, what tools are used, and how often?"
	case FieldPainPoints:
		return "Time-consuming, error-prone, manually copying data, etc."
	case FieldDesiredOutcome:
		return "What you'd love to happen automatically"
	case FieldTools:
		return "Example: HubSpot, MoversSuite, Yembo, Outlook"
	default:
		return ""
	}
}

// Multiline reports whether the field takes free-form paragraphs.
func (f EntryField) Multiline() bool {
	return f == FieldCurrentProcess || f == FieldPainPoints || f == FieldDesiredOutcome
}

func (f EntryField) String() string {
	switch f {
	case FieldSummary:
		return "summary"
	case FieldCurrentProcess:
		return "currentProcess"
	case FieldPainPoints:
		return "painPoints"
	case FieldDesiredOutcome:
		return "desiredOutcome"
	case FieldTools:
		return "tools"
	default:
		return "unknown"
	}
}

// ParseEntryField maps a wire field name (e.g. "currentProcess") to an EntryField.
func ParseEntryField(name string) (EntryField, bool) {
	for _, f := range EntryFields {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// AutomationEntry is one automation request. ID is an opaque token used to
// address the entry while editing; it is not part of the submitted payload.
type AutomationEntry struct {
	ID             string
	Summary        string
	CurrentProcess string
	PainPoints     string
	DesiredOutcome string
	Tools          string
}

// Get returns the value of a field.
func (e AutomationEntry) Get(f EntryField) string {
	switch f {
	case FieldSummary:
		return e.Summary
	case FieldCurrentProcess:
		return e.CurrentProcess
	case FieldPainPoints:
		return e.PainPoints
	case FieldDesiredOutcome:
		return e.DesiredOutcome
	case FieldTools:
		return e.Tools
	default:
		return ""
	}
}

// set overwrites a field.
func (e *AutomationEntry) set(f EntryField, value string) {
	switch f {
	case FieldSummary:
		e.Summary = value
	case FieldCurrentProcess:
		e.CurrentProcess = value
	case FieldPainPoints:
		e.PainPoints = value
	case FieldDesiredOutcome:
		e.DesiredOutcome = value
	case FieldTools:
		e.Tools = value
	}
}

// FormState holds everything the user has entered so far.
type FormState struct {
	Submitter        string
	Department       string
	CustomDepartment string
	Entries          []AutomationEntry
}

// ResolvedDepartment returns CustomDepartment when Department is
// OtherDepartment, and Department verbatim otherwise.
func (s FormState) ResolvedDepartment() string {
	if s.Department == OtherDepartment {
		return s.CustomDepartment
	}
	return s.Department
}

// clone returns a deep copy so callers cannot alias the controller's entries.
func (s FormState) clone() FormState {
	s.Entries = append([]AutomationEntry(nil), s.Entries...)
	return s
}

// blank reports whether s is empty after trimming whitespace.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
