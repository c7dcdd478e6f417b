package intake

import "fmt"

// Validation messages shown next to the offending field.
const (
	MsgSubmitterRequired        = "Please select a general manager"
	MsgDepartmentRequired       = "Please select a department"
	MsgCustomDepartmentRequired = "Please enter a department name"
	MsgSummaryRequired          = "Summary is required"
	MsgCurrentProcessRequired   = "Current process description is required"
	MsgDesiredOutcomeRequired   = "Desired outcome is required"
	MsgEntriesRequired          = "Add at least one automation request"
)

// EntryErrors holds the per-field errors of one automation entry.
// An empty string means the field is valid.
type EntryErrors struct {
	Summary        string
	CurrentProcess string
	DesiredOutcome string
}

// Get returns the error for a field. Optional fields always return "".
func (e EntryErrors) Get(f EntryField) string {
	switch f {
	case FieldSummary:
		return e.Summary
	case FieldCurrentProcess:
		return e.CurrentProcess
	case FieldDesiredOutcome:
		return e.DesiredOutcome
	default:
		return ""
	}
}

func (e *EntryErrors) clear(f EntryField) {
	switch f {
	case FieldSummary:
		e.Summary = ""
	case FieldCurrentProcess:
		e.CurrentProcess = ""
	case FieldDesiredOutcome:
		e.DesiredOutcome = ""
	}
}

// Empty reports whether no field has an error.
func (e EntryErrors) Empty() bool {
	return e.Summary == "" && e.CurrentProcess == "" && e.DesiredOutcome == ""
}

// ValidationErrors holds the errors of the most recent validation pass.
// Only fields that failed are set; Entries is keyed by entry ID and only
// contains entries with at least one failing field.
type ValidationErrors struct {
	Submitter        string
	Department       string
	CustomDepartment string
	Entries          map[string]EntryErrors
	// NoEntries is set when the automation list is empty.
	NoEntries string
}

// Empty reports whether there are no errors at all.
func (v ValidationErrors) Empty() bool {
	return v.Submitter == "" && v.Department == "" && v.CustomDepartment == "" &&
		len(v.Entries) == 0 && v.NoEntries == ""
}

// Entry returns the errors recorded for an entry ID.
func (v ValidationErrors) Entry(id string) EntryErrors {
	return v.Entries[id]
}

// Messages flattens the errors into display lines, in field order.
// Entry errors are prefixed with the 1-based entry position taken from order.
func (v ValidationErrors) Messages(order []AutomationEntry) []string {
	var msgs []string
	for _, m := range []string{v.Submitter, v.Department, v.CustomDepartment, v.NoEntries} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	for i, e := range order {
		ee, ok := v.Entries[e.ID]
		if !ok {
			continue
		}
		for _, f := range EntryFields {
			if m := ee.Get(f); m != "" {
				msgs = append(msgs, fmt.Sprintf("automation #%d: %s", i+1, m))
			}
		}
	}
	return msgs
}

func (v ValidationErrors) clone() ValidationErrors {
	if v.Entries != nil {
		entries := make(map[string]EntryErrors, len(v.Entries))
		for id, e := range v.Entries {
			entries[id] = e
		}
		v.Entries = entries
	}
	return v
}

// ValidateStep computes the errors for one step of the form.
// Steps other than the three input steps always validate.
func ValidateStep(step Step, s FormState) ValidationErrors {
	var errs ValidationErrors
	switch step {
	case StepSubmitter:
		if s.Submitter == "" {
			errs.Submitter = MsgSubmitterRequired
		}
	case StepDepartment:
		if s.Department == "" {
			errs.Department = MsgDepartmentRequired
		} else if s.Department == OtherDepartment && blank(s.CustomDepartment) {
			errs.CustomDepartment = MsgCustomDepartmentRequired
		}
	case StepAutomations:
		if len(s.Entries) == 0 {
			errs.NoEntries = MsgEntriesRequired
			break
		}
		for _, e := range s.Entries {
			var ee EntryErrors
			if blank(e.Summary) {
				ee.Summary = MsgSummaryRequired
			}
			if blank(e.CurrentProcess) {
				ee.CurrentProcess = MsgCurrentProcessRequired
			}
			if blank(e.DesiredOutcome) {
				ee.DesiredOutcome = MsgDesiredOutcomeRequired
			}
			if !ee.Empty() {
				if errs.Entries == nil {
					errs.Entries = make(map[string]EntryErrors)
				}
				errs.Entries[e.ID] = ee
			}
		}
	}
	return errs
}

// ValidateAll runs every step's validation and merges the results.
// Used by non-interactive submission, where there is no step-by-step flow.
func ValidateAll(s FormState) ValidationErrors {
	errs := ValidateStep(StepSubmitter, s)
	dept := ValidateStep(StepDepartment, s)
	errs.Department = dept.Department
	errs.CustomDepartment = dept.CustomDepartment
	autos := ValidateStep(StepAutomations, s)
	errs.Entries = autos.Entries
	errs.NoEntries = autos.NoEntries
	return errs
}
