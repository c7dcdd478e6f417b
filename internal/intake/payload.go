package intake

import (
	"fmt"
	"time"
)

// TimestampLayout is the wire format of SubmittedAt: UTC, millisecond
// precision, "Z" suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// AutomationRequest is the wire form of an AutomationEntry (no ID).
type AutomationRequest struct {
	Summary        string `json:"summary"`
	CurrentProcess string `json:"currentProcess"`
	PainPoints     string `json:"painPoints"`
	DesiredOutcome string `json:"desiredOutcome"`
	Tools          string `json:"tools"`
}

// SubmitPayload is the snapshot posted to the webhook.
type SubmitPayload struct {
	Name        string              `json:"name"`
	Department  string              `json:"department"`
	Automations []AutomationRequest `json:"automations"`
	SubmittedAt string              `json:"submittedAt"`
}

// Time parses SubmittedAt.
func (p SubmitPayload) Time() (time.Time, error) {
	t, err := time.Parse(TimestampLayout, p.SubmittedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse submittedAt %q: %w", p.SubmittedAt, err)
	}
	return t, nil
}

// BuildPayload flattens a form into its submitted form: entry IDs are
// dropped and the department is resolved through the "Other" rule.
func BuildPayload(s FormState, at time.Time) SubmitPayload {
	automations := make([]AutomationRequest, len(s.Entries))
	for i, e := range s.Entries {
		automations[i] = AutomationRequest{
			Summary:        e.Summary,
			CurrentProcess: e.CurrentProcess,
			PainPoints:     e.PainPoints,
			DesiredOutcome: e.DesiredOutcome,
			Tools:          e.Tools,
		}
	}
	return SubmitPayload{
		Name:        s.Submitter,
		Department:  s.ResolvedDepartment(),
		Automations: automations,
		SubmittedAt: at.UTC().Format(TimestampLayout),
	}
}
