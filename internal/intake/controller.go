package intake

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/raphi011/intake/internal/log"
)

var (
	// ErrNotSubmitting is returned by CompleteSubmit when no submission was started.
	ErrNotSubmitting = errors.New("no submission in progress")
	// ErrAlreadySubmitted is returned by Submit once the form is confirmed.
	ErrAlreadySubmitted = errors.New("form already submitted")
)

// Sender delivers a payload to the webhook.
type Sender interface {
	Send(ctx context.Context, p SubmitPayload) error
}

// Outcome reports what Advance did.
type Outcome int

const (
	// OutcomeInvalid means validation failed; the step is unchanged.
	OutcomeInvalid Outcome = iota
	// OutcomeAdvanced means the step was incremented.
	OutcomeAdvanced
	// OutcomeSubmit means the last step validated and a submission was
	// started. The caller delivers Pending() and calls CompleteSubmit.
	OutcomeSubmit
	// OutcomeBusy means a submission is in flight or already confirmed.
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeSubmit:
		return "submit"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// ControllerOptions customizes a Controller. Zero values pick defaults.
type ControllerOptions struct {
	// Now is the submission clock (default time.Now).
	Now func() time.Time
	// NewID generates entry IDs (default UUIDv4).
	NewID func() string
	// OnConfirmed is called once per confirmed submission with the
	// delivery result.
	OnConfirmed func(ctx context.Context, p SubmitPayload, sendErr error)
}

// Controller is the wizard state machine. It is not safe for concurrent
// use; the UI event loop is its only caller.
type Controller struct {
	sender      Sender
	now         func() time.Time
	newID       func() string
	onConfirmed func(context.Context, SubmitPayload, error)

	step      Step
	state     FormState
	errs      ValidationErrors
	pending   *SubmitPayload // built, not yet delivered
	submitted *SubmitPayload // confirmed
}

// NewController creates a controller in its initial state. A nil sender
// confirms submissions without delivering them.
func NewController(sender Sender, opts ControllerOptions) *Controller {
	c := &Controller{
		sender:      sender,
		now:         opts.Now,
		newID:       opts.NewID,
		onConfirmed: opts.OnConfirmed,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	c.Reset()
	return c
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// State returns a copy of the form.
func (c *Controller) State() FormState { return c.state.clone() }

// Errors returns a copy of the current validation errors.
func (c *Controller) Errors() ValidationErrors { return c.errs.clone() }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.pending != nil }

// Confirmed reports whether the form reached the confirmation state.
func (c *Controller) Confirmed() bool { return c.submitted != nil }

// Submitted returns the confirmed payload, if any.
func (c *Controller) Submitted() (SubmitPayload, bool) {
	if c.submitted == nil {
		return SubmitPayload{}, false
	}
	return *c.submitted, true
}

// Pending returns the payload of the in-flight submission, if any.
func (c *Controller) Pending() (SubmitPayload, bool) {
	if c.pending == nil {
		return SubmitPayload{}, false
	}
	return *c.pending, true
}

// busy reports whether the form is locked against edits and navigation.
func (c *Controller) busy() bool {
	return c.pending != nil || c.submitted != nil
}

// SelectSubmitter sets the submitter and clears its error.
func (c *Controller) SelectSubmitter(name string) {
	if c.busy() {
		return
	}
	c.state.Submitter = name
	c.errs.Submitter = ""
}

// SelectDepartment sets the department and clears its error.
func (c *Controller) SelectDepartment(dept string) {
	if c.busy() {
		return
	}
	c.state.Department = dept
	c.errs.Department = ""
}

// SetCustomDepartment sets the free-text department and clears its error.
func (c *Controller) SetCustomDepartment(text string) {
	if c.busy() {
		return
	}
	c.state.CustomDepartment = text
	c.errs.CustomDepartment = ""
}

// UpdateEntry overwrites one field of the entry with the given ID.
// Required fields have their error cleared. Returns false if no entry has
// that ID.
func (c *Controller) UpdateEntry(id string, field EntryField, value string) bool {
	if c.busy() {
		return false
	}
	i := c.entryIndex(id)
	if i < 0 {
		return false
	}
	c.state.Entries[i].set(field, value)
	if !field.Optional() {
		c.clearEntryError(id, field)
	}
	return true
}

// AddEntry appends an empty entry and returns its ID.
func (c *Controller) AddEntry() string {
	if c.busy() {
		return ""
	}
	id := c.newID()
	c.state.Entries = append(c.state.Entries, AutomationEntry{ID: id})
	c.errs.NoEntries = ""
	return id
}

// CanRemoveEntry reports whether RemoveEntry would succeed for id.
func (c *Controller) CanRemoveEntry(id string) bool {
	return !c.busy() && len(c.state.Entries) > 1 && c.entryIndex(id) >= 0
}

// RemoveEntry deletes the entry with the given ID along with its errors.
// The last remaining entry cannot be removed.
func (c *Controller) RemoveEntry(id string) bool {
	if !c.CanRemoveEntry(id) {
		return false
	}
	i := c.entryIndex(id)
	c.state.Entries = slices.Delete(c.state.Entries, i, i+1)
	delete(c.errs.Entries, id)
	if len(c.errs.Entries) == 0 {
		c.errs.Entries = nil
	}
	return true
}

// CanAdvance reports whether Advance would succeed, without recording errors.
// Views use it to disable the Next/Submit control.
func (c *Controller) CanAdvance() bool {
	return !c.busy() && ValidateStep(c.step, c.state).Empty()
}

// Advance validates the current step. On success it moves to the next step,
// or starts a submission when the current step is the last one. On failure
// the error set is replaced with the new errors.
func (c *Controller) Advance() Outcome {
	if c.busy() {
		return OutcomeBusy
	}
	errs := ValidateStep(c.step, c.state)
	if !errs.Empty() {
		c.errs = errs
		return OutcomeInvalid
	}
	if c.step == StepAutomations {
		c.beginSubmit()
		return OutcomeSubmit
	}
	c.step++
	c.errs = ValidationErrors{}
	return OutcomeAdvanced
}

// Retreat moves back one step without validating and clears all errors.
// Returns false on the first step or while busy.
func (c *Controller) Retreat() bool {
	if c.busy() || c.step <= StepSubmitter {
		return false
	}
	c.step--
	c.errs = ValidationErrors{}
	return true
}

// Submit delivers the form synchronously. If no submission is pending, one
// is started from the current form without validating it; callers that skip
// Advance should run ValidateAll first. Delivery failures are logged and
// the form is confirmed regardless.
func (c *Controller) Submit(ctx context.Context) error {
	if c.submitted != nil {
		return ErrAlreadySubmitted
	}
	if c.pending == nil {
		c.beginSubmit()
	}
	var err error
	if c.sender != nil {
		err = c.sender.Send(ctx, *c.pending)
	}
	_, cerr := c.CompleteSubmit(ctx, err)
	return cerr
}

// CompleteSubmit finishes the in-flight submission with the delivery
// result. A non-nil sendErr is logged, never returned: the form is
// confirmed either way.
func (c *Controller) CompleteSubmit(ctx context.Context, sendErr error) (SubmitPayload, error) {
	if c.pending == nil {
		return SubmitPayload{}, ErrNotSubmitting
	}
	l := log.FromContext(ctx)
	if sendErr != nil {
		l.Printf("Warning: failed to deliver request: %v\n", sendErr)
	} else {
		l.Debug("request delivered", "automations", len(c.pending.Automations))
	}

	c.submitted = c.pending
	c.pending = nil
	if c.onConfirmed != nil {
		c.onConfirmed(ctx, *c.submitted, sendErr)
	}
	return *c.submitted, nil
}

// Reset returns the controller to its initial state: one empty entry,
// first step, no errors, no payload.
func (c *Controller) Reset() {
	c.step = StepSubmitter
	c.state = FormState{Entries: []AutomationEntry{{ID: c.newID()}}}
	c.errs = ValidationErrors{}
	c.pending = nil
	c.submitted = nil
}

// Load replaces the form with s, for non-interactive submission. Entries
// without an ID get a fresh one. The step is set to the last step.
func (c *Controller) Load(s FormState) {
	c.Reset()
	s = s.clone()
	for i := range s.Entries {
		if s.Entries[i].ID == "" {
			s.Entries[i].ID = c.newID()
		}
	}
	c.state = s
	c.step = StepAutomations
}

func (c *Controller) beginSubmit() {
	p := BuildPayload(c.state, c.now())
	c.pending = &p
	c.errs = ValidationErrors{}
}

func (c *Controller) entryIndex(id string) int {
	return slices.IndexFunc(c.state.Entries, func(e AutomationEntry) bool {
		return e.ID == id
	})
}

func (c *Controller) clearEntryError(id string, field EntryField) {
	ee, ok := c.errs.Entries[id]
	if !ok {
		return
	}
	ee.clear(field)
	if ee.Empty() {
		delete(c.errs.Entries, id)
		if len(c.errs.Entries) == 0 {
			c.errs.Entries = nil
		}
		return
	}
	c.errs.Entries[id] = ee
}
