package flows

import (
	"context"
	"fmt"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/intake/internal/export"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
	"github.com/raphi011/intake/internal/ui/wizard/steps"
)

// Wizard step IDs, in order.
const (
	StepIDSubmitter   = "submitter"
	StepIDDepartment  = "department"
	StepIDAutomations = "automations"
)

// IntakeParams configures the intake wizard.
type IntakeParams struct {
	Submitters  []string
	Departments []string // OtherDepartment is appended when missing
	Sender      intake.Sender

	// DataDir enables the "save markdown" action on the confirmation screen.
	DataDir string
	// HistoryPath enables recording confirmed submissions.
	HistoryPath  string
	HistoryLimit int
}

// Submission is a confirmed request and its delivery result.
type Submission struct {
	Payload intake.SubmitPayload
	Err     error // nil when delivered
}

// IntakeResult holds what happened during an interactive session.
type IntakeResult struct {
	Submitted []Submission // confirmed submissions, in order
	Cancelled bool
}

// controllerNavigator drives the wizard through an intake.Controller.
// The wizard's steps map one-to-one onto the controller's steps.
type controllerNavigator struct {
	ctx    context.Context
	c      *intake.Controller
	sender intake.Sender
	cancel context.CancelFunc // aborts the in-flight delivery
}

func (n *controllerNavigator) Advance(string) framework.Transition {
	switch n.c.Advance() {
	case intake.OutcomeAdvanced:
		return framework.Next()
	case intake.OutcomeSubmit:
		p, _ := n.c.Pending()
		return framework.Submit(n.deliver(p))
	}
	return framework.Stay()
}

// deliver sends p off the event loop and reports back with a FinishedMsg.
func (n *controllerNavigator) deliver(p intake.SubmitPayload) tea.Cmd {
	ctx, cancel := context.WithCancel(n.ctx)
	n.cancel = cancel
	sender := n.sender
	return func() tea.Msg {
		defer cancel()
		if sender == nil {
			return framework.FinishedMsg{}
		}
		return framework.FinishedMsg{Err: sender.Send(ctx, p)}
	}
}

func (n *controllerNavigator) Retreat(string) bool {
	return n.c.Retreat()
}

func (n *controllerNavigator) CanAdvance(string) bool {
	return n.c.CanAdvance()
}

func (n *controllerNavigator) Finish(msg framework.FinishedMsg) {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	if _, err := n.c.CompleteSubmit(n.ctx, msg.Err); err != nil {
		log.FromContext(n.ctx).Debug("complete submit", "error", err)
	}
}

func (n *controllerNavigator) Reset() {
	n.c.Reset()
}

// intakeSession is a wired wizard and the controller behind it.
type intakeSession struct {
	wizard     *framework.Wizard
	controller *intake.Controller
	submitted  []Submission
}

// newIntakeSession builds the three-step wizard. The sender is not called
// directly; deliveries run as wizard commands.
func newIntakeSession(ctx context.Context, params IntakeParams, opts intake.ControllerOptions) *intakeSession {
	s := &intakeSession{}

	onConfirmed := opts.OnConfirmed
	opts.OnConfirmed = func(ctx context.Context, p intake.SubmitPayload, sendErr error) {
		s.submitted = append(s.submitted, Submission{Payload: p, Err: sendErr})
		if params.HistoryPath != "" {
			if err := history.Record(params.HistoryPath, history.NewEntry(p, sendErr), params.HistoryLimit); err != nil {
				log.FromContext(ctx).Printf("Warning: failed to record history: %v\n", err)
			}
		}
		if onConfirmed != nil {
			onConfirmed(ctx, p, sendErr)
		}
	}
	// Delivery goes through the navigator so the UI stays responsive.
	c := intake.NewController(nil, opts)
	s.controller = c

	submitterStep := steps.NewFilterableList(StepIDSubmitter, "Submitter", "Select your general manager", stringOptions(params.Submitters)).
		OnSelect(func(o framework.Option) { c.SelectSubmitter(o.Label) }).
		WithError(func() string { return c.Errors().Submitter })

	departments := params.Departments
	if !slices.Contains(departments, intake.OtherDepartment) {
		departments = append(slices.Clone(departments), intake.OtherDepartment)
	}
	departmentStep := steps.NewSelectWithCustom(StepIDDepartment, "Department", "Select your department",
		stringOptions(departments), intake.OtherDepartment, "Department name").
		OnSelect(func(o framework.Option) { c.SelectDepartment(o.Label) }).
		OnCustomChange(c.SetCustomDepartment).
		WithErrors(
			func() string { return c.Errors().Department },
			func() string { return c.Errors().CustomDepartment },
		)

	automationsStep := steps.NewEntryList(StepIDAutomations, "Automations", c)

	var save func(intake.SubmitPayload) (string, error)
	if params.DataDir != "" {
		save = func(p intake.SubmitPayload) (string, error) {
			return export.Save(params.DataDir, p)
		}
	}

	s.wizard = framework.NewWizard("Automation Request").
		WithNavigator(&controllerNavigator{ctx: ctx, c: c, sender: params.Sender}).
		WithSubmitLabel("Submit Request").
		WithInfoLine(func(*framework.Wizard) string { return infoLine(c.State()) }).
		WithFinalScreen(func() framework.Screen {
			p, _ := c.Submitted()
			return steps.NewConfirmation(p, steps.ConfirmationOptions{Save: save})
		}).
		AddStep(submitterStep).
		AddStep(departmentStep).
		AddStep(automationsStep)

	return s
}

// IntakeInteractive runs the intake wizard until the user quits. Every
// confirmed submission is returned, including ones whose delivery failed.
func IntakeInteractive(ctx context.Context, params IntakeParams) (IntakeResult, error) {
	s := newIntakeSession(ctx, params, intake.ControllerOptions{})

	w, err := s.wizard.Run(tea.WithContext(ctx))
	if err != nil {
		return IntakeResult{}, fmt.Errorf("intake wizard: %w", err)
	}

	return IntakeResult{
		Submitted: s.submitted,
		Cancelled: w.IsCancelled() && len(s.submitted) == 0,
	}, nil
}

// infoLine summarizes the choices made so far.
func infoLine(s intake.FormState) string {
	dept := s.ResolvedDepartment()
	switch {
	case s.Submitter != "" && dept != "":
		return fmt.Sprintf("%s · %s", s.Submitter, dept)
	case s.Submitter != "":
		return s.Submitter
	}
	return ""
}

func stringOptions(values []string) []framework.Option {
	opts := make([]framework.Option, len(values))
	for i, v := range values {
		opts[i] = framework.Option{Label: v, Value: v}
	}
	return opts
}
