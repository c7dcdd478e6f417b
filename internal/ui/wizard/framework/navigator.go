package framework

import (
	"errors"

	tea "charm.land/bubbletea/v2"
)

// ErrInterrupted is the FinishedMsg error when the user quits while a
// submission is in flight.
var ErrInterrupted = errors.New("submission interrupted")

// TransitionKind tells the wizard where an advance request leads.
type TransitionKind int

const (
	// TransitionStay keeps the current step (validation failed or busy).
	TransitionStay TransitionKind = iota
	// TransitionNext moves to the next step.
	TransitionNext
	// TransitionSubmit starts the submission. The wizard shows a spinner
	// until Cmd returns a FinishedMsg.
	TransitionSubmit
)

// Transition is the navigator's answer to an advance request.
type Transition struct {
	Kind TransitionKind
	Cmd  tea.Cmd
}

// Stay returns a TransitionStay.
func Stay() Transition { return Transition{Kind: TransitionStay} }

// Next returns a TransitionNext.
func Next() Transition { return Transition{Kind: TransitionNext} }

// Submit returns a TransitionSubmit that runs cmd.
func Submit(cmd tea.Cmd) Transition { return Transition{Kind: TransitionSubmit, Cmd: cmd} }

// FinishedMsg is returned by the submit command when delivery completes.
// Err is the delivery error, if any.
type FinishedMsg struct {
	Err error
}

// Navigator owns the wizard's step machine. Without a navigator the wizard
// advances freely and quits after the last step.
type Navigator interface {
	// Advance validates stepID and reports where to go.
	Advance(stepID string) Transition
	// Retreat reports whether leaving stepID backwards is allowed.
	Retreat(stepID string) bool
	// CanAdvance reports whether Advance would succeed, without side effects.
	CanAdvance(stepID string) bool
	// Finish is called on the event loop with the submission result. On
	// ErrInterrupted the delivery is still running and must be aborted.
	Finish(msg FinishedMsg)
	// Reset returns the navigator to its initial state.
	Reset()
}
