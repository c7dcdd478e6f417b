package framework

import tea "charm.land/bubbletea/v2"

// StepResult indicates what action to take after a step update.
type StepResult int

const (
	// StepContinue means stay on the current step.
	StepContinue StepResult = iota
	// StepAdvance means ask the navigator to move to the next step.
	StepAdvance
	// StepBack means move to the previous step.
	StepBack
	// StepSubmitIfReady means advance and submit if this is the last step.
	StepSubmitIfReady
)

// StepValue holds the current value of a step.
type StepValue struct {
	Key   string // Field name (e.g., "submitter")
	Label string // Display value (e.g., "Don Hill")
	Raw   any    // Actual value (string, []string, etc.)
}

// Step is the interface for wizard steps.
type Step interface {
	// ID returns a unique identifier for this step.
	ID() string

	// Title returns the display title for the step tab.
	Title() string

	// Init returns an initial command when entering this step.
	Init() tea.Cmd

	// Update handles key events and returns the updated step,
	// a command to run, and a result indicating navigation.
	Update(msg tea.KeyPressMsg) (Step, tea.Cmd, StepResult)

	// View renders the step content.
	View() string

	// Help returns the help text for this step.
	Help() string

	// Value returns the step's current value.
	Value() StepValue

	// IsComplete returns true if the step has a valid selection.
	IsComplete() bool

	// Reset clears the step's selection/input.
	Reset()

	// HasClearableInput returns true if the step has input that can be cleared.
	// Used to determine ESC behavior: clear input first, then go back.
	HasClearableInput() bool

	// ClearInput clears any user input (filter, text field, etc).
	ClearInput() tea.Cmd
}

// Sizer is implemented by steps and screens that adapt to the terminal width.
type Sizer interface {
	SetWidth(width int)
}

// ScreenResult indicates what the wizard does after a screen update.
type ScreenResult int

const (
	// ScreenStay keeps the screen open.
	ScreenStay ScreenResult = iota
	// ScreenRestart resets every step and the navigator and returns to the
	// first step.
	ScreenRestart
	// ScreenQuit ends the program.
	ScreenQuit
)

// Screen is a terminal view shown once the last step has been submitted.
// It replaces the step tabs and receives every key press.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.KeyPressMsg) (tea.Cmd, ScreenResult)
	View() string
	Help() string
}

// Option represents a selectable item in list-based steps.
type Option struct {
	Label       string // Display text
	Value       any    // Actual value
	Description string // Optional description shown below the label
	Disabled    bool   // Whether option is disabled/unselectable
}
