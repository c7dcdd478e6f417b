// Package framework provides the core wizard orchestration system.
//
// A wizard is a multi-step interactive flow. It renders the step tabs and
// progress line, routes key presses to the current step, and asks an
// optional Navigator whether a step may be left. When the navigator starts
// a submission the wizard shows a spinner until the submit command reports
// back, then hands the terminal to a final Screen.
package framework

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
)

// Wizard orchestrates a multi-step interactive flow.
type Wizard struct {
	title          string
	steps          []Step
	stepIndex      map[string]int // id -> index
	currentStep    int
	nav            Navigator
	finalScreen    func() Screen
	screen         Screen
	infoLine       func(*Wizard) string // dynamic info line
	submitLabel    string
	submitting     bool
	spinner        spinner.Model
	done           bool
	cancelled      bool
	width          int
	height         int
	confirmedSteps map[string]bool // tracks steps user has confirmed (advanced past)
}

// NewWizard creates a new wizard with the given title.
func NewWizard(title string) *Wizard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = InfoStyle()

	return &Wizard{
		title:          title,
		stepIndex:      make(map[string]int),
		submitLabel:    "Submit",
		spinner:        sp,
		width:          60,
		height:         20,
		confirmedSteps: make(map[string]bool),
	}
}

// AddStep adds a step to the wizard.
func (w *Wizard) AddStep(step Step) *Wizard {
	w.stepIndex[step.ID()] = len(w.steps)
	w.steps = append(w.steps, step)
	return w
}

// WithNavigator lets nav decide every step transition.
func (w *Wizard) WithNavigator(nav Navigator) *Wizard {
	w.nav = nav
	return w
}

// WithFinalScreen sets the screen shown after a submission finishes.
// The factory runs after Navigator.Finish, so it sees the final state.
func (w *Wizard) WithFinalScreen(factory func() Screen) *Wizard {
	w.finalScreen = factory
	return w
}

// WithInfoLine sets a dynamic info line function.
func (w *Wizard) WithInfoLine(fn func(*Wizard) string) *Wizard {
	w.infoLine = fn
	return w
}

// WithSubmitLabel sets the label of the button on the last step.
func (w *Wizard) WithSubmitLabel(label string) *Wizard {
	w.submitLabel = label
	return w
}

// GetStep returns a step by ID.
func (w *Wizard) GetStep(id string) Step {
	if idx, ok := w.stepIndex[id]; ok {
		return w.steps[idx]
	}
	return nil
}

// GetValue returns a step's value by ID.
func (w *Wizard) GetValue(id string) StepValue {
	if step := w.GetStep(id); step != nil {
		return step.Value()
	}
	return StepValue{}
}

// GetString returns a step's value as a string.
func (w *Wizard) GetString(id string) string {
	v := w.GetValue(id)
	if s, ok := v.Raw.(string); ok {
		return s
	}
	return v.Label
}

// IsCancelled returns true if the wizard was cancelled.
func (w *Wizard) IsCancelled() bool {
	return w.cancelled
}

// IsSubmitting returns true while the submit command is running.
func (w *Wizard) IsSubmitting() bool {
	return w.submitting
}

// OnFinalScreen returns true once the final screen is shown.
func (w *Wizard) OnFinalScreen() bool {
	return w.screen != nil
}

// Run executes the wizard and returns when it quits or is cancelled.
// The TUI renders to stderr so stdout remains available for piping.
func (w *Wizard) Run(opts ...tea.ProgramOption) (*Wizard, error) {
	if len(w.steps) == 0 {
		return w, fmt.Errorf("wizard has no steps")
	}

	// Detect color profile for stderr (handles piped output, NO_COLOR, etc.)
	profile := colorprofile.Detect(os.Stderr, os.Environ())

	p := tea.NewProgram(w, append([]tea.ProgramOption{
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	}, opts...)...)
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(*Wizard)
	return result, nil
}

// BubbleTea Model interface

func (w *Wizard) Init() tea.Cmd {
	w.currentStep = 0
	if len(w.steps) > 0 {
		return w.steps[0].Init()
	}
	return nil
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		w.resize()
		return w, nil

	case spinner.TickMsg:
		if !w.submitting {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case FinishedMsg:
		return w.finish(msg)

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			switch {
			case w.submitting:
				w.submitting = false
				if w.nav != nil {
					w.nav.Finish(FinishedMsg{Err: ErrInterrupted})
				}
			case w.screen == nil:
				w.cancelled = true
			}
			w.done = true
			return w, tea.Quit
		}

		if w.submitting {
			return w, nil
		}
		if w.screen != nil {
			return w.handleScreenInput(msg)
		}

		step := w.steps[w.currentStep]
		if msg.String() == "esc" {
			// Clear input first, then go back, then cancel
			if step.HasClearableInput() {
				return w, step.ClearInput()
			}
			if w.currentStep > 0 {
				return w, w.back()
			}
			w.cancelled = true
			w.done = true
			return w, tea.Quit
		}

		newStep, cmd, result := step.Update(msg)
		w.steps[w.currentStep] = newStep

		switch result {
		case StepAdvance, StepSubmitIfReady:
			return w, tea.Batch(cmd, w.advance())
		case StepBack:
			return w, tea.Batch(cmd, w.back())
		}
		return w, cmd
	}

	return w, nil
}

// advance asks the navigator to leave the current step.
func (w *Wizard) advance() tea.Cmd {
	step := w.steps[w.currentStep]
	t := Next()
	if w.nav != nil {
		t = w.nav.Advance(step.ID())
	}

	switch t.Kind {
	case TransitionNext:
		w.confirmedSteps[step.ID()] = true
		if w.currentStep+1 >= len(w.steps) {
			// No navigator to submit through, so the last step ends the wizard
			w.done = true
			return tea.Quit
		}
		w.currentStep++
		return w.steps[w.currentStep].Init()
	case TransitionSubmit:
		w.confirmedSteps[step.ID()] = true
		w.submitting = true
		return tea.Batch(w.spinner.Tick, t.Cmd)
	}
	return t.Cmd
}

func (w *Wizard) back() tea.Cmd {
	if w.currentStep == 0 {
		return nil
	}
	if w.nav != nil && !w.nav.Retreat(w.steps[w.currentStep].ID()) {
		return nil
	}
	w.currentStep--
	return w.steps[w.currentStep].Init()
}

func (w *Wizard) finish(msg FinishedMsg) (tea.Model, tea.Cmd) {
	if !w.submitting {
		return w, nil
	}
	w.submitting = false
	if w.nav != nil {
		w.nav.Finish(msg)
	}
	if w.finalScreen == nil {
		w.done = true
		return w, tea.Quit
	}
	w.screen = w.finalScreen()
	w.resize()
	return w, w.screen.Init()
}

func (w *Wizard) handleScreenInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cmd, result := w.screen.Update(msg)
	switch result {
	case ScreenRestart:
		return w, tea.Batch(cmd, w.restart())
	case ScreenQuit:
		w.done = true
		return w, tea.Batch(cmd, tea.Quit)
	}
	return w, cmd
}

// restart resets every step and the navigator and shows the first step.
func (w *Wizard) restart() tea.Cmd {
	if w.nav != nil {
		w.nav.Reset()
	}
	for _, step := range w.steps {
		step.Reset()
	}
	w.screen = nil
	w.confirmedSteps = make(map[string]bool)
	w.currentStep = 0
	return w.steps[0].Init()
}

func (w *Wizard) resize() {
	inner := w.width - 6 // border + padding
	for _, step := range w.steps {
		if s, ok := step.(Sizer); ok {
			s.SetWidth(inner)
		}
	}
	if s, ok := w.screen.(Sizer); ok {
		s.SetWidth(inner)
	}
}

func (w *Wizard) View() tea.View {
	if w.done {
		return tea.NewView("")
	}

	var b strings.Builder

	// Title
	b.WriteString(TitleStyle().Render(w.title))
	b.WriteString("\n\n")

	if w.screen != nil {
		b.WriteString(w.screen.View())
		b.WriteString("\n")
		b.WriteString(HelpStyle().Render(w.screen.Help()))
		return tea.NewView(BorderStyle().Render(b.String()))
	}

	// Info line
	if w.infoLine != nil {
		if info := w.infoLine(w); info != "" {
			b.WriteString(InfoStyle().Render(info))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(ProgressStyle().Render(w.Progress()))
	b.WriteString("\n")
	b.WriteString(w.renderStepTabs())
	b.WriteString("\n\n")

	b.WriteString(w.steps[w.currentStep].View())
	b.WriteString("\n\n")

	if w.submitting {
		b.WriteString(w.spinner.View() + " " + InfoStyle().Render("Submitting…"))
		return tea.NewView(BorderStyle().Render(b.String()))
	}

	b.WriteString(w.renderButtons())
	b.WriteString("\n")
	b.WriteString(HelpStyle().Render(w.steps[w.currentStep].Help()))

	return tea.NewView(BorderStyle().Render(b.String()))
}

// Progress returns the "Step N of M" line.
func (w *Wizard) Progress() string {
	return fmt.Sprintf("Step %d of %d", w.currentStep+1, len(w.steps))
}

func (w *Wizard) renderStepTabs() string {
	var tabs []string

	for i, step := range w.steps {
		isActive := i == w.currentStep
		isConfirmed := w.confirmedSteps[step.ID()]
		label := fmt.Sprintf("%d. %s", i+1, step.Title())

		var tabText string
		if isActive && isConfirmed {
			// Current step that's also confirmed (went back to edit)
			checkmark := StepCheckStyle().Render("✓ ")
			tabText = checkmark + StepActiveStyle().Render(label)
		} else if isActive {
			tabText = "  " + StepActiveStyle().Render(label)
		} else if isConfirmed {
			checkmark := StepCheckStyle().Render("✓ ")
			tabText = checkmark + StepCompletedStyle().Render(label)
		} else {
			tabText = "  " + StepInactiveStyle().Render(label)
		}

		tabs = append(tabs, tabText)
	}

	return strings.Join(tabs, StepArrowStyle().Render(" → "))
}

// renderButtons renders the Back and Next/Submit controls. Next is muted
// while the navigator would refuse to advance.
func (w *Wizard) renderButtons() string {
	step := w.steps[w.currentStep]
	enabled := true
	if w.nav != nil {
		enabled = w.nav.CanAdvance(step.ID())
	}

	next := "Next →"
	if w.currentStep == len(w.steps)-1 {
		next = w.submitLabel
	}

	var parts []string
	if w.currentStep > 0 {
		parts = append(parts, ButtonStyle(true).Render("← Back"))
	}
	parts = append(parts, ButtonStyle(enabled).Render(next))
	return strings.Join(parts, " ")
}

// CurrentStepID returns the current step's ID, or "done" on the final screen.
func (w *Wizard) CurrentStepID() string {
	if w.screen != nil {
		return "done"
	}
	return w.steps[w.currentStep].ID()
}

// SetCurrentStep sets the current step by ID.
func (w *Wizard) SetCurrentStep(id string) {
	if idx, ok := w.stepIndex[id]; ok {
		w.currentStep = idx
	}
}

// StepCount returns the number of steps (excluding the final screen).
func (w *Wizard) StepCount() int {
	return len(w.steps)
}
