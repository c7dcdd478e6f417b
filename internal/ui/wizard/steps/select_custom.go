package steps

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

// SelectWithCustomStep is a radio list where one option reveals a text
// input for a free-form value.
type SelectWithCustomStep struct {
	id          string
	title       string
	prompt      string
	options     []framework.Option
	customValue any // option value that reveals the input
	customLabel string
	cursor      int
	selected    int // -1 if none
	inputFocus  bool
	input       textinput.Model

	onSelect    func(framework.Option)
	onCustom    func(string)
	errFn       func() string
	customErrFn func() string
}

// NewSelectWithCustom creates the step. Choosing the option whose value is
// customValue shows an input labelled customLabel.
func NewSelectWithCustom(id, title, prompt string, options []framework.Option, customValue any, customLabel string) *SelectWithCustomStep {
	ti := textinput.New()
	ti.Placeholder = "Type here…"
	ti.CharLimit = 0
	ti.SetWidth(40)

	inputStyles := ti.Styles()
	inputStyles.Cursor.Shape = tea.CursorBar
	inputStyles.Cursor.Blink = true
	ti.SetStyles(inputStyles)

	return &SelectWithCustomStep{
		id:          id,
		title:       title,
		prompt:      prompt,
		options:     options,
		customValue: customValue,
		customLabel: customLabel,
		selected:    -1,
		input:       ti,
	}
}

func (s *SelectWithCustomStep) ID() string    { return s.id }
func (s *SelectWithCustomStep) Title() string { return s.title }

// OnSelect registers a callback invoked whenever an option is chosen.
func (s *SelectWithCustomStep) OnSelect(fn func(framework.Option)) *SelectWithCustomStep {
	s.onSelect = fn
	return s
}

// OnCustomChange registers a callback invoked on every edit of the input.
func (s *SelectWithCustomStep) OnCustomChange(fn func(string)) *SelectWithCustomStep {
	s.onCustom = fn
	return s
}

// WithErrors sets the functions that supply the inline error messages for
// the selection and the custom input.
func (s *SelectWithCustomStep) WithErrors(selectErr, customErr func() string) *SelectWithCustomStep {
	s.errFn = selectErr
	s.customErrFn = customErr
	return s
}

func (s *SelectWithCustomStep) Init() tea.Cmd {
	if s.inputFocus {
		s.input.Focus()
		return textinput.Blink
	}
	return nil
}

func (s *SelectWithCustomStep) Update(msg tea.KeyPressMsg) (framework.Step, tea.Cmd, framework.StepResult) {
	if s.inputFocus {
		return s.updateInput(msg)
	}

	switch msg.String() {
	case "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down":
		if s.cursor < len(s.options)-1 {
			s.cursor++
		}
	case "home", "pgup":
		s.cursor = 0
	case "end", "pgdown":
		s.cursor = max(0, len(s.options)-1)
	case "space":
		return s, s.selectCursor(), framework.StepContinue
	case "enter":
		cmd := s.selectCursor()
		if s.inputFocus {
			return s, cmd, framework.StepContinue
		}
		return s, cmd, framework.StepAdvance
	case "right":
		return s, nil, framework.StepAdvance
	case "tab", "shift+tab":
		if s.CustomSelected() {
			return s, s.focusInput(), framework.StepContinue
		}
	case "left":
		return s, nil, framework.StepBack
	}
	return s, nil, framework.StepContinue
}

func (s *SelectWithCustomStep) updateInput(msg tea.KeyPressMsg) (framework.Step, tea.Cmd, framework.StepResult) {
	switch msg.String() {
	case "enter":
		return s, nil, framework.StepAdvance
	case "up", "tab", "shift+tab":
		s.input.Blur()
		s.inputFocus = false
		return s, nil, framework.StepContinue
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != before && s.onCustom != nil {
		s.onCustom(v)
	}
	return s, cmd, framework.StepContinue
}

// selectCursor selects the option under the cursor and focuses the input
// when it is the custom option.
func (s *SelectWithCustomStep) selectCursor() tea.Cmd {
	if s.cursor < 0 || s.cursor >= len(s.options) || s.options[s.cursor].Disabled {
		return nil
	}
	s.selected = s.cursor
	if s.onSelect != nil {
		s.onSelect(s.options[s.cursor])
	}
	if s.CustomSelected() {
		return s.focusInput()
	}
	return nil
}

func (s *SelectWithCustomStep) focusInput() tea.Cmd {
	s.inputFocus = true
	s.input.Focus()
	return textinput.Blink
}

// CustomSelected reports whether the custom option is selected.
func (s *SelectWithCustomStep) CustomSelected() bool {
	return s.selected >= 0 && s.options[s.selected].Value == s.customValue
}

func (s *SelectWithCustomStep) View() string {
	var b strings.Builder
	b.WriteString(s.prompt + ":\n\n")

	for i, opt := range s.options {
		radio := styles.Radio(i == s.selected) + " "
		if opt.Disabled {
			b.WriteString("  " + framework.OptionDisabledStyle().Render(radio+opt.Label) + "\n")
			continue
		}
		cursor := "  "
		style := framework.OptionNormalStyle()
		if i == s.cursor && !s.inputFocus {
			cursor = "> "
			style = framework.OptionSelectedStyle()
		}
		b.WriteString(cursor + style.Render(radio+opt.Label) + "\n")
	}

	if s.errFn != nil {
		if msg := s.errFn(); msg != "" {
			b.WriteString(framework.ErrorStyle().Render(msg) + "\n")
		}
	}

	if s.CustomSelected() {
		labelStyle := framework.FieldLabelStyle()
		if s.inputFocus {
			labelStyle = framework.FocusedFieldLabelStyle()
		}
		b.WriteString("\n" + labelStyle.Render(s.customLabel) + " " + styles.RequiredMark() + "\n")
		b.WriteString(s.input.View() + "\n")
		if s.customErrFn != nil {
			if msg := s.customErrFn(); msg != "" {
				b.WriteString(framework.ErrorStyle().Render(msg) + "\n")
			}
		}
	}

	return b.String()
}

func (s *SelectWithCustomStep) Help() string {
	if s.inputFocus {
		return "type name • tab back to list • enter next • esc clear"
	}
	return "↑/↓ move • space select • enter next • esc back"
}

func (s *SelectWithCustomStep) Value() framework.StepValue {
	if s.selected < 0 {
		return framework.StepValue{Key: s.id}
	}
	opt := s.options[s.selected]
	if s.CustomSelected() {
		custom := strings.TrimSpace(s.input.Value())
		return framework.StepValue{Key: s.id, Label: custom, Raw: custom}
	}
	return framework.StepValue{Key: s.id, Label: opt.Label, Raw: opt.Value}
}

func (s *SelectWithCustomStep) IsComplete() bool {
	if s.selected < 0 {
		return false
	}
	if s.CustomSelected() {
		return strings.TrimSpace(s.input.Value()) != ""
	}
	return true
}

// Reset clears the selection and the input.
func (s *SelectWithCustomStep) Reset() {
	s.selected = -1
	s.cursor = 0
	s.inputFocus = false
	s.input.Blur()
	s.input.SetValue("")
}

func (s *SelectWithCustomStep) HasClearableInput() bool {
	return s.inputFocus && s.input.Value() != ""
}

func (s *SelectWithCustomStep) ClearInput() tea.Cmd {
	s.input.SetValue("")
	if s.onCustom != nil {
		s.onCustom("")
	}
	return nil
}

// SetWidth sizes the custom input.
func (s *SelectWithCustomStep) SetWidth(width int) {
	s.input.SetWidth(min(max(width-4, 20), 60))
}

// GetCursor returns the cursor position.
func (s *SelectWithCustomStep) GetCursor() int {
	return s.cursor
}

// InputFocused reports whether key presses go to the custom input.
func (s *SelectWithCustomStep) InputFocused() bool {
	return s.inputFocus
}

// CustomValue returns the raw text of the custom input.
func (s *SelectWithCustomStep) CustomValue() string {
	return s.input.Value()
}
