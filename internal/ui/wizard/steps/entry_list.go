package steps

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

// EntryEditor is the store behind EntryListStep. *intake.Controller
// implements it.
type EntryEditor interface {
	State() intake.FormState
	Errors() intake.ValidationErrors
	UpdateEntry(id string, field intake.EntryField, value string) bool
	AddEntry() string
	CanRemoveEntry(id string) bool
	RemoveEntry(id string) bool
}

const (
	defaultFieldWidth = 60
	textareaHeight    = 3
)

// fieldInput is one editable field: a textinput for single-line fields and
// a textarea for multiline ones.
type fieldInput struct {
	field intake.EntryField
	input textinput.Model
	area  textarea.Model
}

func newFieldInput(f intake.EntryField, value string) *fieldInput {
	fi := &fieldInput{field: f}
	if f.Multiline() {
		ta := textarea.New()
		ta.Placeholder = f.Placeholder()
		ta.CharLimit = 0
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.SetWidth(defaultFieldWidth)
		ta.SetHeight(textareaHeight)

		areaStyles := textarea.DefaultDarkStyles()
		areaStyles.Cursor.Shape = tea.CursorBar
		areaStyles.Cursor.Blink = true
		ta.SetStyles(areaStyles)

		ta.SetValue(value)
		ta.Blur()
		fi.area = ta
		return fi
	}

	ti := textinput.New()
	ti.Placeholder = f.Placeholder()
	ti.CharLimit = 0
	ti.SetWidth(defaultFieldWidth)

	inputStyles := ti.Styles()
	inputStyles.Cursor.Shape = tea.CursorBar
	inputStyles.Cursor.Blink = true
	ti.SetStyles(inputStyles)

	ti.SetValue(value)
	fi.input = ti
	return fi
}

func (f *fieldInput) value() string {
	if f.field.Multiline() {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *fieldInput) focus() tea.Cmd {
	if f.field.Multiline() {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *fieldInput) blur() {
	if f.field.Multiline() {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *fieldInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field.Multiline() {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (f *fieldInput) view() string {
	if f.field.Multiline() {
		return f.area.View()
	}
	return f.input.View()
}

func (f *fieldInput) setWidth(w int) {
	if f.field.Multiline() {
		f.area.SetWidth(w)
		return
	}
	f.input.SetWidth(w)
}

// entryForm holds the inputs of one automation entry.
type entryForm struct {
	id     string
	fields []*fieldInput
}

func newEntryForm(e intake.AutomationEntry, width int) *entryForm {
	form := &entryForm{id: e.ID}
	for _, f := range intake.EntryFields {
		fi := newFieldInput(f, e.Get(f))
		fi.setWidth(width)
		form.fields = append(form.fields, fi)
	}
	return form
}

// EntryListStep edits the list of automation entries. Only the focused
// entry is expanded; the others collapse to their summary line.
type EntryListStep struct {
	id     string
	title  string
	editor EntryEditor
	forms  []*entryForm
	entry  int // focused entry
	field  int // focused field within the entry
	width  int
	notice string
}

// NewEntryList creates the step backed by editor.
func NewEntryList(id, title string, editor EntryEditor) *EntryListStep {
	s := &EntryListStep{
		id:     id,
		title:  title,
		editor: editor,
		width:  defaultFieldWidth,
	}
	s.sync()
	return s
}

func (s *EntryListStep) ID() string    { return s.id }
func (s *EntryListStep) Title() string { return s.title }

func (s *EntryListStep) Init() tea.Cmd {
	s.sync()
	return s.focusCurrent()
}

func (s *EntryListStep) Update(msg tea.KeyPressMsg) (framework.Step, tea.Cmd, framework.StepResult) {
	if len(s.forms) == 0 {
		if msg.String() == "ctrl+n" {
			return s, s.addEntry(), framework.StepContinue
		}
		if msg.String() == "ctrl+s" || msg.String() == "enter" {
			return s, nil, framework.StepSubmitIfReady
		}
		return s, nil, framework.StepContinue
	}

	s.notice = ""
	current := s.forms[s.entry].fields[s.field]

	switch msg.String() {
	case "ctrl+s":
		return s, nil, framework.StepSubmitIfReady
	case "ctrl+n":
		return s, s.addEntry(), framework.StepContinue
	case "ctrl+x":
		return s, s.removeEntry(), framework.StepContinue
	case "tab":
		return s, s.moveFocus(1), framework.StepContinue
	case "shift+tab":
		return s, s.moveFocus(-1), framework.StepContinue
	case "pgdown":
		return s, s.focusEntry(s.entry + 1), framework.StepContinue
	case "pgup":
		return s, s.focusEntry(s.entry - 1), framework.StepContinue
	case "enter":
		if !current.field.Multiline() {
			if s.onLastField() {
				return s, nil, framework.StepSubmitIfReady
			}
			return s, s.moveFocus(1), framework.StepContinue
		}
	case "down":
		if !current.field.Multiline() {
			return s, s.moveFocus(1), framework.StepContinue
		}
	case "up":
		if !current.field.Multiline() {
			return s, s.moveFocus(-1), framework.StepContinue
		}
	}

	before := current.value()
	cmd := current.update(msg)
	if v := current.value(); v != before {
		s.editor.UpdateEntry(s.forms[s.entry].id, current.field, v)
	}
	return s, cmd, framework.StepContinue
}

func (s *EntryListStep) addEntry() tea.Cmd {
	id := s.editor.AddEntry()
	if id == "" {
		return nil
	}
	s.sync()
	for i, form := range s.forms {
		if form.id == id {
			return s.focusEntry(i)
		}
	}
	return nil
}

func (s *EntryListStep) removeEntry() tea.Cmd {
	id := s.forms[s.entry].id
	if !s.editor.RemoveEntry(id) {
		s.notice = "At least one automation request is required"
		return nil
	}
	s.sync()
	return s.focusEntry(min(s.entry, len(s.forms)-1))
}

// moveFocus moves delta fields forward or backward, crossing entries and
// wrapping around at the ends.
func (s *EntryListStep) moveFocus(delta int) tea.Cmd {
	perEntry := len(intake.EntryFields)
	total := len(s.forms) * perEntry
	pos := (s.entry*perEntry + s.field + delta + total) % total
	s.blurAll()
	s.entry = pos / perEntry
	s.field = pos % perEntry
	return s.focusCurrent()
}

func (s *EntryListStep) focusEntry(i int) tea.Cmd {
	if i < 0 || i >= len(s.forms) {
		return nil
	}
	s.blurAll()
	s.entry = i
	s.field = 0
	return s.focusCurrent()
}

func (s *EntryListStep) focusCurrent() tea.Cmd {
	if len(s.forms) == 0 {
		return nil
	}
	return s.forms[s.entry].fields[s.field].focus()
}

func (s *EntryListStep) blurAll() {
	for _, form := range s.forms {
		for _, f := range form.fields {
			f.blur()
		}
	}
}

func (s *EntryListStep) onLastField() bool {
	return s.entry == len(s.forms)-1 && s.field == len(intake.EntryFields)-1
}

// sync rebuilds the forms from the editor's entries, keeping the inputs of
// entries that still exist.
func (s *EntryListStep) sync() {
	existing := make(map[string]*entryForm, len(s.forms))
	for _, form := range s.forms {
		existing[form.id] = form
	}

	entries := s.editor.State().Entries
	forms := make([]*entryForm, 0, len(entries))
	for _, e := range entries {
		if form, ok := existing[e.ID]; ok {
			forms = append(forms, form)
			continue
		}
		forms = append(forms, newEntryForm(e, s.fieldWidth()))
	}
	s.forms = forms

	if s.entry >= len(s.forms) {
		s.entry = max(0, len(s.forms)-1)
		s.field = 0
	}
}

func (s *EntryListStep) fieldWidth() int {
	return min(max(s.width-4, 20), 80)
}

func (s *EntryListStep) View() string {
	var b strings.Builder
	errs := s.editor.Errors()
	entries := s.editor.State().Entries

	b.WriteString(fmt.Sprintf("Automation requests (%d):\n", len(s.forms)))
	if errs.NoEntries != "" {
		b.WriteString(framework.ErrorStyle().Render(errs.NoEntries) + "\n")
	}

	for i, form := range s.forms {
		var summary string
		if i < len(entries) {
			summary = strings.TrimSpace(entries[i].Summary)
		}
		if summary == "" {
			summary = "(no summary yet)"
		}
		header := fmt.Sprintf("Request %d · %s", i+1, framework.Truncate(summary, 40))
		entryErrs := errs.Entry(form.id)

		if i != s.entry {
			line := "  ▸ " + framework.OptionNormalStyle().Render(header)
			if !entryErrs.Empty() {
				line += " " + framework.ErrorStyle().Render("needs attention")
			}
			b.WriteString("\n" + line + "\n")
			continue
		}

		b.WriteString("\n  ▾ " + framework.OptionSelectedStyle().Render(header) + "\n")
		for j, f := range form.fields {
			labelStyle := framework.FieldLabelStyle()
			if j == s.field {
				labelStyle = framework.FocusedFieldLabelStyle()
			}
			label := labelStyle.Render(f.field.Label())
			if !f.field.Optional() {
				label += " " + styles.RequiredMark()
			}
			b.WriteString("\n    " + label + "\n")
			b.WriteString(indent(f.view(), "    ") + "\n")
			if msg := entryErrs.Get(f.field); msg != "" {
				b.WriteString("    " + framework.ErrorStyle().Render(msg) + "\n")
			}
		}
	}

	if s.notice != "" {
		b.WriteString("\n" + framework.ErrorStyle().Render(s.notice) + "\n")
	}

	b.WriteString("\n" + framework.InfoStyle().Render(s.actionsLine()))
	return b.String()
}

// actionsLine lists the entry actions; remove is shown as unavailable
// while only one entry exists.
func (s *EntryListStep) actionsLine() string {
	remove := "ctrl+x remove request"
	if len(s.forms) == 0 || !s.editor.CanRemoveEntry(s.forms[s.entry].id) {
		remove = framework.OptionDisabledStyle().Render("ctrl+x remove (needs 2+)")
	}
	return "ctrl+n add another request • " + remove
}

func (s *EntryListStep) Help() string {
	return "tab/shift+tab fields • pgup/pgdn requests • ctrl+s submit • esc back"
}

func (s *EntryListStep) Value() framework.StepValue {
	entries := s.editor.State().Entries
	summaries := make([]string, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, strings.TrimSpace(e.Summary))
	}
	label := fmt.Sprintf("%d requests", len(entries))
	if len(entries) == 1 {
		label = "1 request"
	}
	return framework.StepValue{Key: s.id, Label: label, Raw: summaries}
}

func (s *EntryListStep) IsComplete() bool {
	return intake.ValidateStep(intake.StepAutomations, s.editor.State()).Empty()
}

// Reset drops all inputs and rebuilds them from the editor.
func (s *EntryListStep) Reset() {
	s.forms = nil
	s.entry = 0
	s.field = 0
	s.notice = ""
	s.sync()
}

// HasClearableInput is always false so esc navigates back instead of
// wiping a field.
func (s *EntryListStep) HasClearableInput() bool {
	return false
}

func (s *EntryListStep) ClearInput() tea.Cmd {
	return nil
}

// SetWidth resizes every input.
func (s *EntryListStep) SetWidth(width int) {
	s.width = width
	w := s.fieldWidth()
	for _, form := range s.forms {
		for _, f := range form.fields {
			f.setWidth(w)
		}
	}
}

// Focus returns the focused entry index and field.
func (s *EntryListStep) Focus() (int, intake.EntryField) {
	return s.entry, intake.EntryFields[s.field]
}

// EntryCount returns the number of entries being edited.
func (s *EntryListStep) EntryCount() int {
	return len(s.forms)
}

// Notice returns the transient message shown after a refused action.
func (s *EntryListStep) Notice() string {
	return s.notice
}

// indent prefixes every line of text.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
