// Package steps provides the step components of the intake wizard.
//
// Steps are passive views: they render what they are given and report
// edits through callbacks. Validation and navigation decisions belong to
// the wizard's navigator.
package steps

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

// optionSource implements fuzzy.Source for options.
type optionSource []framework.Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }

// FilterableListStep selects one option from a fuzzy-filterable list.
// Disabled options are shown but the cursor skips them.
type FilterableListStep struct {
	id       string
	title    string
	prompt   string
	options  []framework.Option
	filtered []fuzzy.Match // fuzzy matches with indices and matched positions
	cursor   int           // position in filtered list
	selected int           // index into options, -1 if none
	filter   string

	onSelect   func(framework.Option)
	errFn      func() string
	runeFilter framework.RuneFilter // nil = allow all printable
	maxVisible int
}

// NewFilterableList creates a new filterable single-select step.
func NewFilterableList(id, title, prompt string, options []framework.Option) *FilterableListStep {
	s := &FilterableListStep{
		id:         id,
		title:      title,
		prompt:     prompt,
		options:    options,
		selected:   -1,
		maxVisible: 10,
	}
	s.applyFilter()
	s.cursor = s.findFirstEnabled()
	return s
}

func (s *FilterableListStep) ID() string    { return s.id }
func (s *FilterableListStep) Title() string { return s.title }

// OnSelect registers a callback invoked whenever an option is chosen.
func (s *FilterableListStep) OnSelect(fn func(framework.Option)) *FilterableListStep {
	s.onSelect = fn
	return s
}

// WithError sets the function that supplies the inline error message.
func (s *FilterableListStep) WithError(fn func() string) *FilterableListStep {
	s.errFn = fn
	return s
}

// WithRuneFilter sets a filter for allowed input characters.
func (s *FilterableListStep) WithRuneFilter(f framework.RuneFilter) *FilterableListStep {
	s.runeFilter = f
	return s
}

// WithMaxVisible sets how many options are shown before scrolling.
func (s *FilterableListStep) WithMaxVisible(n int) *FilterableListStep {
	if n > 0 {
		s.maxVisible = n
	}
	return s
}

func (s *FilterableListStep) Init() tea.Cmd {
	return nil
}

func (s *FilterableListStep) Update(msg tea.KeyPressMsg) (framework.Step, tea.Cmd, framework.StepResult) {
	switch msg.String() {
	case "up":
		s.moveCursorUp()
	case "down":
		s.moveCursorDown()
	case "home", "pgup":
		s.cursor = s.findFirstEnabled()
	case "end", "pgdown":
		s.cursor = s.findLastEnabled()
	case "enter", "right":
		// Advance even without a selection so the navigator can report it
		s.selectCursor()
		return s, nil, framework.StepAdvance
	case "left":
		return s, nil, framework.StepBack
	case "backspace":
		if len(s.filter) > 0 {
			r := []rune(s.filter)
			s.filter = string(r[:len(r)-1])
			s.applyFilter()
		}
	default:
		// Handle typing/pasting for filter
		if msg.Text != "" {
			if text := framework.FilterRunes([]rune(msg.Text), s.runeFilter); text != "" {
				s.filter += text
				s.applyFilter()
			}
		}
	}

	return s, nil, framework.StepContinue
}

// selectCursor selects the option under the cursor, if it is enabled.
func (s *FilterableListStep) selectCursor() {
	if s.cursor < 0 || s.cursor >= len(s.filtered) {
		return
	}
	idx := s.filtered[s.cursor].Index
	if s.options[idx].Disabled {
		return
	}
	s.selected = idx
	if s.onSelect != nil {
		s.onSelect(s.options[idx])
	}
}

func (s *FilterableListStep) View() string {
	var b strings.Builder
	b.WriteString(s.prompt + ":\n")
	b.WriteString(framework.FilterLabelStyle().Render("Filter: ") + framework.FilterStyle().Render(s.filter) + "\n\n")

	total := len(s.filtered)
	start := 0
	if s.cursor >= s.maxVisible {
		start = s.cursor - s.maxVisible + 1
	}
	end := min(start+s.maxVisible, total)

	if start > 0 {
		b.WriteString(framework.OptionNormalStyle().Render("  ↑ more above") + "\n")
	}

	for i := start; i < end; i++ {
		match := s.filtered[i]
		opt := s.options[match.Index]
		radio := styles.Radio(match.Index == s.selected) + " "

		if opt.Disabled {
			label := opt.Label
			if opt.Description != "" {
				label += " (" + opt.Description + ")"
			}
			b.WriteString("  " + framework.OptionDisabledStyle().Render(radio+label) + "\n")
			continue
		}

		cursor := "  "
		style := framework.OptionNormalStyle()
		if i == s.cursor {
			cursor = "> "
			style = framework.OptionSelectedStyle()
		}

		// Highlight matched characters if filtering
		var label string
		if s.filter != "" && len(match.MatchedIndexes) > 0 {
			label = s.highlightMatches(opt.Label, match.MatchedIndexes, i == s.cursor)
		} else {
			label = style.Render(opt.Label)
		}

		b.WriteString(cursor + style.Render(radio) + label + "\n")
		if opt.Description != "" {
			b.WriteString("      " + framework.OptionDescriptionStyle().Render(opt.Description) + "\n")
		}
	}

	if end < total {
		b.WriteString(framework.OptionNormalStyle().Render("  ↓ more below") + "\n")
	}

	if total == 0 {
		b.WriteString(framework.OptionNormalStyle().Render("  No matching items") + "\n")
	}

	if s.errFn != nil {
		if msg := s.errFn(); msg != "" {
			b.WriteString("\n" + framework.ErrorStyle().Render(msg) + "\n")
		}
	}

	return b.String()
}

func (s *FilterableListStep) Help() string {
	return "↑/↓ move • type to filter • enter select • esc clear/back"
}

func (s *FilterableListStep) Value() framework.StepValue {
	if s.selected < 0 {
		return framework.StepValue{Key: s.id}
	}
	opt := s.options[s.selected]
	return framework.StepValue{
		Key:   s.id,
		Label: opt.Label,
		Raw:   opt.Value,
	}
}

func (s *FilterableListStep) IsComplete() bool {
	return s.selected >= 0
}

// Reset clears the selection and the filter.
func (s *FilterableListStep) Reset() {
	s.selected = -1
	s.filter = ""
	s.applyFilter()
	s.cursor = s.findFirstEnabled()
}

func (s *FilterableListStep) HasClearableInput() bool {
	return s.filter != ""
}

func (s *FilterableListStep) ClearInput() tea.Cmd {
	s.filter = ""
	s.applyFilter()
	return nil
}

// SetOptions updates the options list and drops a selection that no longer exists.
func (s *FilterableListStep) SetOptions(options []framework.Option) {
	s.options = options
	if s.selected >= len(options) {
		s.selected = -1
	}
	s.applyFilter()
}

// Select marks the option whose value equals v, without invoking OnSelect.
// It reports whether such an option exists.
func (s *FilterableListStep) Select(v any) bool {
	for i, opt := range s.options {
		if opt.Value == v {
			s.selected = i
			return true
		}
	}
	return false
}

// GetFilter returns the current filter string.
func (s *FilterableListStep) GetFilter() string {
	return s.filter
}

// GetCursor returns the current cursor position in the filtered list.
func (s *FilterableListStep) GetCursor() int {
	return s.cursor
}

// GetSelectedOption returns the selected option, or an empty Option if none.
func (s *FilterableListStep) GetSelectedOption() framework.Option {
	if s.selected < 0 {
		return framework.Option{}
	}
	return s.options[s.selected]
}

// highlightMatches renders the label with matched characters highlighted.
func (s *FilterableListStep) highlightMatches(label string, matchedIndexes []int, isSelected bool) string {
	matchSet := make(map[int]bool)
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var result strings.Builder
	for i, r := range []rune(label) {
		char := string(r)
		if matchSet[i] {
			result.WriteString(framework.MatchHighlightStyle().Render(char))
		} else if isSelected {
			result.WriteString(framework.OptionSelectedStyle().Render(char))
		} else {
			result.WriteString(framework.OptionNormalStyle().Render(char))
		}
	}
	return result.String()
}

func (s *FilterableListStep) applyFilter() {
	if s.filter == "" {
		// No filter - show all options in original order
		s.filtered = make([]fuzzy.Match, len(s.options))
		for i := range s.options {
			s.filtered[i] = fuzzy.Match{Str: s.options[i].Label, Index: i}
		}
	} else {
		// Results are sorted by score (best first)
		s.filtered = fuzzy.FindFrom(s.filter, optionSource(s.options))
	}

	if s.cursor >= len(s.filtered) {
		s.cursor = max(0, len(s.filtered)-1)
	}
	if s.cursor < len(s.filtered) && s.options[s.filtered[s.cursor].Index].Disabled {
		if next := s.findNextEnabled(s.cursor); next >= 0 {
			s.cursor = next
		} else if prev := s.findPrevEnabled(s.cursor); prev >= 0 {
			s.cursor = prev
		}
	}
}

func (s *FilterableListStep) moveCursorUp() {
	if prev := s.findPrevEnabled(s.cursor - 1); prev >= 0 {
		s.cursor = prev
	}
}

func (s *FilterableListStep) moveCursorDown() {
	if next := s.findNextEnabled(s.cursor + 1); next >= 0 {
		s.cursor = next
	}
}

func (s *FilterableListStep) findFirstEnabled() int {
	if first := s.findNextEnabled(0); first >= 0 {
		return first
	}
	return 0
}

func (s *FilterableListStep) findLastEnabled() int {
	if last := s.findPrevEnabled(len(s.filtered) - 1); last >= 0 {
		return last
	}
	return max(0, len(s.filtered)-1)
}

func (s *FilterableListStep) findNextEnabled(from int) int {
	for i := max(from, 0); i < len(s.filtered); i++ {
		if !s.options[s.filtered[i].Index].Disabled {
			return i
		}
	}
	return -1
}

func (s *FilterableListStep) findPrevEnabled(from int) int {
	for i := min(from, len(s.filtered)-1); i >= 0; i-- {
		if !s.options[s.filtered[i].Index].Disabled {
			return i
		}
	}
	return -1
}

// FilteredCount returns the number of options matching the filter.
func (s *FilterableListStep) FilteredCount() int {
	return len(s.filtered)
}

// String implements fmt.Stringer for debugging.
func (s *FilterableListStep) String() string {
	return fmt.Sprintf("FilterableListStep{id=%s, cursor=%d, selected=%d, filter=%q}",
		s.id, s.cursor, s.selected, s.filter)
}
