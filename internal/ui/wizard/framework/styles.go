package framework

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/intake/internal/ui/styles"
)

// Styles are built on each call so a theme applied by styles.Init after
// package init is picked up.

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boldFg(c color.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

// BorderStyle frames the wizard with a left rule in the primary color.
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Primary).
		Margin(1, 0).
		Padding(0, 2)
}

func TitleStyle() lipgloss.Style    { return boldFg(styles.Primary) }
func ProgressStyle() lipgloss.Style { return fg(styles.Muted) }

// Step tabs: the active step is highlighted, completed ones get a check,
// steps not reached yet are muted.
func StepActiveStyle() lipgloss.Style    { return boldFg(styles.Accent) }
func StepCompletedStyle() lipgloss.Style { return fg(styles.Normal) }
func StepCheckStyle() lipgloss.Style     { return fg(styles.Success) }
func StepInactiveStyle() lipgloss.Style  { return fg(styles.Muted) }
func StepArrowStyle() lipgloss.Style     { return fg(styles.Muted) }

func OptionSelectedStyle() lipgloss.Style    { return boldFg(styles.Accent) }
func OptionNormalStyle() lipgloss.Style      { return fg(styles.Normal) }
func OptionDisabledStyle() lipgloss.Style    { return fg(styles.Muted) }
func OptionDescriptionStyle() lipgloss.Style { return fg(styles.Muted) }

// MatchHighlightStyle marks the characters a fuzzy filter matched.
func MatchHighlightStyle() lipgloss.Style {
	return boldFg(styles.Accent).Underline(true)
}

func FilterStyle() lipgloss.Style      { return boldFg(styles.Accent) }
func FilterLabelStyle() lipgloss.Style { return fg(styles.Muted) }

// Entry form labels. The focused field's label takes the accent color.
func FieldLabelStyle() lipgloss.Style        { return fg(styles.Normal) }
func FocusedFieldLabelStyle() lipgloss.Style { return boldFg(styles.Accent) }
func SummaryLabelStyle() lipgloss.Style      { return fg(styles.Normal) }

func HelpStyle() lipgloss.Style    { return fg(styles.Muted).MarginTop(1) }
func InfoStyle() lipgloss.Style    { return fg(styles.Info).Italic(true) }
func ErrorStyle() lipgloss.Style   { return fg(styles.Error) }
func SuccessStyle() lipgloss.Style { return boldFg(styles.Success) }

// ButtonStyle renders the Next/Submit control; a disabled button is muted.
func ButtonStyle(enabled bool) lipgloss.Style {
	if !enabled {
		return fg(styles.Muted).Padding(0, 1)
	}
	return boldFg(styles.Accent).Padding(0, 1)
}
