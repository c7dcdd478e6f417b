package styles

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the icon set based on nerdfont configuration
type Symbols struct {
	RadioOn   string
	RadioOff  string
	Delivered string
	Failed    string
	Required  string
}

var defaultSymbols = Symbols{
	RadioOn:   "●",
	RadioOff:  "○",
	Delivered: "✓",
	Failed:    "✕",
	Required:  "*",
}

var nerdfontSymbols = Symbols{
	RadioOn:   "\uf192", // nf-fa-dot_circle_o
	RadioOff:  "\uf10c", // nf-fa-circle_o
	Delivered: "\uf00c", // nf-fa-check
	Failed:    "\uf00d", // nf-fa-times
	Required:  "*",
}

var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// Radio returns the radio-button symbol for a choice.
func Radio(selected bool) string {
	if selected {
		return currentSymbols.RadioOn
	}
	return currentSymbols.RadioOff
}

// FormatDelivery returns a colored delivery status for the history table.
func FormatDelivery(delivered bool) string {
	if delivered {
		return SuccessStyle.Render(currentSymbols.Delivered + " sent")
	}
	return ErrorStyle.Render(currentSymbols.Failed + " failed")
}

// RequiredMark returns the marker shown after required field labels.
func RequiredMark() string {
	return ErrorStyle.Render(currentSymbols.Required)
}

// FileLink renders path with an OSC 8 hyperlink to the file.
func FileLink(path string) string {
	styled := lipgloss.NewStyle().Underline(true).Render(path)
	return ansi.SetHyperlink("file://"+path) + styled + ansi.ResetHyperlink()
}
