package steps

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

// ConfirmationOptions customizes the confirmation screen actions.
type ConfirmationOptions struct {
	// Copy writes text to the clipboard (default clipboard.WriteAll).
	Copy func(text string) error
	// Save stores a markdown copy and returns its path. Nil disables the
	// save action.
	Save func(p intake.SubmitPayload) (string, error)
}

// ConfirmationScreen summarizes a submitted request.
type ConfirmationScreen struct {
	payload   intake.SubmitPayload
	copyFn    func(string) error
	saveFn    func(intake.SubmitPayload) (string, error)
	status    string
	statusErr bool
	width     int
}

// NewConfirmation creates the screen for p.
func NewConfirmation(p intake.SubmitPayload, opts ConfirmationOptions) *ConfirmationScreen {
	s := &ConfirmationScreen{
		payload: p,
		copyFn:  opts.Copy,
		saveFn:  opts.Save,
		width:   defaultFieldWidth,
	}
	if s.copyFn == nil {
		s.copyFn = clipboard.WriteAll
	}
	return s
}

func (s *ConfirmationScreen) Init() tea.Cmd {
	return nil
}

func (s *ConfirmationScreen) Update(msg tea.KeyPressMsg) (tea.Cmd, framework.ScreenResult) {
	switch msg.String() {
	case "n":
		return nil, framework.ScreenRestart
	case "q", "esc", "enter":
		return nil, framework.ScreenQuit
	case "c":
		s.copyPayload()
	case "s":
		s.savePayload()
	}
	return nil, framework.ScreenStay
}

func (s *ConfirmationScreen) copyPayload() {
	data, err := json.MarshalIndent(s.payload, "", "  ")
	if err == nil {
		err = s.copyFn(string(data))
	}
	if err != nil {
		s.setStatus(fmt.Sprintf("Failed to copy to clipboard: %v", err), true)
		return
	}
	s.setStatus("Copied request JSON to clipboard", false)
}

func (s *ConfirmationScreen) savePayload() {
	if s.saveFn == nil {
		return
	}
	path, err := s.saveFn(s.payload)
	if err != nil {
		s.setStatus(fmt.Sprintf("Failed to save: %v", err), true)
		return
	}
	s.setStatus("Saved to "+styles.FileLink(path), false)
}

func (s *ConfirmationScreen) setStatus(msg string, isErr bool) {
	s.status = msg
	s.statusErr = isErr
}

func (s *ConfirmationScreen) View() string {
	var b strings.Builder
	p := s.payload
	plural := len(p.Automations) > 1

	b.WriteString(framework.SuccessStyle().Render(styles.CurrentSymbols().Delivered+" Request Submitted!") + "\n")
	if plural {
		b.WriteString(framework.InfoStyle().Render("Thanks! Your automation requests have been submitted.") + "\n\n")
	} else {
		b.WriteString(framework.InfoStyle().Render("Thanks! Your automation request has been submitted.") + "\n\n")
	}

	b.WriteString(s.meta("Submitted by:", p.Name))
	b.WriteString(s.meta("Department:", p.Department))
	b.WriteString(s.meta("Submitted at:", localTime(p)))

	heading := "Automation Request:"
	if plural {
		heading = "Automation Requests:"
	}
	b.WriteString("\n" + styles.Bold.Render(heading) + "\n")

	for i, a := range p.Automations {
		b.WriteString("\n" + framework.OptionSelectedStyle().Render(fmt.Sprintf("#%d %s", i+1, a.Summary)) + "\n")
		s.detail(&b, "Current Process:", a.CurrentProcess)
		if strings.TrimSpace(a.PainPoints) != "" {
			s.detail(&b, "Pain Points:", a.PainPoints)
		}
		s.detail(&b, "Desired Outcome:", a.DesiredOutcome)
		if strings.TrimSpace(a.Tools) != "" {
			s.detail(&b, "Tools/Systems:", a.Tools)
		}
	}

	if s.status != "" {
		style := framework.InfoStyle()
		if s.statusErr {
			style = framework.ErrorStyle()
		}
		b.WriteString("\n" + style.Render(s.status) + "\n")
	}

	return b.String()
}

func (s *ConfirmationScreen) meta(label, value string) string {
	return framework.SummaryLabelStyle().Bold(true).Render(label) + " " + framework.OptionDescriptionStyle().Render(value) + "\n"
}

func (s *ConfirmationScreen) detail(b *strings.Builder, label, body string) {
	b.WriteString("  " + framework.FieldLabelStyle().Render(label) + "\n")
	wrapped := styles.MutedStyle.Width(max(s.width-4, 20)).Render(strings.TrimSpace(body))
	b.WriteString(indent(wrapped, "  ") + "\n")
}

func (s *ConfirmationScreen) Help() string {
	keys := []string{"n submit another request", "c copy JSON"}
	if s.saveFn != nil {
		keys = append(keys, "s save markdown")
	}
	keys = append(keys, "q quit")
	return strings.Join(keys, " • ")
}

// SetWidth wraps entry details to width.
func (s *ConfirmationScreen) SetWidth(width int) {
	s.width = width
}

// Status returns the result line of the last action.
func (s *ConfirmationScreen) Status() string {
	return s.status
}

// localTime formats SubmittedAt in the local zone, falling back to the raw value.
func localTime(p intake.SubmitPayload) string {
	t, err := p.Time()
	if err != nil {
		return p.SubmittedAt
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
