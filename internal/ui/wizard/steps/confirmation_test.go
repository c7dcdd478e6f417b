package steps

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

func samplePayload() intake.SubmitPayload {
	return intake.SubmitPayload{
		Name:       "Jane Doe",
		Department: "Sales",
		Automations: []intake.AutomationRequest{
			{Summary: "Invoice approvals", CurrentProcess: "Email chain", DesiredOutcome: "One click"},
			{Summary: "Lead routing", CurrentProcess: "Manual", PainPoints: "Slow", DesiredOutcome: "Auto", Tools: "HubSpot"},
		},
		SubmittedAt: "2024-03-05T14:07:09.123Z",
	}
}

func TestConfirmationScreen_View(t *testing.T) {
	t.Run("shows metadata and numbered entries", func(t *testing.T) {
		s := NewConfirmation(samplePayload(), ConfirmationOptions{})
		view := s.View()

		for _, want := range []string{
			"Request Submitted!",
			"requests have been submitted",
			"Jane Doe",
			"Sales",
			"#1 Invoice approvals",
			"#2 Lead routing",
			"Automation Requests:",
		} {
			if !strings.Contains(view, want) {
				t.Errorf("View missing %q", want)
			}
		}
	})

	t.Run("optional fields only when present", func(t *testing.T) {
		p := samplePayload()
		p.Automations = p.Automations[:1]
		view := NewConfirmation(p, ConfirmationOptions{}).View()

		if strings.Contains(view, "Pain Points:") || strings.Contains(view, "Tools/Systems:") {
			t.Error("empty optional fields should be hidden")
		}
		if !strings.Contains(view, "request has been submitted") {
			t.Error("single entry should use the singular message")
		}

		view = NewConfirmation(samplePayload(), ConfirmationOptions{}).View()
		if !strings.Contains(view, "Pain Points:") || !strings.Contains(view, "HubSpot") {
			t.Error("non-empty optional fields should be shown")
		}
	})

	t.Run("unparseable timestamp is shown raw", func(t *testing.T) {
		p := samplePayload()
		p.SubmittedAt = "yesterday"

		if !strings.Contains(NewConfirmation(p, ConfirmationOptions{}).View(), "yesterday") {
			t.Error("raw timestamp should be shown")
		}
	})
}

func TestConfirmationScreen_Keys(t *testing.T) {
	tests := []struct {
		key  string
		want framework.ScreenResult
	}{
		{"n", framework.ScreenRestart},
		{"q", framework.ScreenQuit},
		{"esc", framework.ScreenQuit},
		{"enter", framework.ScreenQuit},
		{"x", framework.ScreenStay},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := NewConfirmation(samplePayload(), ConfirmationOptions{Copy: func(string) error { return nil }})
			_, got := s.Update(keyMsg(tt.key))
			if got != tt.want {
				t.Errorf("Update(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfirmationScreen_Copy(t *testing.T) {
	t.Run("copies payload JSON", func(t *testing.T) {
		var copied string
		s := NewConfirmation(samplePayload(), ConfirmationOptions{
			Copy: func(text string) error {
				copied = text
				return nil
			},
		})

		_, result := s.Update(keyMsg("c"))

		if result != framework.ScreenStay {
			t.Errorf("Result = %v, want ScreenStay", result)
		}
		var got intake.SubmitPayload
		if err := json.Unmarshal([]byte(copied), &got); err != nil {
			t.Fatalf("clipboard does not hold JSON: %v", err)
		}
		if got.Name != "Jane Doe" || len(got.Automations) != 2 {
			t.Errorf("copied payload = %+v", got)
		}
		if !strings.Contains(s.Status(), "Copied") {
			t.Errorf("Status = %q, want copy confirmation", s.Status())
		}
	})

	t.Run("reports clipboard failure", func(t *testing.T) {
		s := NewConfirmation(samplePayload(), ConfirmationOptions{
			Copy: func(string) error { return errors.New("no clipboard") },
		})

		s.Update(keyMsg("c"))

		if !strings.Contains(s.Status(), "no clipboard") {
			t.Errorf("Status = %q, want the clipboard error", s.Status())
		}
	})
}

func TestConfirmationScreen_Save(t *testing.T) {
	t.Run("saves and shows the path", func(t *testing.T) {
		var saved intake.SubmitPayload
		s := NewConfirmation(samplePayload(), ConfirmationOptions{
			Save: func(p intake.SubmitPayload) (string, error) {
				saved = p
				return "/tmp/requests/2024-03-05-invoice-approvals.md", nil
			},
		})

		s.Update(keyMsg("s"))

		if saved.Name != "Jane Doe" {
			t.Error("Save should receive the payload")
		}
		if !strings.Contains(s.Status(), "2024-03-05-invoice-approvals.md") {
			t.Errorf("Status = %q, want the saved path", s.Status())
		}
		if !strings.Contains(s.Help(), "s save") {
			t.Error("Help should list the save action")
		}
	})

	t.Run("save disabled without a saver", func(t *testing.T) {
		s := NewConfirmation(samplePayload(), ConfirmationOptions{})

		s.Update(keyMsg("s"))

		if s.Status() != "" {
			t.Errorf("Status = %q, want empty", s.Status())
		}
		if strings.Contains(s.Help(), "save") {
			t.Error("Help should not list the save action")
		}
	})

	t.Run("reports save failure", func(t *testing.T) {
		s := NewConfirmation(samplePayload(), ConfirmationOptions{
			Save: func(intake.SubmitPayload) (string, error) { return "", errors.New("disk full") },
		})

		s.Update(keyMsg("s"))

		if !strings.Contains(s.Status(), "disk full") {
			t.Errorf("Status = %q, want the save error", s.Status())
		}
	})
}

func TestConfirmationScreen_Interface(t *testing.T) {
	var s framework.Screen = NewConfirmation(samplePayload(), ConfirmationOptions{})

	if s.Init() != nil {
		t.Error("Init() should return nil")
	}
	if _, ok := s.(framework.Sizer); !ok {
		t.Error("screen should implement Sizer")
	}
}
