package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/intake/internal/intake"
)

func samplePayload() intake.SubmitPayload {
	return intake.SubmitPayload{
		Name:       "Jane Doe",
		Department: "Sales",
		Automations: []intake.AutomationRequest{
			{Summary: "Automate daily revenue report emails", CurrentProcess: "Copy numbers by hand", DesiredOutcome: "Email at 8am"},
			{Summary: "Sync leads", CurrentProcess: "CSV export", PainPoints: "Slow", DesiredOutcome: "Live sync", Tools: "HubSpot"},
		},
		SubmittedAt: "2024-03-05T14:07:09.123Z",
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		p    intake.SubmitPayload
		want string
	}{
		{
			name: "first summary",
			p:    samplePayload(),
			want: "2024-03-05-automate-daily-revenue-report-emails.md",
		},
		{
			name: "falls back to submitter",
			p:    intake.SubmitPayload{Name: "Jane Doe", SubmittedAt: "2024-03-05T14:07:09.123Z"},
			want: "2024-03-05-jane-doe.md",
		},
		{
			name: "nothing to slug",
			p:    intake.SubmitPayload{Automations: []intake.AutomationRequest{{Summary: "!!!"}}, SubmittedAt: "bad"},
			want: "undated-request.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.p); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(samplePayload())

	for _, want := range []string{
		"# Automation Request",
		"- **Submitted by:** Jane Doe",
		"- **Department:** Sales",
		"- **Submitted at:** 2024-03-05 14:07 UTC",
		"## 1. Automate daily revenue report emails",
		"## 2. Sync leads",
		"**Tools / Systems Involved**\n\nHubSpot",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	// Optional sections only appear for the entry that has them.
	if n := strings.Count(md, intake.FieldPainPoints.Label()); n != 1 {
		t.Errorf("pain points section appears %d times, want 1", n)
	}
	if n := strings.Count(md, intake.FieldCurrentProcess.Label()); n != 2 {
		t.Errorf("current process section appears %d times, want 2", n)
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := samplePayload()

	first, err := Save(dir, p)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := filepath.Join(dir, Dir, "2024-03-05-automate-daily-revenue-report-emails.md")
	if first != want {
		t.Errorf("path = %q, want %q", first, want)
	}

	second, err := Save(dir, p)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if second != strings.TrimSuffix(want, ".md")+"-2.md" {
		t.Errorf("second path = %q, want numeric suffix", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Markdown(p) {
		t.Error("saved content differs from Markdown()")
	}
}
