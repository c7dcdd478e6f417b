// Package export writes submitted requests as markdown documents under
// <data_dir>/requests, named <date>-<slug>.md.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/storage"
)

// Dir is the export subdirectory of the data directory.
const Dir = "requests"

// Markdown renders a payload as a markdown document.
func Markdown(p intake.SubmitPayload) string {
	var b strings.Builder

	b.WriteString("# Automation Request\n\n")
	fmt.Fprintf(&b, "- **Submitted by:** %s\n", p.Name)
	fmt.Fprintf(&b, "- **Department:** %s\n", p.Department)
	fmt.Fprintf(&b, "- **Submitted at:** %s\n", displayTime(p))

	for i, a := range p.Automations {
		fmt.Fprintf(&b, "\n## %d. %s\n", i+1, oneLine(a.Summary))
		section(&b, intake.FieldCurrentProcess.Label(), a.CurrentProcess)
		if strings.TrimSpace(a.PainPoints) != "" {
			section(&b, intake.FieldPainPoints.Label(), a.PainPoints)
		}
		section(&b, intake.FieldDesiredOutcome.Label(), a.DesiredOutcome)
		if strings.TrimSpace(a.Tools) != "" {
			section(&b, intake.FieldTools.Label(), a.Tools)
		}
	}
	return b.String()
}

func section(b *strings.Builder, label, body string) {
	fmt.Fprintf(b, "\n**%s**\n\n%s\n", label, strings.TrimSpace(body))
}

// displayTime formats SubmittedAt for humans, falling back to the raw value.
func displayTime(p intake.SubmitPayload) string {
	t, err := p.Time()
	if err != nil {
		return p.SubmittedAt
	}
	return t.Format("2006-01-02 15:04 MST")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FileName returns <date>-<slug>.md for a payload. The slug comes from the
// first automation summary, then the submitter name.
func FileName(p intake.SubmitPayload) string {
	date := "undated"
	if t, err := p.Time(); err == nil {
		date = t.Format("2006-01-02")
	}

	var s string
	if len(p.Automations) > 0 {
		s = slug.Make(p.Automations[0].Summary)
	}
	if s == "" {
		s = slug.Make(p.Name)
	}
	if s == "" {
		s = "request"
	}
	return date + "-" + s + ".md"
}

// Save writes the markdown export into <dataDir>/requests and returns its
// path. Existing files are never overwritten; a numeric suffix is added.
func Save(dataDir string, p intake.SubmitPayload) (string, error) {
	dir := filepath.Join(dataDir, Dir)
	name := FileName(p)
	base := strings.TrimSuffix(name, ".md")

	path := filepath.Join(dir, name)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		} else if err != nil {
			return "", fmt.Errorf("check export path: %w", err)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", base, i))
	}

	if err := storage.WriteFile(path, []byte(Markdown(p))); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
