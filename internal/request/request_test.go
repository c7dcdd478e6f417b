package request

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlRequest = `name: Don Hill
department: Other
custom_department: Legal
automations:
  - summary: Invoice approvals
    current_process: |
      Email chains
      with finance
    desired_outcome: One click
    tools: Outlook
`

const jsonRequest = `{
  "name": "Don Hill",
  "department": "Sales",
  "automations": [
    {"summary": "Lead routing", "current_process": "Manual", "desired_outcome": "Auto", "pain_points": "Slow"}
  ]
}`

const tomlRequest = `name = "Don Hill"
department = "Sales"

[[automations]]
summary = "Lead routing"
current_process = "Manual"
desired_outcome = "Auto"
`

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		format  Format
		summary string
	}{
		{"yaml", yamlRequest, FormatYAML, "Invoice approvals"},
		{"json", jsonRequest, FormatJSON, "Lead routing"},
		{"toml", tomlRequest, FormatTOML, "Lead routing"},
		{"json read as yaml", jsonRequest, FormatYAML, "Lead routing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if f.Name != "Don Hill" {
				t.Errorf("Name = %q, want Don Hill", f.Name)
			}
			if len(f.Automations) != 1 || f.Automations[0].Summary != tt.summary {
				t.Errorf("Automations = %+v, want summary %q", f.Automations, tt.summary)
			}
		})
	}
}

func TestParse_MultilineYAML(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(yamlRequest), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := f.Automations[0].CurrentProcess; got != "Email chains\nwith finance\n" {
		t.Errorf("CurrentProcess = %q", got)
	}
}

func TestParse_UnknownFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", "name: Don\nnmae: typo\n", FormatYAML},
		{"json", `{"name": "Don", "nmae": "typo"}`, FormatJSON},
		{"toml", "name = \"Don\"\nnmae = \"typo\"\n", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error for unknown field")
			}
			if !strings.Contains(err.Error(), "nmae") {
				t.Errorf("error %q should name the field", err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	if _, err := Parse(nil, FormatYAML); err == nil {
		t.Error("expected error for empty yaml")
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"request.json": FormatJSON,
		"REQUEST.JSON": FormatJSON,
		"request.toml": FormatTOML,
		"request.yaml": FormatYAML,
		"request.yml":  FormatYAML,
		"request":      FormatYAML,
		"-":            FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "request.toml")
	if err := os.WriteFile(path, []byte(tomlRequest), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Department != "Sales" {
		t.Errorf("Department = %q, want Sales", f.Department)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFile_FormState(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(yamlRequest), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	s := f.FormState()

	if s.Submitter != "Don Hill" || s.ResolvedDepartment() != "Legal" {
		t.Errorf("state = %+v", s)
	}
	if len(s.Entries) != 1 || s.Entries[0].ID != "" || s.Entries[0].Tools != "Outlook" {
		t.Errorf("Entries = %+v", s.Entries)
	}
}
