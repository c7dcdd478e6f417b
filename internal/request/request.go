// Package request reads automation requests from files for non-interactive
// submission.
//
// A request file mirrors the wizard:
//
//	name: Don Hill
//	department: Other
//	custom_department: Legal
//	automations:
//	  - summary: Invoice approvals
//	    current_process: Email chains with finance
//	    pain_points: Slow, easy to lose track
//	    desired_outcome: One-click approval
//	    tools: Outlook, QuickBooks
//
// YAML, JSON and TOML use the same field names.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/raphi011/intake/internal/intake"
)

// Format is a request file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatTOML}

// Automation is one automation entry in a request file.
type Automation struct {
	Summary        string `yaml:"summary" json:"summary" toml:"summary"`
	CurrentProcess string `yaml:"current_process" json:"current_process" toml:"current_process"`
	PainPoints     string `yaml:"pain_points" json:"pain_points" toml:"pain_points"`
	DesiredOutcome string `yaml:"desired_outcome" json:"desired_outcome" toml:"desired_outcome"`
	Tools          string `yaml:"tools" json:"tools" toml:"tools"`
}

// File is the decoded request file.
type File struct {
	Name             string       `yaml:"name" json:"name" toml:"name"`
	Department       string       `yaml:"department" json:"department" toml:"department"`
	CustomDepartment string       `yaml:"custom_department" json:"custom_department" toml:"custom_department"`
	Automations      []Automation `yaml:"automations" json:"automations" toml:"automations"`
}

// FormatFromPath picks the format from the file extension. Unknown
// extensions and "-" (stdin) are read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: yaml, json, toml)", s)
}

// Parse decodes data in format f. Unknown fields are rejected so typos do
// not silently drop answers.
func Parse(data []byte, f Format) (File, error) {
	var file File
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return File{}, fmt.Errorf("parse json: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return File{}, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return File{}, fmt.Errorf("parse toml: unknown field %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			if errors.Is(err, io.EOF) {
				return File{}, fmt.Errorf("parse yaml: empty request")
			}
			return File{}, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return File{}, fmt.Errorf("unknown format %q", f)
	}
	return file, nil
}

// Load reads and parses the request at path. "-" reads from stdin.
// An empty format is derived from the path.
func Load(path string, f Format) (File, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return File{}, fmt.Errorf("read request: %w", err)
	}
	if f == "" {
		f = FormatFromPath(path)
	}
	return Parse(data, f)
}

// FormState converts the file into wizard state. Entry IDs are left empty
// for the controller to assign.
func (f File) FormState() intake.FormState {
	s := intake.FormState{
		Submitter:        f.Name,
		Department:       f.Department,
		CustomDepartment: f.CustomDepartment,
	}
	for _, a := range f.Automations {
		s.Entries = append(s.Entries, intake.AutomationEntry{
			Summary:        a.Summary,
			CurrentProcess: a.CurrentProcess,
			PainPoints:     a.PainPoints,
			DesiredOutcome: a.DesiredOutcome,
			Tools:          a.Tools,
		})
	}
	return s
}
