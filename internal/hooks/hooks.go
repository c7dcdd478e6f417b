package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
)

// Trigger identifies what confirmed the request.
type Trigger string

const (
	TriggerSend   Trigger = "send"
	TriggerWizard Trigger = "wizard"
)

// shellQuote wraps s in single quotes. An embedded single quote closes the
// quoted string, is emitted as \' and reopens it.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Context holds the values for placeholder substitution.
type Context struct {
	Payload intake.SubmitPayload
	SendErr error             // delivery error, nil when delivered
	Trigger Trigger           // send or wizard
	Env     map[string]string // custom values from --arg key=value
	Dir     string            // working directory, empty for the current one
	DryRun  bool              // print commands instead of running them
}

// Event returns the hook event matching the delivery result.
func (c Context) Event() string {
	if c.SendErr != nil {
		return config.HookOnFailed
	}
	return config.HookOnDelivered
}

// Match is a hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Select determines which hooks run for event. If name is set, only that
// hook runs regardless of its "on" list. Matches are sorted by name.
func Select(hooks map[string]config.Hook, name string, noHook bool, event string) ([]Match, error) {
	if noHook {
		return nil, nil
	}

	if name != "" {
		h, ok := hooks[name]
		if !ok {
			return nil, fmt.Errorf("unknown hook %q", name)
		}
		return []Match{{Name: name, Hook: h}}, nil
	}

	var matches []Match
	for n, h := range hooks {
		if matchesEvent(h, event) {
			matches = append(matches, Match{Name: n, Hook: h})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return strings.Compare(a.Name, b.Name) })
	return matches, nil
}

// matchesEvent reports whether event is in the hook's "on" list.
// Hooks without "on" never match.
func matchesEvent(h config.Hook, event string) bool {
	for _, on := range h.On {
		if on == config.HookOnAll || on == event {
			return true
		}
	}
	return false
}

// Run runs every match in order and stops at the first failure.
func Run(ctx context.Context, matches []Match, hc Context) error {
	for _, m := range matches {
		if err := runHook(ctx, m, hc); err != nil {
			return fmt.Errorf("hook %q failed: %w", m.Name, err)
		}
	}
	return nil
}

// RunNonFatal runs every match, logging failures as warnings.
func RunNonFatal(ctx context.Context, matches []Match, hc Context) {
	l := log.FromContext(ctx)
	for _, m := range matches {
		if err := runHook(ctx, m, hc); err != nil {
			l.Printf("Warning: hook %q failed: %v\n", m.Name, err)
		}
	}
}

func runHook(ctx context.Context, m Match, hc Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(m.Hook.Command, hc)

	if hc.DryRun {
		l.Printf("[dry-run] %s: %s\n", m.Name, command)
		return nil
	}

	stdin, err := json.Marshal(hc.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	l.Printf("Running hook '%s'...\n", m.Name)
	l.Debug("hook", "name", m.Name, "command", command)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = hc.Dir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = l.Writer()
	cmd.Stderr = &stderr

	err = cmd.Run()
	stderrText := stderr.String()
	io.WriteString(l.Writer(), stderrText)
	if err != nil {
		if msg := strings.TrimSpace(stderrText); msg != "" {
			return fmt.Errorf("%w: %s", err, lastLine(msg))
		}
		return err
	}

	if m.Hook.Description != "" {
		l.Printf("  ✓ %s\n", m.Hook.Description)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ParseEnv parses "key=value" strings into a map.
func ParseEnv(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, e := range pairs {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// placeholderRegex matches {key}, {key:raw} and {key:-default}. A leading
// $ is captured so shell expansions like ${HOME} are left alone.
var placeholderRegex = regexp.MustCompile(`\$?\{([a-zA-Z_][a-zA-Z0-9_-]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values
// from hc in a single pass, so substituted text is never expanded again.
// Request placeholders take precedence over --arg values; unknown keys
// expand to their default, or to an empty quoted string without one.
func SubstitutePlaceholders(command string, hc Context) string {
	values := requestValues(hc)

	return placeholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		if strings.HasPrefix(match, "$") {
			return match
		}
		sub := placeholderRegex.FindStringSubmatch(match)
		key, raw, def := sub[1], sub[2] == ":raw", sub[3]

		value, ok := values[key]
		if !ok {
			value, ok = hc.Env[key]
		}
		if !ok {
			value = def
		}
		if raw {
			return value
		}
		return shellQuote(value)
	})
}

func requestValues(hc Context) map[string]string {
	p := hc.Payload
	summary := ""
	if len(p.Automations) > 0 {
		summary = p.Automations[0].Summary
	}
	status, errText := config.HookOnDelivered, ""
	if hc.SendErr != nil {
		status, errText = config.HookOnFailed, hc.SendErr.Error()
	}

	return map[string]string{
		"name":         p.Name,
		"department":   p.Department,
		"count":        strconv.Itoa(len(p.Automations)),
		"summary":      summary,
		"submitted-at": p.SubmittedAt,
		"status":       status,
		"error":        errText,
		"trigger":      string(hc.Trigger),
	}
}
