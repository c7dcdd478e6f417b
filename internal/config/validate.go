package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidThemeNames = []string{"default", "dracula", "nord", "none"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// isValidThemeName reports whether name is a known theme preset.
func isValidThemeName(name string) bool {
	return slices.Contains(ValidThemeNames, name)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateList checks that a choice list has no blank or duplicate items.
func validateList(items []string, field string) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("invalid %s[%d]: must not be blank", field, i)
		}
		if seen[item] {
			return fmt.Errorf("invalid %s: duplicate entry %q", field, item)
		}
		seen[item] = true
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
