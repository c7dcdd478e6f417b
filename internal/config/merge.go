package config

import (
	"fmt"
	"slices"
)

// MergeLocal merges a per-directory config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) (*Config, error) {
	if local == nil {
		return global, nil
	}

	// Fields not listed in LocalConfig are inherited from global as-is.
	merged := *global

	if local.WebhookURL != "" {
		merged.WebhookURL = local.WebhookURL
	}
	// Lists replace rather than append: a team's list is the whole list.
	if len(local.Submitters) > 0 {
		merged.Submitters = slices.Clone(local.Submitters)
	}
	if len(local.Departments) > 0 {
		merged.Departments = slices.Clone(local.Departments)
	}

	if err := finalize(&merged); err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	return &merged, nil
}
