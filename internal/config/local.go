package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-directory override file. Teams keep one in
// a shared folder to pin their own submitter and department lists.
const LocalConfigFileName = ".intake.toml"

// LocalConfig holds per-directory overrides from .intake.toml.
// Empty values indicate "not set" (inherit from global).
type LocalConfig struct {
	WebhookURL  string   `toml:"webhook_url"`
	Submitters  []string `toml:"submitters"`
	Departments []string `toml:"departments"`
}

// LoadLocal reads .intake.toml from dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if local.WebhookURL != "" {
		if err := ValidateWebhookURL(local.WebhookURL); err != nil {
			return nil, fmt.Errorf("%w in %s", err, configFile)
		}
	}
	if err := validateList(local.Submitters, "submitters"); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}
	if err := validateList(local.Departments, "departments"); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &local, nil
}

// defaultLocalConfig is the template for intake config init --local
const defaultLocalConfig = `# intake local config (per-directory overrides)
# Settings here override ~/.config/intake/config.toml when intake runs
# from this directory.

# webhook_url = "https://example.com/webhook/team"

# Lists replace the global ones
# submitters = ["Jane Doe", "John Roe"]
# departments = ["Dispatch", "Warehouse"]  # "Other" is added automatically
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

// InitLocal writes the local config template into dir.
// If force is true, overwrites an existing file.
func InitLocal(dir string, force bool) (string, error) {
	return initLocalFile(filepath.Join(dir, LocalConfigFileName), force)
}

func initLocalFile(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("local config already exists: " + path)
		}
	}
	if err := os.WriteFile(path, []byte(defaultLocalConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
