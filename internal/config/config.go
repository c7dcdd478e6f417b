package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/storage"
	"github.com/raphi011/intake/internal/webhook"
)

// ThemeConfig holds UI theme configuration
type ThemeConfig struct {
	Name     string `toml:"name" json:"name"`         // preset: "default", "dracula", "nord", "none"
	Mode     string `toml:"mode" json:"mode"`         // "auto", "light", "dark" (default: auto)
	Primary  string `toml:"primary" json:"primary"`   // main accent color (borders, titles)
	Accent   string `toml:"accent" json:"accent"`     // highlight color (selected items)
	Success  string `toml:"success" json:"success"`   // success indicators
	Error    string `toml:"error" json:"error"`       // validation errors
	Muted    string `toml:"muted" json:"muted"`       // placeholders, help text
	Normal   string `toml:"normal" json:"normal"`     // standard text
	Info     string `toml:"info" json:"info"`         // informational text
	Nerdfont bool   `toml:"nerdfont" json:"nerdfont"` // use nerd font symbols
}

// Config holds the intake configuration
type Config struct {
	WebhookURL   string          `toml:"webhook_url"`
	Timeout      time.Duration   `toml:"-"` // parsed from the timeout string; 0 = none
	DataDir      string          `toml:"data_dir"`
	HistoryLimit int             `toml:"history_limit"`
	Submitters   []string        `toml:"submitters"`
	Departments  []string        `toml:"departments"`
	Theme        ThemeConfig     `toml:"theme"`
	Hooks        map[string]Hook `toml:"hooks"`
}

// DefaultHistoryLimit caps history.json when history_limit is not set.
const DefaultHistoryLimit = 50

// Default returns the default configuration
func Default() Config {
	return Config{
		WebhookURL:   webhook.DefaultURL,
		DataDir:      storage.DefaultDataDir,
		HistoryLimit: DefaultHistoryLimit,
		Submitters:   slices.Clone(intake.DefaultSubmitters),
		Departments:  slices.Clone(intake.DefaultDepartments),
	}
}

// HistoryPath returns the history file inside the expanded data directory.
func (c *Config) HistoryPath() (string, error) {
	dir, err := storage.ExpandPath(c.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ValidateWebhookURL checks that u is an absolute http(s) URL.
func ValidateWebhookURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid webhook_url %q: %w", u, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("invalid webhook_url %q: must be an absolute http or https URL", u)
	}
	return nil
}

// Path returns the global config file path.
func Path() (string, error) {
	return configPath()
}

// configPath returns the path to the config file
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "intake", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before durations are parsed
type rawConfig struct {
	WebhookURL   string          `toml:"webhook_url"`
	Timeout      string          `toml:"timeout"`
	DataDir      string          `toml:"data_dir"`
	HistoryLimit int             `toml:"history_limit"`
	Submitters   []string        `toml:"submitters"`
	Departments  []string        `toml:"departments"`
	Theme        ThemeConfig     `toml:"theme"`
	Hooks        map[string]Hook `toml:"hooks"`
}

// Load reads config from ~/.config/intake/config.toml and applies
// INTAKE_* environment overrides.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		cfg := Default()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFile(path)
}

// LoadFile reads config from path, applying defaults for unset fields and
// environment overrides. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, applyEnvOverrides(&cfg)
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Config{
		WebhookURL:   raw.WebhookURL,
		DataDir:      raw.DataDir,
		HistoryLimit: raw.HistoryLimit,
		Submitters:   raw.Submitters,
		Departments:  raw.Departments,
		Theme:        raw.Theme,
		Hooks:        raw.Hooks,
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Default(), fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		if d < 0 {
			return Default(), fmt.Errorf("invalid timeout %q: must not be negative", raw.Timeout)
		}
		cfg.Timeout = d
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnvOverrides applies INTAKE_* variables, fills defaults for unset
// fields and validates the result.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("INTAKE_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("INTAKE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("INTAKE_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	return finalize(cfg)
}

// finalize fills defaults for unset fields and validates cfg.
func finalize(cfg *Config) error {
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = webhook.DefaultURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = storage.DefaultDataDir
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if len(cfg.Submitters) == 0 {
		cfg.Submitters = slices.Clone(intake.DefaultSubmitters)
	}
	if len(cfg.Departments) == 0 {
		cfg.Departments = slices.Clone(intake.DefaultDepartments)
	}
	// "Other" is always offered, last.
	if !slices.Contains(cfg.Departments, intake.OtherDepartment) {
		cfg.Departments = append(slices.Clone(cfg.Departments), intake.OtherDepartment)
	}

	if err := ValidateWebhookURL(cfg.WebhookURL); err != nil {
		return err
	}
	if err := ValidatePath(cfg.DataDir, "data_dir"); err != nil {
		return err
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("invalid history_limit %d: must not be negative", cfg.HistoryLimit)
	}
	if err := validateList(cfg.Submitters, "submitters"); err != nil {
		return err
	}
	if err := validateList(cfg.Departments, "departments"); err != nil {
		return err
	}
	if err := validateEnum(cfg.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := validateHooks(cfg.Hooks); err != nil {
		return err
	}
	return validateEnum(cfg.Theme.Mode, "theme.mode", ValidThemeModes)
}

type configKey struct{}

// WithConfig attaches the effective config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config attached with WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

const defaultConfig = `# intake configuration

# Webhook that receives submitted requests (HTTP POST, JSON body)
# Override with INTAKE_WEBHOOK_URL
# webhook_url = "https://n8n.alecautomations.com/webhook/5445a620-a5ee-456c-9ff0-83850c775d78"

# Request timeout as a Go duration ("10s", "1m"); "0s" waits forever
timeout = "0s"

# Where history.json and markdown exports (requests/) are kept
# Must be an absolute path or start with ~
# Override with INTAKE_DATA_DIR
data_dir = "~/.intake"

# Number of submissions kept in history.json
history_limit = 50

# General managers offered on the first step
submitters = [
  "Don Hill",
  "Mark Macy",
  "David Frank",
  "Paul Vaughn",
  "Dan Schrodel",
  "Dan Shanahan",
  "Brandon Cooley",
]

# Departments offered on the second step
# "Other" is always added and lets the submitter type a name
departments = ["Sales", "Operations", "Finance", "HR", "IT", "Marketing", "Other"]

# [theme]
# name = "default"  # default, dracula, nord, none
# mode = "auto"     # auto, light, dark
# primary = "#88c0d0"
# accent = "#b48ead"
# nerdfont = false

# Hooks run a shell command after a request is confirmed.
# "on" picks the delivery results that trigger the hook: delivered, failed, all.
# Hooks without "on" only run with intake send --hook NAME.
# The payload JSON is passed on stdin.
#
# Placeholders (shell-quoted): {name}, {department}, {count}, {summary},
# {submitted-at}, {status}, {error}, {trigger}
# Custom values from --arg key=value: {key}, {key:raw}, {key:-default}
#
# [hooks.notify]
# command = "notify-send 'Automation request sent' {summary}"
# description = "Desktop notification"
# on = ["delivered"]
#
# [hooks.archive]
# command = "cat > ~/intake-failed-$(date +%s).json"
# on = ["failed"]
`

// DefaultConfig returns the default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/intake/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	return initFile(path, force)
}

func initFile(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
