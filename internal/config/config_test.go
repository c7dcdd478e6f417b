package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/webhook"
)

// clearEnv unsets the INTAKE_* overrides for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"INTAKE_WEBHOOK_URL", "INTAKE_DATA_DIR", "INTAKE_THEME"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.WebhookURL != webhook.DefaultURL {
		t.Errorf("WebhookURL = %q, want default", cfg.WebhookURL)
	}
	if cfg.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, DefaultHistoryLimit)
	}
	if !slices.Equal(cfg.Departments, intake.DefaultDepartments) {
		t.Errorf("Departments = %v", cfg.Departments)
	}

	// Default lists must not alias the package-level defaults.
	cfg.Submitters[0] = "changed"
	if intake.DefaultSubmitters[0] == "changed" {
		t.Error("Default() shares its submitter slice with intake.DefaultSubmitters")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WebhookURL != webhook.DefaultURL || cfg.Timeout != 0 {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
webhook_url = "https://hooks.example.com/intake"
timeout = "15s"
data_dir = "/var/lib/intake"
history_limit = 10
submitters = ["Jane Doe", "John Roe"]
departments = ["Dispatch", "Warehouse"]

[theme]
name = "nord"
mode = "dark"
accent = "#ff00ff"

[hooks.notify]
command = "notify-send {summary}"
description = "Desktop notification"
on = ["delivered"]
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WebhookURL != "https://hooks.example.com/intake" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.DataDir != "/var/lib/intake" || cfg.HistoryLimit != 10 {
		t.Errorf("DataDir = %q, HistoryLimit = %d", cfg.DataDir, cfg.HistoryLimit)
	}
	if !slices.Equal(cfg.Submitters, []string{"Jane Doe", "John Roe"}) {
		t.Errorf("Submitters = %v", cfg.Submitters)
	}
	if want := []string{"Dispatch", "Warehouse", intake.OtherDepartment}; !slices.Equal(cfg.Departments, want) {
		t.Errorf("Departments = %v, want %v", cfg.Departments, want)
	}
	if cfg.Theme != (ThemeConfig{Name: "nord", Mode: "dark", Accent: "#ff00ff"}) {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
	h, ok := cfg.Hooks["notify"]
	if !ok || h.Command != "notify-send {summary}" || !slices.Equal(h.On, []string{HookOnDelivered}) {
		t.Errorf("Hooks = %+v", cfg.Hooks)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		toml    string
		wantErr string
	}{
		{"bad toml", `webhook_url = `, "failed to parse config file"},
		{"relative url", `webhook_url = "/hook"`, "invalid webhook_url"},
		{"ftp url", `webhook_url = "ftp://example.com/x"`, "invalid webhook_url"},
		{"bad timeout", `timeout = "soon"`, "invalid timeout"},
		{"negative timeout", `timeout = "-1s"`, "invalid timeout"},
		{"relative data dir", `data_dir = "data"`, "data_dir must be absolute"},
		{"negative history", `history_limit = -1`, "invalid history_limit"},
		{"duplicate submitter", `submitters = ["A", "A"]`, "duplicate entry"},
		{"blank department", `departments = ["Sales", " "]`, "must not be blank"},
		{"unknown theme", "[theme]\nname = \"solarized\"", "invalid theme.name"},
		{"unknown mode", "[theme]\nmode = \"dim\"", "invalid theme.mode"},
		{"empty hook command", "[hooks.notify]\ncommand = \" \"", "invalid hooks.notify: command must not be empty"},
		{"unknown hook event", "[hooks.notify]\ncommand = \"x\"\non = [\"sent\"]", "invalid hooks.notify.on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.toml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	// Cannot use t.Parallel() - t.Setenv mutates process env
	t.Run("INTAKE_WEBHOOK_URL overrides the file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INTAKE_WEBHOOK_URL", "http://localhost:5678/webhook/test")
		cfg, err := LoadFile(writeConfig(t, `webhook_url = "https://hooks.example.com/intake"`))
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if cfg.WebhookURL != "http://localhost:5678/webhook/test" {
			t.Errorf("WebhookURL = %q", cfg.WebhookURL)
		}
	})

	t.Run("INTAKE_DATA_DIR and INTAKE_THEME", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INTAKE_DATA_DIR", "~/intake-data")
		t.Setenv("INTAKE_THEME", "dracula")
		cfg := Default()
		if err := applyEnvOverrides(&cfg); err != nil {
			t.Fatalf("applyEnvOverrides error: %v", err)
		}
		if cfg.DataDir != "~/intake-data" {
			t.Errorf("DataDir = %q", cfg.DataDir)
		}
		if cfg.Theme.Name != "dracula" {
			t.Errorf("Theme.Name = %q, want dracula", cfg.Theme.Name)
		}
	})

	t.Run("invalid env value is rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INTAKE_WEBHOOK_URL", "not a url")
		cfg := Default()
		if err := applyEnvOverrides(&cfg); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("empty env vars leave config unchanged", func(t *testing.T) {
		clearEnv(t)
		cfg := Config{DataDir: "/srv/intake", Theme: ThemeConfig{Name: "none"}}
		if err := applyEnvOverrides(&cfg); err != nil {
			t.Fatalf("applyEnvOverrides error: %v", err)
		}
		if cfg.DataDir != "/srv/intake" || cfg.Theme.Name != "none" {
			t.Errorf("cfg = %+v", cfg)
		}
	})
}

func TestDefaultConfigIsValidTOML(t *testing.T) {
	content := DefaultConfig()
	var raw rawConfig
	if _, err := toml.Decode(content, &raw); err != nil {
		t.Fatalf("DefaultConfig() produces invalid TOML: %v\nContent:\n%s", err, content)
	}
	if !slices.Equal(raw.Submitters, intake.DefaultSubmitters) {
		t.Errorf("template submitters = %v, want %v", raw.Submitters, intake.DefaultSubmitters)
	}
	if !slices.Equal(raw.Departments, intake.DefaultDepartments) {
		t.Errorf("template departments = %v, want %v", raw.Departments, intake.DefaultDepartments)
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake", "config.toml")

	if _, err := initFile(path, false); err != nil {
		t.Fatalf("initFile: %v", err)
	}
	if _, err := initFile(path, false); err == nil {
		t.Error("second initFile without force should fail")
	}
	if _, err := initFile(path, true); err != nil {
		t.Errorf("initFile with force: %v", err)
	}

	clearEnv(t)
	if _, err := LoadFile(path); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}
}

func TestIsValidThemeName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"none", true},
		{"default", true},
		{"dracula", true},
		{"nord", true},
		{"gruvbox", false},
		{"", false},
		{"DRACULA", false}, // case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidThemeName(tt.name); got != tt.valid {
				t.Errorf("isValidThemeName(%q) = %v, want %v", tt.name, got, tt.valid)
			}
		})
	}
}

func TestWithConfig_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{HistoryLimit: 3}
		if got := FromContext(WithConfig(context.Background(), cfg)); got != cfg {
			t.Error("FromContext did not return the stored config")
		}
	})

	t.Run("nil when not set", func(t *testing.T) {
		t.Parallel()
		if got := FromContext(context.Background()); got != nil {
			t.Errorf("FromContext on empty context = %v, want nil", got)
		}
	})
}

func TestHistoryPath(t *testing.T) {
	t.Parallel()

	cfg := &Config{DataDir: "/srv/intake"}
	got, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if got != "/srv/intake/history.json" {
		t.Errorf("HistoryPath = %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~", false},
		{"~/.intake", false},
		{"/abs/path", false},
		{".", true},
		{"../data", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path, "data_dir")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid", "dark", false},
		{"invalid", "dim", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnum(tt.value, "theme.mode", ValidThemeModes)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEnum(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}
