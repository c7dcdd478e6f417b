package styles

import (
	"slices"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/intake/internal/config"
)

func TestInit_DefaultTheme(t *testing.T) {
	Init(config.ThemeConfig{Mode: "dark"})

	theme := Current()
	if theme.Primary != lipgloss.Color("62") {
		t.Errorf("expected default primary color 62, got %v", theme.Primary)
	}
	if Primary != theme.Primary {
		t.Error("Init should update the package color variables")
	}
}

func TestInit_PresetTheme(t *testing.T) {
	tests := []struct {
		preset string
		mode   string
		want   any
	}{
		{"dracula", "dark", lipgloss.Color("#bd93f9")},
		{"nord", "dark", lipgloss.Color("#88c0d0")},
		{"nord", "light", lipgloss.Color("#5e81ac")},
		{"dracula", "light", lipgloss.Color("#bd93f9")}, // no light variant
		{"none", "dark", lipgloss.NoColor{}},
	}

	for _, tt := range tests {
		t.Run(tt.preset+"/"+tt.mode, func(t *testing.T) {
			Init(config.ThemeConfig{Name: tt.preset, Mode: tt.mode})
			if got := Current().Primary; got != tt.want {
				t.Errorf("primary = %v, want %v", got, tt.want)
			}
		})
	}

	Init(config.ThemeConfig{Mode: "dark"})
}

func TestInit_PresetWithOverride(t *testing.T) {
	Init(config.ThemeConfig{Name: "dracula", Mode: "dark", Accent: "#123456"})

	theme := Current()
	if theme.Primary != lipgloss.Color("#bd93f9") {
		t.Errorf("expected dracula primary color, got %v", theme.Primary)
	}
	if theme.Accent != lipgloss.Color("#123456") {
		t.Errorf("expected custom accent color #123456, got %v", theme.Accent)
	}

	Init(config.ThemeConfig{Mode: "dark"})
}

func TestSelectTheme_Auto(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	if got := selectTheme(config.ThemeConfig{Name: "nord"}, dark); got.Primary != NordTheme.Primary {
		t.Errorf("auto on dark background = %v, want nord dark", got.Primary)
	}
	if got := selectTheme(config.ThemeConfig{Name: "nord", Mode: "auto"}, light); got.Primary != NordLightTheme.Primary {
		t.Errorf("auto on light background = %v, want nord light", got.Primary)
	}
	if got := selectTheme(config.ThemeConfig{}, light); got.Primary != DefaultTheme.Primary {
		t.Errorf("default theme on light background = %v, want dark fallback", got.Primary)
	}
}

func TestPresetNames(t *testing.T) {
	for _, name := range PresetNames() {
		if _, ok := themeFamilies[name]; !ok {
			t.Errorf("preset %q has no theme family", name)
		}
	}
	if len(themeFamilies) != len(PresetNames()) {
		t.Errorf("themeFamilies has %d entries, PresetNames %d", len(themeFamilies), len(PresetNames()))
	}
	if !slices.Contains(PresetNames(), "default") {
		t.Error("default preset missing")
	}
}
