package steps

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/intake/internal/ui/wizard/framework"
)

var namedKeys = map[string]tea.KeyPressMsg{
	"enter":     {Code: tea.KeyEnter},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
	"pgup":      {Code: tea.KeyPgUp},
	"pgdown":    {Code: tea.KeyPgDown},
	"esc":       {Code: tea.KeyEscape},
	"space":     {Code: tea.KeySpace, Text: " "},
	"backspace": {Code: tea.KeyBackspace},
	"tab":       {Code: tea.KeyTab},
	"shift+tab": {Code: tea.KeyTab, Mod: tea.ModShift},
}

// keyMsg builds a key press from a name in namedKeys, "ctrl+<letter>" or a
// single character.
func keyMsg(key string) tea.KeyPressMsg {
	if k, ok := namedKeys[key]; ok {
		return k
	}
	if letter, ok := strings.CutPrefix(key, "ctrl+"); ok && len(letter) == 1 {
		return tea.KeyPressMsg{Code: rune(letter[0]), Mod: tea.ModCtrl}
	}
	if len(key) == 1 {
		return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
	}
	return tea.KeyPressMsg{}
}

// typeText sends each rune of text as a key press.
func typeText[T framework.Step](t *testing.T, s T, text string) {
	t.Helper()
	for _, r := range text {
		updateStep(t, s, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// updateStep is a helper that performs Update and returns the concrete type.
func updateStep[T framework.Step](t *testing.T, s T, msg tea.KeyPressMsg) (T, framework.StepResult) {
	t.Helper()
	result, _, stepResult := s.Update(msg)
	concrete, ok := result.(T)
	if !ok {
		t.Fatalf("Update returned unexpected type: %T", result)
	}
	return concrete, stepResult
}
