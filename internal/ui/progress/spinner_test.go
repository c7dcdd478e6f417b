package progress

import (
	"bytes"
	"errors"
	"testing"
)

func TestSpinner_Disabled(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, false, "Sending request…")

	s.Start()
	if s.Running() {
		t.Error("disabled spinner should not run")
	}
	s.Stop()
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}

func TestRun_ReturnsError(t *testing.T) {
	want := errors.New("boom")
	called := false

	err := Run("Sending request…", func() error {
		called = true
		return want
	})

	if !called {
		t.Fatal("fn was not called")
	}
	if !errors.Is(err, want) {
		t.Errorf("Run() = %v, want %v", err, want)
	}
}
