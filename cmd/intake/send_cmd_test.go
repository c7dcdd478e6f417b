package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/export"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/output"
)

type fakeSender struct {
	sent []intake.SubmitPayload
	err  error
}

func (f *fakeSender) Send(_ context.Context, p intake.SubmitPayload) error {
	f.sent = append(f.sent, p)
	return f.err
}

// testContext returns a context with buffered output and a config rooted in a temp dir.
func testContext(t *testing.T) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&stderr, false, false))
	ctx = output.WithPrinter(ctx, &stdout)
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return config.WithConfig(ctx, &cfg), &stdout, &stderr
}

func writeRequest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validRequest = `name: Don Hill
department: Sales
automations:
  - summary: Invoice approvals
    current_process: Email chains
    desired_outcome: One click
`

func sendOpts(ctx context.Context, file string, sender intake.Sender) sendOptions {
	return sendOptions{
		File:       file,
		Sender:     sender,
		DataDir:    configFrom(ctx).DataDir,
		HistoryMax: 10,
		Now:        func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) },
	}
}

func TestRunSend(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testContext(t)
	sender := &fakeSender{}
	opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), sender)

	if err := runSend(ctx, opts); err != nil {
		t.Fatalf("runSend() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d payloads, want 1", len(sender.sent))
	}
	p := sender.sent[0]
	if p.Name != "Don Hill" || p.Department != "Sales" || p.SubmittedAt != "2024-03-05T14:07:09.000Z" {
		t.Errorf("payload = %+v", p)
	}
	if !strings.Contains(stdout.String(), "## 1. Invoice approvals") {
		t.Errorf("stdout should hold the markdown summary, got:\n%s", stdout.String())
	}

	h, err := history.Load(history.Path(opts.DataDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Entries) != 1 || !h.Entries[0].Delivered {
		t.Errorf("history = %+v, want one delivered entry", h.Entries)
	}
}

func TestRunSend_Invalid(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testContext(t)
	sender := &fakeSender{}
	file := writeRequest(t, "request.yaml", "name: Don Hill\ndepartment: Other\nautomations:\n  - summary: x\n")

	err := runSend(ctx, sendOpts(ctx, file, sender))

	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{intake.MsgCustomDepartmentRequired, "automation #1: " + intake.MsgCurrentProcessRequired} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should contain %q, got:\n%v", want, err)
		}
	}
	if len(sender.sent) != 0 {
		t.Error("invalid request must not be sent")
	}
}

func TestRunSend_NoAutomations(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testContext(t)
	file := writeRequest(t, "request.json", `{"name": "Don Hill", "department": "Sales"}`)

	err := runSend(ctx, sendOpts(ctx, file, &fakeSender{}))

	if err == nil || !strings.Contains(err.Error(), intake.MsgEntriesRequired) {
		t.Errorf("error = %v, want %q", err, intake.MsgEntriesRequired)
	}
}

func TestRunSend_DryRun(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testContext(t)
	sender := &fakeSender{}
	opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), sender)
	opts.DryRun = true

	if err := runSend(ctx, opts); err != nil {
		t.Fatalf("runSend() error = %v", err)
	}

	if len(sender.sent) != 0 {
		t.Error("dry run must not send")
	}
	var p intake.SubmitPayload
	if err := json.Unmarshal(stdout.Bytes(), &p); err != nil {
		t.Fatalf("stdout is not payload JSON: %v\n%s", err, stdout.String())
	}
	if p.Name != "Don Hill" || len(p.Automations) != 1 {
		t.Errorf("payload = %+v", p)
	}
	if _, err := os.Stat(history.Path(opts.DataDir)); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run must not write history")
	}
}

func TestRunSend_DeliveryFailure(t *testing.T) {
	t.Parallel()

	ctx, stdout, stderr := testContext(t)
	opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{err: errors.New("503 Service Unavailable")})

	err := runSend(ctx, opts)

	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("runSend() error = %v, want delivery error", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("no summary expected on failure, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Warning") {
		t.Errorf("stderr should log the failure, got %q", stderr.String())
	}

	h, err := history.Load(history.Path(opts.DataDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Entries) != 1 || h.Entries[0].Delivered {
		t.Errorf("history = %+v, want one failed entry", h.Entries)
	}
}

func TestRunSend_JSONAndSave(t *testing.T) {
	t.Parallel()

	ctx, stdout, stderr := testContext(t)
	opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{})
	opts.JSON = true
	opts.Save = true

	if err := runSend(ctx, opts); err != nil {
		t.Fatalf("runSend() error = %v", err)
	}

	var p intake.SubmitPayload
	if err := json.Unmarshal(stdout.Bytes(), &p); err != nil {
		t.Fatalf("stdout is not payload JSON: %v", err)
	}
	saved := filepath.Join(opts.DataDir, export.Dir, "2024-03-05-invoice-approvals.md")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("markdown export missing: %v", err)
	}
	if !strings.Contains(stderr.String(), "Saved to") {
		t.Errorf("stderr = %q, want save notice", stderr.String())
	}
}

func TestRunSend_MissingFile(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testContext(t)

	if err := runSend(ctx, sendOpts(ctx, filepath.Join(t.TempDir(), "nope.yaml"), &fakeSender{})); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunSend_Hooks(t *testing.T) {
	t.Parallel()

	t.Run("delivered hook gets the payload", func(t *testing.T) {
		t.Parallel()
		ctx, _, _ := testContext(t)
		dump := filepath.Join(t.TempDir(), "payload.json")
		opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{})
		opts.Hooks = map[string]config.Hook{
			"dump":    {Command: "cat > " + dump, On: []string{config.HookOnDelivered}},
			"onerror": {Command: "exit 1", On: []string{config.HookOnFailed}},
		}

		if err := runSend(ctx, opts); err != nil {
			t.Fatalf("runSend() error = %v", err)
		}
		data, err := os.ReadFile(dump)
		if err != nil {
			t.Fatalf("hook did not run: %v", err)
		}
		var p intake.SubmitPayload
		if err := json.Unmarshal(data, &p); err != nil || p.Name != "Don Hill" {
			t.Errorf("hook stdin = %s (%v)", data, err)
		}
	})

	t.Run("failed hook on delivery failure is a warning", func(t *testing.T) {
		t.Parallel()
		ctx, _, stderr := testContext(t)
		opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{err: errors.New("down")})
		opts.Hooks = map[string]config.Hook{"alert": {Command: "exit 2", On: []string{config.HookOnFailed}}}

		err := runSend(ctx, opts)

		if err == nil || !strings.Contains(err.Error(), "deliver request") {
			t.Fatalf("runSend() error = %v, want the delivery error", err)
		}
		if !strings.Contains(stderr.String(), `hook "alert" failed`) {
			t.Errorf("stderr = %q, want hook warning", stderr.String())
		}
	})

	t.Run("hook failure after delivery is an error", func(t *testing.T) {
		t.Parallel()
		ctx, _, _ := testContext(t)
		opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{})
		opts.Hooks = map[string]config.Hook{"bad": {Command: "exit 1", On: []string{config.HookOnAll}}}

		if err := runSend(ctx, opts); err == nil || !strings.Contains(err.Error(), `hook "bad" failed`) {
			t.Errorf("runSend() error = %v", err)
		}
	})

	t.Run("no-hook skips hooks", func(t *testing.T) {
		t.Parallel()
		ctx, _, _ := testContext(t)
		opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), &fakeSender{})
		opts.Hooks = map[string]config.Hook{"bad": {Command: "exit 1", On: []string{config.HookOnAll}}}
		opts.Hook.NoHook = true

		if err := runSend(ctx, opts); err != nil {
			t.Errorf("runSend() error = %v", err)
		}
	})

	t.Run("unknown hook fails before sending", func(t *testing.T) {
		t.Parallel()
		ctx, _, _ := testContext(t)
		sender := &fakeSender{}
		opts := sendOpts(ctx, writeRequest(t, "request.yaml", validRequest), sender)
		opts.Hook.Name = "missing"

		if err := runSend(ctx, opts); err == nil || !strings.Contains(err.Error(), `unknown hook "missing"`) {
			t.Errorf("runSend() error = %v", err)
		}
		if len(sender.sent) != 0 {
			t.Error("nothing should be sent with an unknown hook")
		}
	})
}
