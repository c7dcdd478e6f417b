package main

import (
	"context"
	"errors"
	"net/url"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/hooks"
	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/webhook"
)

var errNoTerminal = errors.New("the wizard needs an interactive terminal; use 'intake send -f request.yaml' to submit from a file")

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// configFrom returns the context config, or the defaults when none is attached.
func configFrom(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}

// newSender creates the webhook client for cfg.
func newSender(cfg *config.Config) *webhook.Client {
	c := webhook.New(cfg.WebhookURL, cfg.Timeout)
	c.UserAgent = "intake/" + version
	return c
}

// recordHistory adds a confirmed submission to the history file. Failures
// are warnings.
func recordHistory(ctx context.Context, path string, limit int, p intake.SubmitPayload, sendErr error) {
	if err := history.Record(path, history.NewEntry(p, sendErr), limit); err != nil {
		log.FromContext(ctx).Printf("Warning: failed to record history: %v\n", err)
	}
}

// webhookHost returns the host of u for prompts, or u itself if unparseable.
func webhookHost(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return u
	}
	return parsed.Host
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// hookOptions holds the hook flags of a command.
type hookOptions struct {
	Name   string            // --hook: run only this hook
	NoHook bool              // --no-hook
	Args   map[string]string // --arg key=value
}

// matchHooks selects the hooks for the delivery result in hc and sets the
// --arg values on it.
func matchHooks(ctx context.Context, defs map[string]config.Hook, opts hookOptions, hc *hooks.Context) ([]hooks.Match, error) {
	matches, err := hooks.Select(defs, opts.Name, opts.NoHook, hc.Event())
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		log.FromContext(ctx).Debug("no hooks matched", "event", hc.Event())
	}
	hc.Env = opts.Args
	return matches, nil
}

// runHooks runs the hooks matching the delivery result in hc and stops at
// the first failure.
func runHooks(ctx context.Context, defs map[string]config.Hook, opts hookOptions, hc hooks.Context) error {
	matches, err := matchHooks(ctx, defs, opts, &hc)
	if err != nil || len(matches) == 0 {
		return err
	}
	return hooks.Run(ctx, matches, hc)
}

// runHooksNonFatal is runHooks with every failure logged as a warning.
func runHooksNonFatal(ctx context.Context, defs map[string]config.Hook, opts hookOptions, hc hooks.Context) {
	matches, err := matchHooks(ctx, defs, opts, &hc)
	if err != nil {
		log.FromContext(ctx).Printf("Warning: %v\n", err)
		return
	}
	hooks.RunNonFatal(ctx, matches, hc)
}
