package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/export"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/hooks"
	"github.com/raphi011/intake/internal/intake"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/output"
	"github.com/raphi011/intake/internal/request"
	"github.com/raphi011/intake/internal/storage"
	"github.com/raphi011/intake/internal/ui/progress"
	"github.com/raphi011/intake/internal/ui/prompt"
	"github.com/raphi011/intake/internal/ui/static"
)

// summaryWidth is the markdown wrap width for terminal output.
const summaryWidth = 80

// sendOptions holds the resolved inputs of `intake send`.
type sendOptions struct {
	File       string
	Format     request.Format
	DryRun     bool
	JSON       bool
	Save       bool
	Confirm    bool // ask before posting
	Pretty     bool // render the summary with glamour
	Sender     intake.Sender
	DataDir    string
	HistoryMax int
	Now        func() time.Time
	Hooks      map[string]config.Hook
	Hook       hookOptions
}

func newSendCmd() *cobra.Command {
	var (
		file       string
		format     string
		dryRun     bool
		yes        bool
		save       bool
		jsonOutput bool
		hookName   string
		noHook     bool
		hookArgs   []string
	)

	cmd := &cobra.Command{
		Use:     "send",
		Short:   "Submit a request from a file",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Submit an automation request without the wizard.

The file holds the same answers the wizard asks for and is validated the
same way. The format follows the extension (.yaml, .yml, .json, .toml);
use --format when reading from stdin with -f -.`,
		Example: `  intake send -f request.yaml           # Validate, confirm and submit
  intake send -f request.json -y        # Submit without asking
  intake send -f request.toml --dry-run # Print the payload instead of posting
  cat request.yaml | intake send -f -   # Read from stdin
  intake send -f r.yaml --hook notify -a channel=ops  # Run one hook with a custom value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)

			var f request.Format
			if format != "" {
				var err error
				if f, err = request.ParseFormat(format); err != nil {
					return err
				}
			}

			hookEnv, err := hooks.ParseEnv(hookArgs)
			if err != nil {
				return err
			}

			dataDir, err := storage.DataDir(cfg.DataDir)
			if err != nil {
				return err
			}

			return runSend(ctx, sendOptions{
				File:       file,
				Format:     f,
				DryRun:     dryRun,
				JSON:       jsonOutput,
				Save:       save,
				Confirm:    !yes && file != "-" && isTerminal(os.Stdin) && isTerminal(os.Stderr),
				Pretty:     isTerminal(os.Stdout),
				Sender:     newSender(cfg),
				DataDir:    dataDir,
				HistoryMax: cfg.HistoryLimit,
				Hooks:      cfg.Hooks,
				Hook:       hookOptions{Name: hookName, NoHook: noHook, Args: hookEnv},
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Request file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", "", "File format: yaml, json, toml (default: from extension)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the payload JSON instead of posting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without confirmation")
	cmd.Flags().BoolVar(&save, "save", false, "Also save a markdown copy to the data directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the submitted payload as JSON")
	cmd.Flags().StringVar(&hookName, "hook", "", "Run only this hook after submitting")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringArrayVarP(&hookArgs, "arg", "a", nil, "Hook value as KEY=VALUE (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(request.FormatYAML), string(request.FormatJSON), string(request.FormatTOML)},
		cobra.ShellCompDirectiveNoFileComp,
	))

	return cmd
}

func runSend(ctx context.Context, opts sendOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	file, err := request.Load(opts.File, opts.Format)
	if err != nil {
		return err
	}
	if _, err := hooks.Select(opts.Hooks, opts.Hook.Name, opts.Hook.NoHook, config.HookOnAll); err != nil {
		return err
	}

	var sendErr error
	c := intake.NewController(opts.Sender, intake.ControllerOptions{
		Now: opts.Now,
		OnConfirmed: func(ctx context.Context, p intake.SubmitPayload, err error) {
			sendErr = err
			recordHistory(ctx, history.Path(opts.DataDir), opts.HistoryMax, p, err)
		},
	})
	c.Load(file.FormState())

	state := c.State()
	if errs := intake.ValidateAll(state); !errs.Empty() {
		msgs := errs.Messages(state.Entries)
		return fmt.Errorf("invalid request %s:\n  - %s", opts.File, strings.Join(msgs, "\n  - "))
	}

	if opts.DryRun {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		return out.JSON(intake.BuildPayload(state, now()))
	}

	if opts.Confirm {
		n := len(state.Entries)
		question := fmt.Sprintf("Send %d automation %s to %s?",
			n, pluralize(n, "request", "requests"), webhookHost(configFrom(ctx).WebhookURL))
		result, err := prompt.Confirm(question, true)
		if err != nil {
			return err
		}
		if !result.Confirmed {
			l.Println("Cancelled")
			return nil
		}
	}

	if err := progress.Run("Sending request…", func() error { return c.Submit(ctx) }); err != nil {
		return err
	}
	p, _ := c.Submitted()
	hc := hooks.Context{Payload: p, SendErr: sendErr, Trigger: hooks.TriggerSend}
	if sendErr != nil {
		runHooksNonFatal(ctx, opts.Hooks, opts.Hook, hc)
		return fmt.Errorf("deliver request: %w", sendErr)
	}

	if opts.Save {
		path, err := export.Save(opts.DataDir, p)
		if err != nil {
			l.Printf("Warning: %v\n", err)
		} else {
			l.Printf("Saved to %s\n", path)
		}
	}

	if opts.JSON {
		if err := out.JSON(p); err != nil {
			return err
		}
	} else {
		md := export.Markdown(p)
		if opts.Pretty {
			out.Println(static.RenderMarkdown(md, summaryWidth))
		} else {
			out.Printf("%s", md)
		}
	}

	return runHooks(ctx, opts.Hooks, opts.Hook, hc)
}

// completeHookNames completes --hook with the configured hook names.
func completeHookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(cfg.Hooks))
	for name, h := range cfg.Hooks {
		desc := name
		if h.Description != "" {
			desc = name + "\t" + h.Description
		}
		names = append(names, desc)
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}
