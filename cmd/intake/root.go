package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/hooks"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/output"
	"github.com/raphi011/intake/internal/storage"
	"github.com/raphi011/intake/internal/ui/styles"
	"github.com/raphi011/intake/internal/ui/wizard/flows"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	wizardNoHook bool
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

// skipConfigAnnotation marks commands that must run without a valid config.
const skipConfigAnnotation = "intake/skip-config"

// rootCmd runs the interactive wizard when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Submit automation requests from the terminal",
	Long: `intake collects automation requests in a short terminal wizard:
who is asking, which department, and one or more processes worth automating.

Submitted requests are posted to the configured webhook and recorded in
the local history.`,
	Example: `  intake                         # Start the wizard
  intake send -f request.yaml    # Submit a request file
  intake history                 # List recent submissions`,
	Args:                       cobra.NoArgs,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE:          setup,
	RunE:                       runWizard,
}

// setup attaches the logger, printer and effective config to the command context.
func setup(cmd *cobra.Command, args []string) error {
	// Validate mutually exclusive flags
	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	ctx := cmd.Context()
	// Create logger (stderr for diagnostics)
	ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	switch cmd.Name() {
	case "completion", "__complete", "help", "man":
		cmd.SetContext(ctx)
		return nil
	}
	if cmd.Annotations[skipConfigAnnotation] != "" {
		cmd.SetContext(ctx)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	styles.Init(cfg.Theme)

	cmd.SetContext(config.WithConfig(ctx, cfg))
	return nil
}

// loadConfig merges the global config with .intake.toml from the working directory.
func loadConfig() (*config.Config, error) {
	global, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	local, err := config.LoadLocal(workDir)
	if err != nil {
		return nil, err
	}
	return config.MergeLocal(&global, local)
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	cfg := configFrom(ctx)

	if !isTerminal(os.Stdin) {
		return errNoTerminal
	}

	dataDir, err := storage.DataDir(cfg.DataDir)
	if err != nil {
		return err
	}

	result, err := flows.IntakeInteractive(ctx, flows.IntakeParams{
		Submitters:   cfg.Submitters,
		Departments:  cfg.Departments,
		Sender:       newSender(cfg),
		DataDir:      dataDir,
		HistoryPath:  history.Path(dataDir),
		HistoryLimit: cfg.HistoryLimit,
	})
	if err != nil {
		return err
	}

	if result.Cancelled {
		l.Println("Cancelled")
		return nil
	}
	l.Debug("session finished", "submitted", len(result.Submitted))

	// Hooks run after the wizard exits so their output does not fight the TUI.
	for _, s := range result.Submitted {
		hc := hooks.Context{Payload: s.Payload, SendErr: s.Err, Trigger: hooks.TriggerWizard}
		runHooksNonFatal(ctx, cfg.Hooks, hookOptions{NoHook: wizardNoHook}, hc)
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show webhook requests and debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.Flags().BoolVar(&wizardNoHook, "no-hook", false, "Skip hooks after submitting")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newHistoryCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
}
