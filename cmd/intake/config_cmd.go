package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/intake/internal/config"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/output"
	"github.com/raphi011/intake/internal/ui/prompt"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage intake configuration.

Global config: ~/.config/intake/config.toml
Local config:  .intake.toml (in the working directory)`,
		Example: `  intake config init          # Create default global config
  intake config init --local  # Create local config in this directory
  intake config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Long: `Create default config file.

Without flags, creates the global config at ~/.config/intake/config.toml.
With --local, creates .intake.toml in the current directory.`,
		Example: `  intake config init           # Create global config
  intake config init --local   # Create local config
  intake config init -f        # Overwrite existing config
  intake config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if local {
				return initLocalConfig(ctx, force, stdout)
			}
			return initGlobalConfig(ctx, force, stdout)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create .intake.toml in the current directory instead")

	return cmd
}

func initGlobalConfig(ctx context.Context, force, stdout bool) error {
	if stdout {
		output.FromContext(ctx).Printf("%s", config.DefaultConfig())
		return nil
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	force, ok, err := confirmOverwrite(ctx, path, force)
	if err != nil || !ok {
		return err
	}

	created, err := config.Init(force)
	if err != nil {
		return fmt.Errorf("%w (use -f to overwrite)", err)
	}
	log.FromContext(ctx).Printf("Created config file: %s\n", created)
	return nil
}

func initLocalConfig(ctx context.Context, force, stdout bool) error {
	if stdout {
		output.FromContext(ctx).Printf("%s", config.DefaultLocalConfig())
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	force, ok, err := confirmOverwrite(ctx, filepath.Join(dir, config.LocalConfigFileName), force)
	if err != nil || !ok {
		return err
	}

	created, err := config.InitLocal(dir, force)
	if err != nil {
		return fmt.Errorf("%w (use -f to overwrite)", err)
	}
	log.FromContext(ctx).Printf("Created local config: %s\n", created)
	return nil
}

// confirmOverwrite asks before replacing an existing file on a terminal.
// It returns the effective force flag and whether to continue.
func confirmOverwrite(ctx context.Context, path string, force bool) (bool, bool, error) {
	if force || !isTerminal(os.Stdin) {
		return force, true, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, true, nil
	}

	result, err := prompt.Confirm(fmt.Sprintf("Overwrite %s?", path), false)
	if err != nil {
		return false, false, err
	}
	if !result.Confirmed {
		log.FromContext(ctx).Println("Cancelled")
		return false, false, nil
	}
	return true, true, nil
}

// configView is the printable form of the effective config.
type configView struct {
	WebhookURL   string                 `toml:"webhook_url" json:"webhook_url"`
	Timeout      string                 `toml:"timeout" json:"timeout"`
	DataDir      string                 `toml:"data_dir" json:"data_dir"`
	HistoryLimit int                    `toml:"history_limit" json:"history_limit"`
	Submitters   []string               `toml:"submitters" json:"submitters"`
	Departments  []string               `toml:"departments" json:"departments"`
	Theme        config.ThemeConfig     `toml:"theme" json:"theme"`
	Hooks        map[string]config.Hook `toml:"hooks,omitempty" json:"hooks,omitempty"`
}

func newConfigView(cfg *config.Config) configView {
	return configView{
		WebhookURL:   cfg.WebhookURL,
		Timeout:      cfg.Timeout.String(),
		DataDir:      cfg.DataDir,
		HistoryLimit: cfg.HistoryLimit,
		Submitters:   cfg.Submitters,
		Departments:  cfg.Departments,
		Theme:        cfg.Theme,
		Hooks:        cfg.Hooks,
	}
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the effective configuration: defaults, the global config file,
INTAKE_* environment variables and .intake.toml merged together.`,
		Example: `  intake config show         # TOML
  intake config show --json  # JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func showConfig(ctx context.Context, jsonOutput bool) error {
	out := output.FromContext(ctx)
	view := newConfigView(configFrom(ctx))

	if jsonOutput {
		return out.JSON(view)
	}

	if path, err := config.Path(); err == nil {
		out.Printf("# %s\n", path)
	}
	if err := toml.NewEncoder(out.Writer()).Encode(view); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
