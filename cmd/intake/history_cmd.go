package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/intake/internal/export"
	"github.com/raphi011/intake/internal/history"
	"github.com/raphi011/intake/internal/log"
	"github.com/raphi011/intake/internal/output"
	"github.com/raphi011/intake/internal/storage"
	"github.com/raphi011/intake/internal/ui/static"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List submitted requests",
		Aliases: []string{"hist"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List requests submitted from this machine, newest first.

Failed deliveries are kept too, so nothing typed into the wizard is lost.
Use 'intake history show N' to print one request in full.`,
		Example: `  intake history            # Recent submissions
  intake history -n 5       # Last five
  intake history --json     # Output as JSON
  intake history show 1     # Full text of the newest request`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := loadHistory(ctx)
			if err != nil {
				return err
			}
			return listHistory(ctx, h, limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 0, "Number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <n>",
		Short: "Show one submitted request",
		Args:  cobra.ExactArgs(1),
		Example: `  intake history show 1         # Newest request
  intake history show 3 --json  # Third newest as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid entry number %q", args[0])
			}
			h, err := loadHistory(ctx)
			if err != nil {
				return err
			}
			return showHistory(ctx, h, n, jsonOutput, isTerminal(os.Stdout))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func loadHistory(ctx context.Context) (*history.History, error) {
	cfg := configFrom(ctx)
	dir, err := storage.ExpandPath(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return history.Load(history.Path(dir))
}

func listHistory(ctx context.Context, h *history.History, limit int, jsonOutput bool) error {
	out := output.FromContext(ctx)
	entries := h.Recent(limit)

	if jsonOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		return out.JSON(entries)
	}

	if len(entries) == 0 {
		log.FromContext(ctx).Println("No submissions yet")
		return nil
	}
	out.Printf("%s", static.RenderHistory(entries))
	return nil
}

func showHistory(ctx context.Context, h *history.History, n int, jsonOutput, pretty bool) error {
	out := output.FromContext(ctx)

	if n < 1 || n > len(h.Entries) {
		return fmt.Errorf("no history entry %d (have %d)", n, len(h.Entries))
	}
	e := h.Entries[n-1]

	if jsonOutput {
		return out.JSON(e)
	}

	md := export.Markdown(e.Payload)
	if !e.Delivered {
		md += fmt.Sprintf("\n> Delivery failed: %s\n", e.Error)
	}
	if pretty {
		out.Println(static.RenderMarkdown(md, summaryWidth))
		return nil
	}
	out.Printf("%s", md)
	return nil
}
