package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/productsummary/internal/backend"
	"github.com/rshade/productsummary/internal/config"
	"github.com/rshade/productsummary/internal/summary"
	"github.com/rshade/productsummary/internal/tui"
)

const tabPadding = 2

// ShowOptions holds the flags of the show command.
type ShowOptions struct {
	CaseID string
	Output string
	NoTUI  bool
}

func newShowCmd() *cobra.Command {
	var opts ShowOptions

	cmd := &cobra.Command{
		Use:   "show [case-id]",
		Short: "Show the product summary for a case",
		Long: `Loads the case record, resolves its contact and fetches that contact's
product summary. On a terminal the result is shown interactively (press r to
reload, q to quit); otherwise, or with --no-tui, it is printed once.`,
		Example: `  # Interactive view
  productsummary show 500A

  # Plain text for scripts
  productsummary show --case 500A --output plain

  # The exposed state as JSON
  productsummary show 500A --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.CaseID != "" && opts.CaseID != args[0] {
					return errors.New("case id given both as argument and --case")
				}
				opts.CaseID = args[0]
			}
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CaseID, "case", "", "case record id")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "",
		"output format: table, json or plain (default from config)")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "print once instead of starting the interactive view")

	return cmd
}

func runShow(cmd *cobra.Command, opts ShowOptions) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	output := opts.Output
	if output == "" {
		output = cfg.Output.DefaultFormat
	}
	switch output {
	case config.OutputTable, config.OutputJSON, config.OutputPlain:
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	backends, err := backend.Open(ctx, cfg.Backend)
	if err != nil {
		return fmt.Errorf("opening backends: %w", err)
	}
	defer func() {
		if closeErr := backends.Close(); closeErr != nil {
			logger.Warn().Ctx(ctx).Err(closeErr).Msg("closing backends")
		}
	}()

	ctrl := summary.NewController(backends.Cases, summary.NewLoader(
		backends.Products,
		summary.WithDiscardStale(cfg.Loader.DiscardStaleResponses),
	))

	if output == config.OutputTable && !opts.NoTUI && isTerminal(os.Stdout) {
		return runInteractiveSummary(ctx, ctrl, opts.CaseID)
	}

	snap, err := summary.Run(ctx, ctrl, opts.CaseID)
	if err != nil {
		return fmt.Errorf("loading product summary: %w", err)
	}
	return renderSnapshot(cmd.OutOrStdout(), output, snap)
}

func runInteractiveSummary(ctx context.Context, ctrl *summary.Controller, caseID string) error {
	ctx, logResult := interactiveLogger(ctx)
	defer func() { _ = cleanupLogging(logResult) }()

	p := tea.NewProgram(tui.NewSummaryModel(ctx, ctrl, caseID))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// renderSnapshot writes snap in the requested format.
func renderSnapshot(w io.Writer, format string, snap summary.Snapshot) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case config.OutputPlain:
		return renderPlain(w, snap)
	default:
		return renderTable(w, snap)
	}
}

// statusLine returns the text shown instead of a table, or "" when rows exist.
func statusLine(snap summary.Snapshot) string {
	switch {
	case snap.IsLoading:
		return "Loading..."
	case snap.Error != "":
		return snap.Error
	case snap.NoRows:
		return tui.NoRecordsText
	}
	return ""
}

func renderTable(w io.Writer, snap summary.Snapshot) error {
	if line := statusLine(snap); line != "" {
		_, err := fmt.Fprintln(w, line)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	for i, c := range snap.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c.Label)
	}
	fmt.Fprintln(tw)
	for _, row := range snap.Rows {
		for i, c := range snap.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, row.Cell(c.FieldName))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func renderPlain(w io.Writer, snap summary.Snapshot) error {
	if line := statusLine(snap); line != "" {
		_, err := fmt.Fprintln(w, line)
		return err
	}
	for _, row := range snap.Rows {
		for _, c := range snap.Columns {
			if _, err := fmt.Fprintf(w, "%s: %s\n", c.Label, row.Cell(c.FieldName)); err != nil {
				return err
			}
		}
	}
	return nil
}
