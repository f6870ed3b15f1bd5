package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddHistoryCommand adds the history command to the root command.
func AddHistoryCommand(root *cobra.Command) {
	root.AddCommand(newHistoryCmd())
}

// historyResponse represents the JSON output for history operations.
type historyResponse struct {
	Success bool           `json:"success"`
	Events  []domain.Event `json:"events,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "Show the workflow event history of a spec",
		Long: `Show the most recent workflow events recorded for a spec:
initialization, phase transitions, approval decisions, progress marks, and
document refreshes. Events are shown oldest first.

Examples:
  specflow history rate-limiter
  specflow history rate-limiter --limit 50
  specflow history rate-limiter -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd, os.Stdout, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of events to show (default from config)")

	return cmd
}

// runHistory executes the history command.
func runHistory(ctx context.Context, cmd *cobra.Command, w io.Writer, name string, limit int) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleHistoryError(outputFormat, w, err)
	}

	if limit <= 0 {
		limit = cmdCtx.cfg.History.Limit
	}

	events, err := cmdCtx.engine.History(ctx, name, limit)
	if err != nil {
		return handleHistoryError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(historyResponse{Success: true, Events: events})
	}

	if len(events) == 0 {
		out.Info(fmt.Sprintf("No events recorded for '%s'.", name))
		return nil
	}

	for _, event := range events {
		line := fmt.Sprintf("%s  %-20s %s",
			event.Timestamp.Local().Format(time.RFC3339),
			event.Action,
			event.Phase)
		if detail := formatDetail(event.Detail); detail != "" {
			line += "  " + detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatDetail flattens an event detail map into "k=v" pairs.
func formatDetail(detail map[string]string) string {
	if len(detail) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(detail))
	for k, v := range detail {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// handleHistoryError handles errors based on output format.
func handleHistoryError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, historyResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
