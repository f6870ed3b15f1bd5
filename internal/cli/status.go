package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddStatusCommand adds the status command to the root command.
func AddStatusCommand(root *cobra.Command) {
	root.AddCommand(newStatusCmd())
}

// statusResponse represents the JSON output for status operations.
type statusResponse struct {
	Success bool               `json:"success"`
	Spec    *domain.SpecRecord `json:"spec,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <name>",
		Short: "Show a spec's phase, approvals, and documents",
		Long: `Show the full workflow state of a spec: current phase, per-phase
progress, recorded approval decisions, and tracked document references.

Examples:
  specflow status rate-limiter
  specflow status rate-limiter -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd, os.Stdout, args[0])
		},
	}

	return cmd
}

// runStatus executes the status command.
func runStatus(ctx context.Context, cmd *cobra.Command, w io.Writer, name string) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleStatusError(outputFormat, w, err)
	}

	rec, err := cmdCtx.engine.GetStatus(ctx, name)
	if err != nil {
		return handleStatusError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(statusResponse{Success: true, Spec: rec})
	}

	return tui.RenderStatus(w, rec)
}

// handleStatusError handles errors based on output format.
func handleStatusError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, statusResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
