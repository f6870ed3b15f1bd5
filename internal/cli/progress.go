package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddProgressCommand adds the progress command to the root command.
func AddProgressCommand(root *cobra.Command) {
	root.AddCommand(newProgressCmd())
}

// progressResponse represents the JSON output for progress operations.
type progressResponse struct {
	Success bool               `json:"success"`
	Spec    *domain.SpecRecord `json:"spec,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// newProgressCmd creates the progress command.
func newProgressCmd() *cobra.Command {
	var completed bool

	cmd := &cobra.Command{
		Use:   "progress <name> <phase>",
		Short: "Mark work progress within the spec's current phase",
		Long: `Mark the spec's current phase as in progress or completed.

The phase argument must match the spec's current phase and must be one of
the tracked phases (requirements, design, tasks). Marking a phase completed
requires it to already be in progress.

Examples:
  specflow progress rate-limiter requirements
  specflow progress rate-limiter requirements --done
  specflow progress rate-limiter design --done -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(cmd.Context(), cmd, os.Stdout, args[0], args[1], completed)
		},
	}

	cmd.Flags().BoolVar(&completed, "done", false, "Mark the phase completed instead of in progress")

	return cmd
}

// runProgress executes the progress command.
func runProgress(ctx context.Context, cmd *cobra.Command, w io.Writer, name, phaseArg string, completed bool) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleProgressError(outputFormat, w, err)
	}

	rec, err := cmdCtx.engine.MarkPhaseProgress(ctx, name, constants.Phase(phaseArg), completed)
	if err != nil {
		return handleProgressError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(progressResponse{Success: true, Spec: rec})
	}

	status := rec.StatusOf(rec.CurrentPhase)
	out.Success(fmt.Sprintf("Phase %s of '%s' marked %s.", rec.CurrentPhase, rec.Name, status))
	return nil
}

// handleProgressError handles errors based on output format.
func handleProgressError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, progressResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
