package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/errors"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddAdvanceCommand adds the advance command to the root command.
func AddAdvanceCommand(root *cobra.Command) {
	root.AddCommand(newAdvanceCmd())
}

// advanceResponse represents the JSON output for advance operations.
type advanceResponse struct {
	Success bool               `json:"success"`
	Spec    *domain.SpecRecord `json:"spec,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// newAdvanceCmd creates the advance command.
func newAdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance <name> <phase>",
		Short: "Advance a spec to the next workflow phase",
		Long: `Advance a spec to the given phase.

Phases progress strictly forward: init → requirements → design → tasks →
complete. Leaving requirements, design, or tasks requires a recorded
approval for that phase first. Requesting the phase the spec is already in
is a no-op.

Examples:
  specflow advance rate-limiter requirements
  specflow advance rate-limiter design
  specflow advance rate-limiter complete -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvance(cmd.Context(), cmd, os.Stdout, args[0], args[1])
		},
	}

	return cmd
}

// runAdvance executes the advance command.
func runAdvance(ctx context.Context, cmd *cobra.Command, w io.Writer, name, phaseArg string) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	target := constants.Phase(phaseArg)
	if !target.IsValid() {
		err := fmt.Errorf("%w: %q is not a workflow phase", errors.ErrInvalidPhase, phaseArg)
		return handleAdvanceError(outputFormat, w, err)
	}

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleAdvanceError(outputFormat, w, err)
	}

	rec, err := cmdCtx.engine.RequestTransition(ctx, name, target)
	if err != nil {
		if stderrors.Is(err, errors.ErrApprovalRequired) && outputFormat != OutputJSON {
			out.Warning(fmt.Sprintf("Phase %s needs approval before the spec can enter it.", target))
			out.Info(fmt.Sprintf("Run 'specflow approve %s %s --by <approver>' first.", name, target))
		}
		return handleAdvanceError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(advanceResponse{Success: true, Spec: rec})
	}

	out.Success(fmt.Sprintf("Spec '%s' advanced to %s.", rec.Name, rec.CurrentPhase))
	return nil
}

// handleAdvanceError handles errors based on output format.
func handleAdvanceError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, advanceResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
