package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command) {
	root.AddCommand(newListCmd())
}

// listResponse represents the JSON output for list operations.
type listResponse struct {
	Success bool                 `json:"success"`
	Specs   []*domain.SpecRecord `json:"specs,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all specs and their workflow progress",
		Long: `List every spec ordered by creation time, with current phase,
tracked-phase completion, and approval count.

Examples:
  specflow list
  specflow list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, os.Stdout)
		},
	}

	return cmd
}

// runList executes the list command.
func runList(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleListError(outputFormat, w, err)
	}

	specs, err := cmdCtx.engine.List(ctx)
	if err != nil {
		return handleListError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(listResponse{Success: true, Specs: specs})
	}

	if len(specs) == 0 {
		out.Info("No specs found. Run 'specflow init <name>' to create one.")
		return nil
	}

	rows := make([]tui.SpecRow, 0, len(specs))
	for _, spec := range specs {
		rows = append(rows, specRowFromRecord(spec))
	}

	return tui.NewSpecTable(rows).Render(w)
}

// specRowFromRecord builds a listing row from a spec record.
func specRowFromRecord(spec *domain.SpecRecord) tui.SpecRow {
	tracked := constants.TrackedPhases()
	completed := 0
	for _, phase := range tracked {
		if spec.StatusOf(phase) == constants.PhaseStatusCompleted {
			completed++
		}
	}

	approvals := 0
	for _, approval := range spec.Approvals {
		if approval.Decision == constants.DecisionApproved {
			approvals++
		}
	}

	return tui.SpecRow{
		Name:            spec.Name,
		Phase:           spec.CurrentPhase,
		CompletedPhases: completed,
		TotalPhases:     len(tracked),
		Approvals:       approvals,
		Updated:         spec.LastModified.Local().Format(time.RFC3339),
	}
}

// handleListError handles errors based on output format.
func handleListError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, listResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
