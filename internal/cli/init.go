package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd())
}

// initResponse represents the JSON output for init operations.
type initResponse struct {
	Success bool               `json:"success"`
	Spec    *domain.SpecRecord `json:"spec,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new specification",
		Long: `Create a new specification in the Init phase.

Names must start with a letter or digit and may contain letters, digits,
hyphens, and underscores (max 64 characters).

Examples:
  specflow init rate-limiter
  specflow init rate-limiter --description "Token-bucket rate limiting"
  specflow init rate-limiter -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), cmd, os.Stdout, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Human-readable description of the spec")

	return cmd
}

// runInit executes the init command.
func runInit(ctx context.Context, cmd *cobra.Command, w io.Writer, name, description string) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleInitError(outputFormat, w, err)
	}

	rec, err := cmdCtx.engine.Initialize(ctx, name, description)
	if err != nil {
		return handleInitError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(initResponse{Success: true, Spec: rec})
	}

	out.Success(fmt.Sprintf("Spec '%s' created in phase %s.", rec.Name, rec.CurrentPhase))
	out.Info(fmt.Sprintf("Run 'specflow advance %s requirements' to begin.", rec.Name))
	return nil
}

// handleInitError handles errors based on output format.
func handleInitError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, initResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
