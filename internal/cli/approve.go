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

// AddApproveCommand adds the approve command to the root command.
func AddApproveCommand(root *cobra.Command) {
	root.AddCommand(newApproveCmd())
}

// approvalResponse represents the JSON output for approve/reject operations.
type approvalResponse struct {
	Success  bool                   `json:"success"`
	Approval *domain.ApprovalRecord `json:"approval,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// newApproveCmd creates the approve command.
func newApproveCmd() *cobra.Command {
	var approver string
	var comment string

	cmd := &cobra.Command{
		Use:   "approve <name> <phase>",
		Short: "Record an approval for a pending phase",
		Long: `Record an approved decision for the phase the spec is about to enter.

Approvals gate phase transitions: requirements, design, and tasks each need
an approved decision before 'specflow advance' will move the spec into them.
The phase argument must be the spec's next phase; approving a phase the spec
has already passed or not yet reached is rejected.

Examples:
  specflow approve rate-limiter requirements --by alice
  specflow approve rate-limiter design --by bob --comment "LGTM"
  specflow approve rate-limiter tasks --by alice -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd.Context(), cmd, os.Stdout, args[0], args[1],
				approver, constants.DecisionApproved, comment)
		},
	}

	cmd.Flags().StringVar(&approver, "by", "", "Identity of the approver (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment recorded with the decision")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

// runDecision executes an approve or reject command.
func runDecision(ctx context.Context, cmd *cobra.Command, w io.Writer, name, phaseArg, approver string, decision constants.ApprovalDecision, comment string) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleDecisionError(outputFormat, w, err)
	}

	approval, err := cmdCtx.engine.RecordApproval(ctx, name, constants.Phase(phaseArg), approver, decision, comment)
	if err != nil {
		return handleDecisionError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(approvalResponse{Success: true, Approval: approval})
	}

	if decision == constants.DecisionApproved {
		out.Success(fmt.Sprintf("Phase %s of '%s' approved by %s.", approval.Phase, name, approval.Approver))
		out.Info(fmt.Sprintf("Run 'specflow advance %s %s' to enter the phase.", name, approval.Phase))
	} else {
		out.Warning(fmt.Sprintf("Phase %s of '%s' rejected by %s.", approval.Phase, name, approval.Approver))
		out.Info("The spec stays in its current phase; a later approval can still unblock it.")
	}
	return nil
}

// handleDecisionError handles errors based on output format.
func handleDecisionError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, approvalResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
