package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/constants"
)

// AddRejectCommand adds the reject command to the root command.
func AddRejectCommand(root *cobra.Command) {
	root.AddCommand(newRejectCmd())
}

// newRejectCmd creates the reject command.
func newRejectCmd() *cobra.Command {
	var approver string
	var comment string

	cmd := &cobra.Command{
		Use:   "reject <name> <phase>",
		Short: "Record a rejection for a pending phase",
		Long: `Record a rejected decision for the phase the spec is about to enter.

A rejection is advisory: it is kept in the approval history but never moves
the spec backward, and it does not block a later approval for the same
phase.

Examples:
  specflow reject rate-limiter design --by bob --comment "Missing failure modes"
  specflow reject rate-limiter tasks --by alice -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd.Context(), cmd, os.Stdout, args[0], args[1],
				approver, constants.DecisionRejected, comment)
		},
	}

	cmd.Flags().StringVar(&approver, "by", "", "Identity of the reviewer (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment recorded with the decision")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}
