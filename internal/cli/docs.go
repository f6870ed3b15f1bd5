package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/docs"
	"github.com/mrz1836/specflow/internal/domain"
	"github.com/mrz1836/specflow/internal/errors"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddDocsCommand adds the docs command group to the root command.
func AddDocsCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage workflow documents",
		Long: `Manage the markdown documents that accompany each tracked phase.

Documents live at <documents.dir>/<spec-name>/{requirements,design,tasks}.md.
specflow never writes these documents; it records their metadata on the spec
so stale or missing documents are visible from 'specflow status'.`,
	}

	cmd.AddCommand(newDocsRefreshCmd())
	root.AddCommand(cmd)
}

// docsRefreshResponse represents the JSON output for docs refresh.
type docsRefreshResponse struct {
	Success   bool               `json:"success"`
	Spec      *domain.SpecRecord `json:"spec,omitempty"`
	Refreshed int                `json:"refreshed,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// newDocsRefreshCmd creates the docs refresh command.
func newDocsRefreshCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "refresh [name]",
		Short: "Re-scan documents and update spec metadata",
		Long: `Re-scan the phase documents for a spec and record their current
size and modification time. Use --all to refresh every spec.

Examples:
  specflow docs refresh rate-limiter
  specflow docs refresh --all
  specflow docs refresh rate-limiter -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" && !all {
				return fmt.Errorf("%w: provide a spec name or --all", errors.ErrEmptyValue)
			}
			return runDocsRefresh(cmd.Context(), cmd, os.Stdout, name, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Refresh documents for every spec")

	return cmd
}

// runDocsRefresh executes the docs refresh command.
func runDocsRefresh(ctx context.Context, cmd *cobra.Command, w io.Writer, name string, all bool) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cmdCtx, err := newCommandContext(ctx)
	if err != nil {
		return handleDocsError(outputFormat, w, err)
	}

	refresher := docs.NewRefresher(cmdCtx.engine, cmdCtx.cfg.Documents.Dir, GetLogger())

	if all {
		count, err := refresher.RefreshAll(ctx)
		if err != nil {
			return handleDocsError(outputFormat, w, err)
		}
		if outputFormat == OutputJSON {
			return out.JSON(docsRefreshResponse{Success: true, Refreshed: count})
		}
		out.Success(fmt.Sprintf("Refreshed documents for %d spec(s).", count))
		return nil
	}

	rec, err := refresher.Refresh(ctx, name)
	if err != nil {
		return handleDocsError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(docsRefreshResponse{Success: true, Spec: rec, Refreshed: 1})
	}

	out.Success(fmt.Sprintf("Refreshed documents for '%s'.", rec.Name))
	missing := 0
	for _, ref := range rec.FileRefs {
		if !ref.Exists {
			missing++
		}
	}
	if missing > 0 {
		out.Warning(fmt.Sprintf("%d document(s) missing on disk.", missing))
	}
	return nil
}

// handleDocsError handles errors based on output format.
func handleDocsError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, docsRefreshResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
