package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specflow/internal/config"
	"github.com/mrz1836/specflow/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage specflow configuration",
		Long: `Manage specflow configuration.

Settings are resolved in precedence order: SPECFLOW_* environment variables,
the project config (.specflow/config.yaml), the global config
(~/.specflow/config.yaml), then built-in defaults.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	root.AddCommand(cmd)
}

// configResponse represents the JSON output for config operations.
type configResponse struct {
	Success bool           `json:"success"`
	Path    string         `json:"path,omitempty"`
	Config  *config.Config `json:"config,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// newConfigInitCmd creates the config init command.
func newConfigInitCmd() *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file populated with defaults",
		Long: `Write a config file populated with the built-in defaults.

By default the global config (~/.specflow/config.yaml) is written; use
--project to write .specflow/config.yaml in the working directory instead.
Existing files are never overwritten.

Examples:
  specflow config init
  specflow config init --project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, os.Stdout, project)
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Write the project config instead of the global one")

	return cmd
}

// runConfigInit executes the config init command.
func runConfigInit(cmd *cobra.Command, w io.Writer, project bool) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	var path string
	var err error
	if project {
		path = config.ProjectConfigPath()
	} else {
		path, err = config.GlobalConfigPath()
		if err != nil {
			return handleConfigError(outputFormat, w, err)
		}
	}

	if err := config.WriteDefault(path); err != nil {
		return handleConfigError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(configResponse{Success: true, Path: path})
	}

	out.Success(fmt.Sprintf("Config written to %s.", path))
	return nil
}

// newConfigShowCmd creates the config show command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging all sources: environment
variables, project config, global config, and defaults.

Examples:
  specflow config show
  specflow config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd, os.Stdout)
		},
	}

	return cmd
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	cfg, err := config.Load(ctx)
	if err != nil {
		return handleConfigError(outputFormat, w, err)
	}

	if outputFormat == OutputJSON {
		return out.JSON(configResponse{Success: true, Config: cfg})
	}

	home := cfg.Home
	if home == "" {
		if resolved, err := specflowHome(); err == nil {
			home = resolved
		}
	}

	if _, err := fmt.Fprintf(w, "home:                   %s\n", home); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "store.freshness_window: %s\n", cfg.Store.FreshnessWindow); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "store.lock_timeout:     %s\n", cfg.Store.LockTimeout); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "documents.dir:          %s\n", cfg.Documents.Dir); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "history.limit:          %d\n", cfg.History.Limit); err != nil {
		return err
	}
	return nil
}

// handleConfigError handles errors based on output format.
func handleConfigError(format string, w io.Writer, err error) error {
	return HandleCommandError(format, w, configResponse{
		Success: false,
		Error:   err.Error(),
	}, err)
}
