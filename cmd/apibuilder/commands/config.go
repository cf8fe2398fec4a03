package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/render"
)

var configShowFormat string

func init() {
	configShowCmd.Flags().StringVarP(&configShowFormat, "format", "f", "yaml",
		"output format: yaml, json, toml")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configGlobalCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configBackupsCmd)
	configCmd.AddCommand(configRestoreCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the project configuration",
	Long: `Inspect the project configuration stored in .apibuilder/config.

Without a subcommand, shows the resolved configuration.`,
	Example: `  # Show the resolved configuration
  apibuilder config

  # Print the file location
  apibuilder config path

See Also: apibuilder project, apibuilder generator`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the project config",
	Long: `Print the project config file and the directory generated paths are
relative to. A legacy file is migrated first and reported.`,
	Example: `  apibuilder config path

See Also: apibuilder config validate`,
	Args: cobra.NoArgs,
	RunE: runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Show the configuration after parsing: settings, attribute rules and
every project with its generators. Generator attributes are shown after
the global rules have been applied.`,
	Example: `  # YAML (default)
  apibuilder config show

  # JSON for scripts
  apibuilder config show --format json

See Also: apibuilder generator list`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	return printPath(cmd.OutOrStdout(), ws)
}

func printPath(w io.Writer, ws *workspace) error {
	fmt.Fprintf(w, "Config:      %s\n", ws.loc.Path)
	fmt.Fprintf(w, "Project dir: %s\n", ws.cfg.ProjectDir)
	if ws.migratedFrom != "" {
		fmt.Fprintf(w, "Migrated:    %s\n", ws.migratedFrom)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(configShowFormat)
	if err != nil {
		return err
	}
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	return render.Write(cmd.OutOrStdout(), ws.cfg, format)
}
