package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
)

var projectListJSON bool

func init() {
	projectListCmd.Flags().BoolVar(&projectListJSON, "json", false,
		"output in JSON format")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectSetVersionCmd)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "List and update the projects in the project config",
	Long: `List and update the organization/project entries under the code
section of the project config.`,
	Example: `  apibuilder project list
  apibuilder project set-version acme/svc 1.2.0

See Also: apibuilder generator list`,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects and their pinned versions",
	Example: `  apibuilder project list
  apibuilder project list --json`,
	Args: cobra.NoArgs,
	RunE: runProjectList,
}

// projectSummary is the JSON form of a project listing entry.
type projectSummary struct {
	Org        string   `json:"org"`
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Generators []string `json:"generators"`
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	if projectListJSON {
		return writeJSON(cmd.OutOrStdout(), summarizeProjects(ws.cfg.Code.Projects))
	}
	return outputProjectsTabular(cmd.OutOrStdout(), ws.cfg.Code.Projects)
}

func summarizeProjects(projects []appconfig.Project) []projectSummary {
	out := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		s := projectSummary{Org: p.Org, Name: p.Name, Version: p.Version}
		for _, g := range p.Generators {
			s.Generators = append(s.Generators, g.Name)
		}
		out = append(out, s)
	}
	return out
}

func outputProjectsTabular(w io.Writer, projects []appconfig.Project) error {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects configured")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", styleHeader("PROJECT"), styleHeader("VERSION"), styleHeader("GENERATORS"))
	for _, p := range projects {
		names := make([]string, 0, len(p.Generators))
		for _, g := range p.Generators {
			names = append(names, g.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", styleName(p.Key()), p.Version, truncate(orDash(names), 60))
	}
	return tw.Flush()
}
