package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

var (
	generatorListProject string
	generatorListJSON    bool
)

func init() {
	generatorListCmd.Flags().StringVarP(&generatorListProject, "project", "p", "",
		"only list generators of this org/name")
	generatorListCmd.Flags().BoolVar(&generatorListJSON, "json", false,
		"output in JSON format")

	generatorCmd.AddCommand(generatorListCmd)
	rootCmd.AddCommand(generatorCmd)
}

var generatorCmd = &cobra.Command{
	Use:   "generator",
	Short: "Inspect code generators",
	Long:  `Inspect the code generators configured for each project.`,
}

var generatorListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List generators with their targets and attributes",
	Long: `List every generator with its targets, file filter and effective
attributes. Attributes include the values contributed by matching rules
under attributes.generators.`,
	Example: `  apibuilder generator list
  apibuilder generator list --project acme/svc

See Also: apibuilder config show`,
	Args: cobra.NoArgs,
	RunE: runGeneratorList,
}

// generatorEntry is the JSON form of a generator listing entry.
type generatorEntry struct {
	Project    string         `json:"project"`
	Name       string         `json:"name"`
	Targets    []string       `json:"targets"`
	Files      []string       `json:"files,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

func runGeneratorList(cmd *cobra.Command, _ []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	projects := ws.cfg.Code.Projects
	if generatorListProject != "" {
		org, name, ok := appconfig.ParseProjectRef(generatorListProject)
		if !ok {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrInvalidArgument, "%q is not of the form org/name", generatorListProject), "")
		}
		p, found := ws.cfg.Code.Find(org, name)
		if !found {
			return errors.NewUserError(
				&appconfig.ProjectError{Path: ws.loc.Path, Org: org, Project: name, Err: appconfig.ErrProjectNotFound},
				"Run: apibuilder project list")
		}
		projects = []appconfig.Project{p}
	}

	if generatorListJSON {
		var entries []generatorEntry
		for _, p := range projects {
			for _, g := range p.Generators {
				entries = append(entries, generatorEntry{
					Project: p.Key(), Name: g.Name, Targets: g.Targets, Files: g.Files, Attributes: g.Attributes,
				})
			}
		}
		if entries == nil {
			entries = []generatorEntry{}
		}
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	return outputGenerators(cmd.OutOrStdout(), projects)
}

func outputGenerators(w io.Writer, projects []appconfig.Project) error {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects configured")
		return nil
	}
	for i, p := range projects {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", styleTitle(p.Key()), styleDim("@ "+p.Version))
		for _, g := range p.Generators {
			fmt.Fprintf(w, "  %s\n", styleName(g.Name))
			fmt.Fprintf(w, "    targets:    %s\n", orDash(g.Targets))
			if len(g.Files) > 0 {
				fmt.Fprintf(w, "    files:      %s\n", orDash(g.Files))
			}
			if len(g.Attributes) > 0 {
				fmt.Fprintf(w, "    attributes: %s\n", formatAttributes(g.Attributes))
			}
		}
	}
	return nil
}

// formatAttributes renders attributes as sorted key=value pairs.
func formatAttributes(attrs map[string]any) string {
	keys := slices.Sorted(maps.Keys(attrs))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}
