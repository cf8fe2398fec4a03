package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/cli/prompt"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/logging"
)

var (
	setVersionAll   bool
	setVersionPlain bool
)

// selectProjects is replaced in tests.
var selectProjects = prompt.FuzzySelectProjects

// isInteractive is replaced in tests.
var isInteractive = logging.IsInteractive

func init() {
	projectSetVersionCmd.Flags().BoolVar(&setVersionAll, "all", false,
		"update every project in the file")
	projectSetVersionCmd.Flags().BoolVar(&setVersionPlain, "plain", false,
		"choose projects from a numbered list instead of the fuzzy finder")
}

var projectSetVersionCmd = &cobra.Command{
	Use:   "set-version [org/name...] <version>",
	Short: "Pin projects to a version",
	Long: `Set the version of one or more projects and rewrite the project config.

Only the version values change; ordering and comments in the file are
kept. A project that cannot be updated is reported and the others are
still saved.

Without a project argument on a terminal, projects are chosen
interactively.`,
	Example: `  # One project
  apibuilder project set-version acme/svc 1.2.0

  # Several projects
  apibuilder project set-version acme/svc acme/billing 1.2.0

  # Every project
  apibuilder project set-version --all latest

See Also: apibuilder project list`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectSetVersion,
}

// versionChange is the outcome for one requested project.
type versionChange struct {
	Ref  string
	From string
	Err  error
}

func runProjectSetVersion(cmd *cobra.Command, args []string) error {
	version := strings.TrimSpace(args[len(args)-1])
	refs := args[:len(args)-1]

	if version == "" {
		return errors.NewUserError(appconfig.ErrEmptyVersion, "Pass a non-blank version")
	}
	if setVersionAll && len(refs) > 0 {
		return errors.NewUserError(
			errors.Wrap(errors.ErrInvalidArgument, "--all cannot be combined with project arguments"), "")
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	switch {
	case setVersionAll:
		refs = projectKeys(ws.cfg.Code.Projects)
	case len(refs) == 0:
		refs, err = chooseProjects(cmd, ws.cfg.Code.Projects)
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	changes := applyVersion(ws, refs, version)

	logger := logging.FromContext(cmd.Context())
	changed, failed := 0, 0
	for _, c := range changes {
		switch {
		case c.Err != nil:
			failed++
		case c.From != version:
			changed++
			logger.Info("project version updated", "project", c.Ref, "from", c.From, "to", version)
		}
	}

	if changed > 0 {
		if err := snapshot(cmd, ws.loc.Path); err != nil {
			return err
		}
		if err := ws.doc.Save(); err != nil {
			return errors.NewSystemError(err, "Check that "+ws.loc.Path+" is writable")
		}
		logger.Info("project config saved", "path", ws.loc.Path)
	}

	if !quiet {
		printChanges(cmd.OutOrStdout(), changes, version)
	}

	if failed > 0 {
		return errors.NewUserError(
			errors.Newf("%d of %d projects were not updated", failed, len(changes)),
			"Run: apibuilder project list")
	}
	return nil
}

// applyVersion sets version on each referenced project of the document.
func applyVersion(ws *workspace, refs []string, version string) []versionChange {
	changes := make([]versionChange, 0, len(refs))
	for _, ref := range refs {
		c := versionChange{Ref: ref}
		org, name, ok := appconfig.ParseProjectRef(ref)
		if !ok {
			c.Err = errors.Wrapf(errors.ErrInvalidArgument, "%q is not of the form org/name", ref)
			changes = append(changes, c)
			continue
		}
		if p, found := ws.cfg.Code.Find(org, name); found {
			c.From = p.Version
		}
		c.Err = ws.doc.SetVersion(org, name, version)
		changes = append(changes, c)
	}
	return changes
}

func chooseProjects(cmd *cobra.Command, projects []appconfig.Project) ([]string, error) {
	var (
		picked []appconfig.Project
		err    error
	)
	switch {
	case setVersionPlain:
		picked, err = prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()).SelectProjects(projects)
	case isInteractive():
		picked, err = selectProjects(projects)
	default:
		return nil, errors.NewUserError(
			errors.Wrap(errors.ErrInvalidArgument, "no project given"),
			"Pass org/name, --all, or --plain to choose from a list")
	}
	if errors.Is(err, prompt.ErrNoProjects) {
		return nil, errors.NewUserError(err, "Add a project under code in "+configFileHint())
	}
	if err != nil {
		return nil, err
	}
	return projectKeys(picked), nil
}

func projectKeys(projects []appconfig.Project) []string {
	keys := make([]string, 0, len(projects))
	for _, p := range projects {
		keys = append(keys, p.Key())
	}
	return keys
}

func printChanges(w io.Writer, changes []versionChange, version string) {
	for _, c := range changes {
		switch {
		case c.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", styleWarn("✗"), c.Ref, c.Err)
		case c.From == version:
			fmt.Fprintf(w, "  %s: %s %s\n", c.Ref, version, styleDim("(unchanged)"))
		case c.From == "":
			fmt.Fprintf(w, "✓ %s: %s\n", styleName(c.Ref), version)
		default:
			fmt.Fprintf(w, "✓ %s: %s → %s\n", styleName(c.Ref), c.From, version)
		}
	}
}

// configFileHint names the project config for messages.
func configFileHint() string {
	if configFlag != "" {
		return configFlag
	}
	return ".apibuilder/config"
}
