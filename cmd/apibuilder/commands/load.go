package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/cmd"
	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/backup"
	"github.com/apibuilder/apibuilder-cli/internal/config"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/logging"
	"github.com/apibuilder/apibuilder-cli/internal/paths"
)

// workspace is a located and loaded project config.
type workspace struct {
	loc appconfig.Location
	doc *appconfig.Document
	cfg *appconfig.Config

	// migratedFrom is the legacy file moved during this run, if any.
	migratedFrom string
}

// locateProject finds the project config from --config or by discovery.
// Pending legacy migrations are applied only when migrate is true.
func locateProject(cmd *cobra.Command, migrate bool) (appconfig.Location, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return appconfig.Location{}, "", errors.NewSystemError(
			errors.Wrap(err, "getting working directory"), "")
	}
	locator, err := appconfig.NewLocator(wd, logging.FromContext(cmd.Context()))
	if err != nil {
		return appconfig.Location{}, "", errors.NewSystemError(err, "")
	}

	if configFlag != "" {
		loc, err := locator.Explicit(configFlag)
		if err != nil {
			return appconfig.Location{}, "", projectError(err)
		}
		return loc, "", nil
	}

	loc, err := locator.Locate()
	if err != nil {
		return appconfig.Location{}, "", projectError(err)
	}
	if !migrate || !loc.NeedsMigration() {
		return loc, "", nil
	}

	legacy, canonical := loc.Found, loc.Path
	loc, err = locator.Migrate(loc)
	if err != nil {
		return appconfig.Location{}, "", errors.NewSystemError(err,
			"Move "+legacy+" to "+canonical+" by hand")
	}
	return loc, legacy, nil
}

// loadWorkspace locates, migrates and loads the project config.
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	loc, legacy, err := locateProject(cmd, true)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(cmd.Context())
	logger.Debug("loading project config", "path", loc.Found)

	doc, err := appconfig.Load(loc.Found)
	if err != nil {
		return nil, projectError(err)
	}
	cfg, err := doc.Config()
	if err != nil {
		return nil, projectError(err)
	}
	logger.Debug("project config loaded", "projects", len(cfg.Code.Projects))

	return &workspace{loc: loc, doc: doc, cfg: cfg, migratedFrom: legacy}, nil
}

// projectError attaches an exit code and suggestion to a config core error.
func projectError(err error) error {
	switch {
	case errors.Is(err, appconfig.ErrConfigNotFound):
		return errors.NewUserError(err,
			"Create .apibuilder/config in this directory or the repository root, or pass --config")
	case errors.Is(err, appconfig.ErrNotARepository):
		return errors.NewUserError(err, "Run apibuilder from inside a repository")
	case appconfig.IsInvalid(err):
		return errors.NewConfigError(err)
	default:
		return errors.NewSystemError(err, "")
	}
}

// globalConfigLocation names the user config file for messages.
func globalConfigLocation() string {
	if f := config.File(); f != "" {
		return f
	}
	return paths.GlobalConfigPath()
}

// newBackupManager is replaced in tests.
var newBackupManager = func() *backup.Manager {
	return backup.NewManager(
		backup.WithToolVersion(cmd.Version),
		backup.WithRetentionCount(globalConfig.Retention()),
	)
}

// snapshot backs up the project config before it is rewritten.
func snapshot(c *cobra.Command, path string) error {
	manifest, err := newBackupManager().EnsureBackedUp(path)
	if err != nil {
		return errors.NewSystemError(err, "Check that "+paths.BackupDir()+" is writable")
	}
	logging.FromContext(c.Context()).Debug("project config backed up", "id", manifest.ID)
	return nil
}
