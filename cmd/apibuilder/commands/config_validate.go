package commands

import (
	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/validator"
)

var configValidateFormat string

var errValidationFailed = errors.New("validation failed")

func init() {
	configValidateCmd.Flags().StringVarP(&configValidateFormat, "format", "f", "text",
		"report format: text, json")
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project config for problems",
	Long: `Check the project config and the user config for problems.

The project config is located but not migrated; a legacy location is
reported as a warning instead.

Exit codes:
  0 - Valid (warnings OK)
  1 - Validation errors`,
	Example: `  # Human-readable report
  apibuilder config validate

  # JSON output for CI/CD
  apibuilder config validate --format json

See Also: apibuilder config show`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	format, err := validator.ParseFormat(configValidateFormat)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	loc, _, err := locateProject(cmd, false)
	if err != nil {
		return err
	}

	result := &validator.Result{Path: loc.Found}
	validator.CheckLocation(result, loc)

	cfg, err := loadConfigAt(loc.Found)
	if err != nil && !appconfig.IsInvalid(err) {
		return projectError(err)
	}
	validator.CheckLoad(result, err)
	validator.CheckConfig(result, cfg)
	validator.CheckGlobal(result, globalConfig)

	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return errors.NewSystemError(err, "")
	}
	if result.HasErrors() {
		return errors.NewExitError(errValidationFailed, errors.ExitUser)
	}
	return nil
}

// loadConfigAt loads and builds the model for path.
func loadConfigAt(path string) (*appconfig.Config, error) {
	doc, err := appconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return doc.Config()
}
