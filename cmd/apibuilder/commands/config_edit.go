package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/editor"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/validator"
)

// openEditor is replaced in tests.
var openEditor = editor.Open

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the project config in $EDITOR",
	Long: `Open the project config in your editor and check it once the editor
exits.

Uses $EDITOR, then $VISUAL, then nano or vi. A legacy file is migrated
before it is opened, and the file is backed up first so the edit can be
undone with apibuilder config restore.`,
	Example: `  apibuilder config edit

  # Open with a specific editor
  EDITOR=nano apibuilder config edit

See Also: apibuilder config validate`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	loc, _, err := locateProject(cmd, true)
	if err != nil {
		return err
	}

	if err := snapshot(cmd, loc.Path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", loc.Path)
	if err := openEditor(loc.Path, editor.Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	}); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to an installed editor")
	}

	result := &validator.Result{Path: loc.Path}
	cfg, err := loadConfigAt(loc.Path)
	validator.CheckLoad(result, err)
	validator.CheckConfig(result, cfg)

	if err := validator.NewReporter(cmd.OutOrStdout(), validator.FormatText).Report(result); err != nil {
		return errors.NewSystemError(err, "")
	}
	if result.HasErrors() {
		return errors.NewUserError(errValidationFailed, "Fix the reported problems with: apibuilder config edit")
	}
	return nil
}
