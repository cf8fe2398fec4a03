package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/backup"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/logging"
)

var configBackupsJSON bool

func init() {
	configBackupsCmd.Flags().BoolVar(&configBackupsJSON, "json", false,
		"output in JSON format")
}

var configBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List snapshots of the project config",
	Long: `List the snapshots taken before apibuilder rewrote the project config,
newest first. Snapshots are kept under ~/.local/state/apibuilder/backups;
backup_retention in the user config sets how many are kept (default 5).`,
	Example: `  apibuilder config backups
  apibuilder config backups --json

See Also: apibuilder config restore`,
	Args: cobra.NoArgs,
	RunE: runConfigBackups,
}

var configRestoreCmd = &cobra.Command{
	Use:   "restore [ID]",
	Short: "Restore the project config from a snapshot",
	Long: `Write a snapshot back over the project config. Without an ID the newest
snapshot is used. The current file is snapshotted first when it differs,
so a restore can be undone the same way.`,
	Example: `  # Undo the last rewrite
  apibuilder config restore

  # Restore a specific snapshot
  apibuilder config restore 20260123T100712Z

See Also: apibuilder config backups`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigRestore,
}

// backupEntry is the JSON form of a snapshot listing entry.
type backupEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	SHA256    string    `json:"sha256"`
	Version   string    `json:"tool_version"`
}

func runConfigBackups(cmd *cobra.Command, _ []string) error {
	loc, _, err := locateProject(cmd, false)
	if err != nil {
		return err
	}

	manifests, err := newBackupManager().List(loc.Path)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewSystemError(err, "")
	}

	if configBackupsJSON {
		entries := make([]backupEntry, 0, len(manifests))
		for _, m := range manifests {
			entries = append(entries, backupEntry{
				ID: m.ID, CreatedAt: m.CreatedAt, Size: m.Size, SHA256: m.SHA256Hash, Version: m.ToolVersion,
			})
		}
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	return outputBackups(cmd.OutOrStdout(), manifests)
}

func outputBackups(w io.Writer, manifests []backup.Manifest) error {
	if len(manifests) == 0 {
		fmt.Fprintln(w, "No backups")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", styleHeader("ID"), styleHeader("CREATED"), styleHeader("SIZE"), styleHeader("SHA256"))
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			styleName(m.ID), m.CreatedAt.Local().Format(time.DateTime), m.Size, styleDim(truncate(m.SHA256Hash, 12)))
	}
	return tw.Flush()
}

func runConfigRestore(cmd *cobra.Command, args []string) error {
	loc, _, err := locateProject(cmd, true)
	if err != nil {
		return err
	}

	mgr := newBackupManager()
	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		latest, err := mgr.Latest(loc.Path)
		if err != nil {
			return backupError(err)
		}
		id = latest.ID
	}

	manifest, err := mgr.Restore(loc.Path, id)
	if err != nil {
		return backupError(err)
	}
	logging.FromContext(cmd.Context()).Info("project config restored", "path", loc.Path, "id", manifest.ID)

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %s from %s (%s)\n",
			loc.Path, styleName(manifest.ID), manifest.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func backupError(err error) error {
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "Run: apibuilder config backups")
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewUserError(err, "Pick another snapshot from: apibuilder config backups")
	default:
		return errors.NewSystemError(err, "")
	}
}
