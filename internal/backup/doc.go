// Package backup keeps snapshots of a project config file so rewrites made by
// apibuilder can be undone.
//
// Each snapshot lives in a timestamped directory under a per-file store:
//
//	~/.local/state/apibuilder/backups/
//	└── {source key}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── config
//
// The source key is derived from the absolute path of the config file, so
// every repository gets its own history.
//
// # Creating Backups
//
//	mgr := backup.NewManager()
//	manifest, err := mgr.Backup("/src/acme/.apibuilder/config")
//
// [Manager.EnsureBackedUp] takes at most one snapshot per file for the life of
// the Manager, which is what commands call before saving.
//
// # Restoring Backups
//
//	manifest, err := mgr.Restore(path, "20260123T100712Z")
//
// The snapshot is checked against its SHA256 before it is written back. The
// current file is snapshotted first when its content differs, so a restore
// can itself be undone.
//
// # Retention
//
// Backup prunes the store down to the retention count (default 5) after every
// snapshot. [Manager.List] returns the newest snapshot first.
//
// # Errors
//
//   - [ErrNoBackupsFound]: no snapshot exists for the file or ID
//   - [ErrBackupCorrupted]: a snapshot no longer matches its recorded hash
package backup
