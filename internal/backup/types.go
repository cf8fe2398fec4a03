package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the number of snapshots kept per config file.
const DefaultRetentionCount = 5

const (
	manifestName = "manifest.json"
	snapshotName = "config"

	// idLayout formats snapshot IDs; it sorts lexically and has no colons.
	idLayout = "20060102T150405Z"
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no snapshot exists for the requested file or ID.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a snapshot's SHA256 does not match its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one snapshot. It is stored as manifest.json next to the
// copied file.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// Source is the absolute path of the config file.
	Source string `json:"source"`

	// SHA256Hash is the hex-encoded hash of the snapshot contents.
	SHA256Hash string `json:"sha256_hash"`

	// Size is the snapshot length in bytes.
	Size int64 `json:"size"`

	// Mode is the source file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// ToolVersion is the apibuilder version that took the snapshot.
	ToolVersion string `json:"tool_version"`

	// ID is the snapshot directory name. Populated on load, not stored.
	ID string `json:"-"`
}
