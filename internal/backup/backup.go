package backup

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/apibuilder/apibuilder-cli/internal/paths"
	"github.com/apibuilder/apibuilder-cli/pkg/fileutil"
)

// Manager creates, lists, restores and prunes snapshots.
type Manager struct {
	rootDir        string
	retentionCount int
	toolVersion    string
	now            func() time.Time

	mu   sync.Mutex
	done map[string]*Manifest
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of snapshots kept per config file.
// Values below one are ignored.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithToolVersion records the apibuilder version in new manifests.
func WithToolVersion(v string) Option {
	return func(m *Manager) {
		m.toolVersion = v
	}
}

// NewManager creates a Manager storing snapshots under paths.BackupDir.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		toolVersion:    "dev",
		now:            time.Now,
		done:           map[string]*Manifest{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup snapshots the file at source and prunes older snapshots beyond the
// retention count.
func (m *Manager) Backup(source string) (*Manifest, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}
	data, mode, err := readSource(abs)
	if err != nil {
		return nil, err
	}

	manifest, err := m.write(abs, data, mode)
	if err != nil {
		return nil, err
	}
	if err := m.Prune(abs, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// EnsureBackedUp snapshots source once for the life of the Manager. Later
// calls for the same file return the first manifest. A failed snapshot is not
// remembered so the caller may retry.
func (m *Manager) EnsureBackedUp(source string) (*Manifest, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if manifest, ok := m.done[abs]; ok {
		return manifest, nil
	}
	manifest, err := m.Backup(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", abs)
	}
	m.done[abs] = manifest
	return manifest, nil
}

// Restore writes snapshot id back over source. When the current file differs
// from the snapshot it is snapshotted first. The returned manifest is the one
// that was restored.
func (m *Manager) Restore(source, id string) (*Manifest, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}
	manifest, err := m.Get(abs, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(m.snapshotDir(abs, manifest.ID), snapshotName))
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", manifest.ID)
	}
	if hashBytes(data) != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", manifest.ID)
	}

	current, _, err := readSource(abs)
	switch {
	case err == nil && !bytes.Equal(current, data):
		if _, err := m.Backup(abs); err != nil {
			return nil, errors.Wrap(err, "backing up current file before restore")
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	if err := paths.EnsureDir(filepath.Dir(abs), 0); err != nil {
		return nil, err
	}
	if err := fileutil.AtomicWriteFile(abs, data, manifest.Mode.Perm()); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", abs)
	}
	return manifest, nil
}

// Latest returns the newest snapshot of source.
func (m *Manager) Latest(source string) (*Manifest, error) {
	manifests, err := m.List(source)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// List returns the snapshots of source, newest first.
func (m *Manager) List(source string) ([]Manifest, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}

	entries, err := os.ReadDir(m.sourceDir(abs))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "for %s", abs)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(abs, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "for %s", abs)
	}

	sortNewestFirst(manifests)
	return manifests, nil
}

// Get returns the manifest of snapshot id.
func (m *Manager) Get(source, id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("backup ID is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, errors.Newf("invalid backup ID %q", id)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source path")
	}

	data, err := os.ReadFile(filepath.Join(m.snapshotDir(abs, id), manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// Prune keeps the newest keep snapshots of source and removes the rest.
func (m *Manager) Prune(source string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(source)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil // Nothing to prune
		}
		return err
	}

	abs, _ := filepath.Abs(source)
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.snapshotDir(abs, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// write stores data as a new snapshot of abs.
func (m *Manager) write(abs string, data []byte, mode fs.FileMode) (*Manifest, error) {
	dir := m.sourceDir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	created := m.now().UTC()
	id, err := reserveID(dir, created)
	if err != nil {
		return nil, err
	}
	snapshotDir := filepath.Join(dir, id)

	if err := fileutil.AtomicWriteFile(filepath.Join(snapshotDir, snapshotName), data, 0o600); err != nil {
		_ = os.RemoveAll(snapshotDir)
		return nil, errors.Wrap(err, "writing backup")
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   created,
		Source:      abs,
		SHA256Hash:  hashBytes(data),
		Size:        int64(len(data)),
		Mode:        mode,
		ToolVersion: m.toolVersion,
		ID:          id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(snapshotDir, manifestName), manifest, 0o600); err != nil {
		_ = os.RemoveAll(snapshotDir)
		return nil, errors.Wrap(err, "writing manifest")
	}
	return manifest, nil
}

func (m *Manager) sourceDir(abs string) string {
	return filepath.Join(m.rootDir, SourceKey(abs))
}

func (m *Manager) snapshotDir(abs, id string) string {
	return filepath.Join(m.sourceDir(abs), id)
}

// reserveID creates a fresh snapshot directory named after t, adding a
// numeric suffix when another snapshot was taken in the same second.
func reserveID(dir string, t time.Time) (string, error) {
	base := t.Format(idLayout)
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		err := os.Mkdir(filepath.Join(dir, id), 0o700)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", errors.Wrap(err, "creating backup directory")
		}
	}
}

func readSource(abs string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "stat %s", abs)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, errors.Newf("%s is not a regular file", abs)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading %s", abs)
	}
	return data, info.Mode().Perm(), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// sortNewestFirst orders by creation time, then by ID for same-second
// snapshots.
func sortNewestFirst(manifests []Manifest) {
	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
}

// compareIDs orders IDs by timestamp and then by numeric suffix.
func compareIDs(a, b string) int {
	aBase, aSuffix, _ := strings.Cut(a, "-")
	bBase, bSuffix, _ := strings.Cut(b, "-")
	if c := strings.Compare(aBase, bBase); c != 0 {
		return c
	}
	an, _ := strconv.Atoi(aSuffix)
	bn, _ := strconv.Atoi(bSuffix)
	return an - bn
}
