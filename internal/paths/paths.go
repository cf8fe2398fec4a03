package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is used for the global config directory and XDG lookups.
const AppName = "apibuilder"

// LocalDir is the namespaced directory holding per-project configuration.
const LocalDir = ".apibuilder"

// ConfigFilename is the file name used inside LocalDir and the global config dir.
const ConfigFilename = "config"

// Legacy flat project config filenames, highest priority first.
const (
	LegacyApibuilderFile = ".apibuilder"
	LegacyApidocFile     = ".apidoc"
)

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the permission for newly created config directories.
const DefaultDirPerm = 0o755

// ProjectConfigFilenames returns the recognized project config paths relative
// to a project root, highest priority first. The first entry is canonical.
func ProjectConfigFilenames() []string {
	return []string{
		filepath.Join(LocalDir, ConfigFilename),
		LegacyApibuilderFile,
		LegacyApidocFile,
	}
}

// CanonicalProjectConfig returns the canonical project config path under root.
func CanonicalProjectConfig(root string) string {
	return filepath.Join(root, LocalDir, ConfigFilename)
}

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used. It is a no-op for existing directories.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string when unknown.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// GlobalConfigDir returns ~/.apibuilder, or "" if the home directory is unknown.
func GlobalConfigDir() string {
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, LocalDir)
}

// GlobalConfigPath returns ~/.apibuilder/config, the user-level config file.
func GlobalConfigPath() string {
	dir := GlobalConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFilename)
}

// XDGConfigDir returns the XDG config directory for the tool.
// On Linux: ~/.config/apibuilder
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// BackupDir returns the directory holding project config snapshots.
// On Linux: ~/.local/state/apibuilder/backups
func BackupDir() string {
	return filepath.Join(xdg.StateHome, AppName, "backups")
}

// GlobalConfigPaths returns every location a user-level config may live in.
// None of them may ever be treated as a project config.
func GlobalConfigPaths() []string {
	var out []string
	if p := GlobalConfigPath(); p != "" {
		out = append(out, p)
	}
	return append(out, filepath.Join(XDGConfigDir(), ConfigFilename))
}
