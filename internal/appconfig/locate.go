package appconfig

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/apibuilder/apibuilder-cli/internal/git"
	"github.com/apibuilder/apibuilder-cli/internal/logging"
	"github.com/apibuilder/apibuilder-cli/internal/paths"
)

// hiddenMarker prefixes directories that never count as the project dir.
const hiddenMarker = "."

// Location is the result of discovery.
type Location struct {
	// Root is the directory the file was found in: the working directory or
	// the repository root. Generated paths are resolved against it.
	Root string

	// Found is the absolute path of the existing file.
	Found string

	// Path is the canonical <Root>/.apibuilder/config path. It differs from
	// Found while a legacy file is waiting to be migrated.
	Path string
}

// NeedsMigration reports whether Found is a legacy file that Migrate moves.
func (l Location) NeedsMigration() bool {
	return l.Found != l.Path
}

// Locator finds the project config for a working directory.
type Locator struct {
	// WorkDir is the directory discovery starts from.
	WorkDir string

	// GlobalPaths are user-level config files that must never be used as a
	// project config.
	GlobalPaths []string

	// RepoRoot returns the repository root for a directory, or "".
	RepoRoot func(dir string) string

	// Move renames src to dst, preferring a VCS-aware rename.
	Move func(dir, src, dst string) (bool, error)

	Logger *slog.Logger
}

// NewLocator returns a Locator for workDir using git and the standard
// global config locations.
func NewLocator(workDir string, logger *slog.Logger) (*Locator, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", workDir)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		WorkDir:     abs,
		GlobalPaths: paths.GlobalConfigPaths(),
		RepoRoot:    git.RepoRoot,
		Move:        git.Move,
		Logger:      logger,
	}, nil
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Locate finds the config file without touching the file system. It
// searches the working directory first and then the repository root.
func (l *Locator) Locate() (Location, error) {
	loc, ok := l.search(l.WorkDir)
	if !ok && l.RepoRoot != nil {
		if root := l.RepoRoot(l.WorkDir); root != "" && filepath.Clean(root) != l.WorkDir {
			l.logger().Debug("config not in working directory, trying repository root", "root", root)
			loc, ok = l.search(filepath.Clean(root))
		}
	}
	if !ok {
		return Location{}, errors.Wrapf(ErrConfigNotFound,
			"expected file to be located in %s or the project root directory and named %s",
			l.WorkDir, paths.ProjectConfigFilenames()[0])
	}
	if err := l.checkNotGlobal(loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Explicit builds a Location for a file given on the command line, skipping
// discovery and migration.
func (l *Locator) Explicit(path string) (Location, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.WorkDir, path)
	}
	path = filepath.Clean(path)
	if !isFile(path) {
		return Location{}, errors.Wrapf(ErrConfigNotFound, "apibuilder application config file[%s] not found", path)
	}
	loc := Location{Root: ProjectDir(path), Found: path, Path: path}
	if err := l.checkNotGlobal(loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (l *Locator) search(dir string) (Location, bool) {
	for _, name := range paths.ProjectConfigFilenames() {
		candidate := filepath.Join(dir, name)
		l.logger().Log(context.Background(), logging.LevelTrace, "probing config location", "path", candidate)
		if isFile(candidate) {
			return Location{
				Root:  dir,
				Found: candidate,
				Path:  paths.CanonicalProjectConfig(dir),
			}, true
		}
	}
	return Location{}, false
}

func (l *Locator) checkNotGlobal(loc Location) error {
	for _, global := range l.GlobalPaths {
		if global == "" {
			continue
		}
		if samePath(loc.Path, global) || samePath(loc.Found, global) {
			return errors.Wrapf(ErrNotARepository,
				"%s is the global apibuilder configuration; run apibuilder from a repository", global)
		}
	}
	return nil
}

// Migrate moves a legacy config file to the canonical location and returns
// the updated Location. It is a no-op when no migration is pending. The
// legacy file is first moved aside because ".apibuilder" is both a legacy
// file name and the canonical directory name.
func (l *Locator) Migrate(loc Location) (Location, error) {
	if !loc.NeedsMigration() {
		return loc, nil
	}
	if isFile(loc.Path) {
		return Location{}, errors.Newf("cannot migrate %s: %s already exists", loc.Found, loc.Path)
	}

	log := l.logger().With("from", loc.Found, "to", loc.Path)
	log.Warn("configuration file location is deprecated, moving it")

	move := l.Move
	if move == nil {
		move = git.Move
	}

	tmp := filepath.Join(loc.Root, paths.LocalDir+".tmp")
	usedGit, err := move(loc.Root, loc.Found, tmp)
	if err != nil {
		return Location{}, errors.Wrap(err, "migrating legacy config")
	}
	log.Info("moved legacy config aside", "tmp", tmp, "git", usedGit)

	dir := filepath.Dir(loc.Path)
	_, statErr := os.Stat(dir)
	createdDir := errors.Is(statErr, os.ErrNotExist)

	// rollback puts the legacy file back so the next run finds it again.
	rollback := func(err error) error {
		if createdDir {
			_ = os.Remove(dir)
		}
		if _, rbErr := move(loc.Root, tmp, loc.Found); rbErr != nil {
			log.Error("restoring legacy config failed", "tmp", tmp, "error", rbErr)
			return errors.CombineErrors(err, errors.Wrapf(rbErr, "restoring %s", loc.Found))
		}
		return err
	}

	if err := paths.EnsureDir(dir, 0); err != nil {
		return Location{}, rollback(errors.Wrapf(err, "creating %s", dir))
	}

	if usedGit, err = move(loc.Root, tmp, loc.Path); err != nil {
		return Location{}, rollback(errors.Wrap(err, "migrating legacy config"))
	}
	log.Info("migrated legacy config", "git", usedGit)

	loc.Found = loc.Path
	return loc, nil
}

// Resolve locates the config and applies any pending migration.
func (l *Locator) Resolve() (Location, error) {
	loc, err := l.Locate()
	if err != nil {
		return Location{}, err
	}
	return l.Migrate(loc)
}

// ProjectDir returns the directory generated paths are relative to: the
// directory containing path, walked upward past hidden directories so that
// /repo/.apibuilder/config yields /repo.
func ProjectDir(path string) string {
	dir := filepath.Dir(path)
	segments := strings.Split(filepath.ToSlash(dir), "/")

	cut := -1
	for i := len(segments) - 1; i >= 0; i-- {
		if isHidden(segments[i]) {
			cut = i
			break
		}
	}
	if cut < 0 {
		return dir
	}
	for cut > 0 && isHidden(segments[cut-1]) {
		cut--
	}

	kept := segments[:cut]
	switch {
	case len(kept) == 0:
		return "."
	case len(kept) == 1 && kept[0] == "":
		return string(filepath.Separator)
	}
	return filepath.FromSlash(strings.Join(kept, "/"))
}

func isHidden(segment string) bool {
	return strings.HasPrefix(segment, hiddenMarker) && segment != "." && segment != ".."
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
