// Package git wraps the few git invocations apibuilder needs: locating the
// repository root and moving tracked files.
package git

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// RepoRoot returns the top-level directory of the git work tree containing
// dir. It returns an empty string when dir is not inside a work tree or git
// is unavailable; callers treat that as "no fallback location".
func RepoRoot(dir string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(out.String())
}

// Move renames src to dst. Inside a work tree it uses `git mv` so the rename
// is staged; untracked files and directories outside git fall back to a plain
// rename. The returned bool reports whether git performed the move.
func Move(dir, src, dst string) (bool, error) {
	cmd := exec.Command("git", "mv", "--", src, dst)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err == nil {
		return true, nil
	}

	if err := os.Rename(src, dst); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return false, errors.Wrapf(err, "moving %s to %s (git: %s)", src, dst, msg)
		}
		return false, errors.Wrapf(err, "moving %s to %s", src, dst)
	}
	return false, nil
}
