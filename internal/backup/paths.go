package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SourceKey returns the store directory name for a config file: the name of
// the project directory followed by a short hash of the absolute path.
func SourceKey(absPath string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(absPath)))
	hash := hex.EncodeToString(sum[:])[:12]

	// .../<project>/.apibuilder/config names the project two levels up.
	project := filepath.Base(filepath.Dir(absPath))
	if project == ".apibuilder" {
		project = filepath.Base(filepath.Dir(filepath.Dir(absPath)))
	}
	project = unsafeKeyChars.ReplaceAllString(project, "_")
	if project == "" || project == "_" || project == "." {
		return hash
	}
	return project + "-" + hash
}
