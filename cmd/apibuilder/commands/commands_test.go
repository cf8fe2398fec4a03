package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/backup"
	"github.com/apibuilder/apibuilder-cli/internal/editor"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

const projectConfig = `# generators for this repo
code:
  acme:
    svc:
      version: 1.0.0
      generators:
        play_2_8_client: app/clients
    billing:
      version: 0.9.0
      generators:
        - generator: http4s_0_23
          target: src/main/scala
          files: Client.scala
attributes:
  generators:
    play_*:
      scala_version: "2.13"
`

// resetFlags restores every package-level flag variable.
func resetFlags() {
	configFlag = ""
	verbosity = 0
	quiet = false
	logFormat = "text"
	logFile = ""
	configShowFormat = "yaml"
	configValidateFormat = "text"
	configGlobalFormat = "yaml"
	setVersionAll = false
	setVersionPlain = false
	projectListJSON = false
	generatorListProject = ""
	generatorListJSON = false
	configBackupsJSON = false
}

// newRepo creates an isolated working directory and home.
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	for _, k := range []string{"APIBUILDER_PROFILE", "APIBUILDER_TOKEN", "APIBUILDER_API_URI", debugEnv} {
		t.Setenv(k, "")
	}
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(dir)
	return dir
}

func writeProjectConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command with args and returns combined output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	newRepo(t)
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "apibuilder version")
	assert.Contains(t, out, "commit:")
}

func TestQuietAndVerboseConflict(t *testing.T) {
	newRepo(t)
	_, err := run(t, "", "-q", "-v", "config", "path")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestUnknownLogFormat(t *testing.T) {
	newRepo(t)
	_, err := run(t, "", "--log-format", "xml", "version")
	require.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(".apibuilder", "config"))
	assert.Contains(t, out, "Project dir:")
	assert.NotContains(t, out, "Migrated:")
}

func TestConfigPath_MigratesLegacyFile(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apidoc", projectConfig)

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated:")
	assert.Contains(t, out, "deprecated")
	assert.FileExists(t, filepath.Join(dir, ".apibuilder", "config"))
	assert.NoFileExists(t, filepath.Join(dir, ".apidoc"))

	// Second run finds the canonical file and moves nothing.
	out, err = run(t, "", "config", "path")
	require.NoError(t, err)
	assert.NotContains(t, out, "Migrated:")
}

func TestConfigNotFound(t *testing.T) {
	newRepo(t)
	_, err := run(t, "", "project", "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appconfig.ErrConfigNotFound))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestGlobalConfigIsRejected(t *testing.T) {
	newRepo(t)
	home := os.Getenv("HOME")
	writeProjectConfig(t, home, ".apibuilder/config", "default_profile: work\n")
	t.Chdir(home)

	_, err := run(t, "", "project", "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appconfig.ErrNotARepository), "got %v", err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestParseErrorExitCode(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", "code: [unclosed\n")

	_, err := run(t, "", "project", "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appconfig.ErrParse))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, "configs/api.yaml", projectConfig)

	out, err := run(t, "", "--config", "configs/api.yaml", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/svc")
}

func TestConfigShow(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	for _, format := range []string{"yaml", "json", "toml"} {
		t.Run(format, func(t *testing.T) {
			out, err := run(t, "", "config", "show", "--format", format)
			require.NoError(t, err)
			assert.Contains(t, out, "play_2_8_client")
			assert.Contains(t, out, "scala_version")
		})
	}

	_, err := run(t, "", "config", "show", "--format", "xml")
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		dir := newRepo(t)
		writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

		out, err := run(t, "", "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "is valid")
	})

	t.Run("legacy location is a warning and is not moved", func(t *testing.T) {
		dir := newRepo(t)
		writeProjectConfig(t, dir, ".apidoc", projectConfig)

		out, err := run(t, "", "config", "validate", "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"severity": "warning"`)
		assert.FileExists(t, filepath.Join(dir, ".apidoc"))
	})

	t.Run("invalid", func(t *testing.T) {
		dir := newRepo(t)
		writeProjectConfig(t, dir, ".apibuilder/config",
			"code:\n  acme:\n    svc:\n      version: 1.0.0\n      generators: {}\n")

		out, err := run(t, "", "config", "validate")
		require.Error(t, err)
		assert.ErrorIs(t, err, errValidationFailed)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
		assert.Contains(t, out, "code.acme.svc.generators")
	})
}

func TestConfigGlobal_MasksToken(t *testing.T) {
	newRepo(t)
	home := os.Getenv("HOME")
	writeProjectConfig(t, home, ".apibuilder/config", `default_profile: work
profiles:
  work:
    api_uri: https://api.example.com
    token: supersecret1234
`)

	out, err := run(t, "", "config", "global")
	require.NoError(t, err)
	assert.Contains(t, out, "profile: work")
	assert.Contains(t, out, "https://api.example.com")
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "supersecret")
}

func TestConfigEdit(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	orig := openEditor
	t.Cleanup(func() { openEditor = orig })

	openEditor = func(p string, _ editor.Streams) error {
		return os.WriteFile(p, []byte("settings:\n  bogus: true\n"), 0o644)
	}
	out, err := run(t, "", "config", "edit")
	require.Error(t, err)
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Location:")

	openEditor = func(p string, _ editor.Streams) error {
		assert.Equal(t, path, p)
		return nil
	}
	require.NoError(t, os.WriteFile(path, []byte(projectConfig), 0o644))
	out, err = run(t, "", "config", "edit")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestProjectList(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PROJECT")
	assert.Contains(t, out, "acme/svc")
	assert.Contains(t, out, "0.9.0")

	out, err = run(t, "", "project", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "billing"`)
}

func TestProjectSetVersion(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "project", "set-version", "acme/svc", "2.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0 → 2.0.0")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2.0.0")
	assert.Contains(t, string(data), "version: 0.9.0")
	assert.Contains(t, string(data), "# generators for this repo")
}

func TestProjectSetVersion_BackupAndRestore(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "config", "backups")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups")

	_, err = run(t, "", "config", "restore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackupsFound))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	_, err = run(t, "", "project", "set-version", "acme/svc", "3.0.0")
	require.NoError(t, err)

	out, err = run(t, "", "config", "backups", "--json")
	require.NoError(t, err)
	var entries []backupEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(len(projectConfig)), entries[0].Size)

	out, err = run(t, "", "config", "restore")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, projectConfig, string(data))
}

func TestProjectSetVersion_UnchangedSkipsBackup(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "project", "set-version", "acme/svc", "1.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "(unchanged)")

	out, err = run(t, "", "config", "backups")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups")
}

func TestProjectSetVersion_PartialFailure(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "project", "set-version", "acme/missing", "bad-ref", "acme/billing", "1.0.0")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, out, "acme/missing")
	assert.Contains(t, out, "bad-ref")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "0.9.0", "successful updates are saved")
}

func TestProjectSetVersion_All(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	_, err := run(t, "", "project", "set-version", "--all", "latest")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "version: latest"))

	_, err = run(t, "", "project", "set-version", "--all", "acme/svc", "1.0.0")
	require.Error(t, err)
}

func TestProjectSetVersion_BlankVersion(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	_, err := run(t, "", "project", "set-version", "acme/svc", "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appconfig.ErrEmptyVersion))
}

func TestProjectSetVersion_Plain(t *testing.T) {
	dir := newRepo(t)
	path := writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "2\n", "project", "set-version", "--plain", "1.5.0")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] acme/billing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1.5.0")
	assert.Contains(t, string(data), "version: 1.0.0")
}

func TestProjectSetVersion_Interactive(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	origSelect, origInteractive := selectProjects, isInteractive
	t.Cleanup(func() { selectProjects, isInteractive = origSelect, origInteractive })

	isInteractive = func() bool { return false }
	_, err := run(t, "", "project", "set-version", "1.5.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	isInteractive = func() bool { return true }
	selectProjects = func(ps []appconfig.Project) ([]appconfig.Project, error) {
		return ps[:1], nil
	}
	out, err := run(t, "", "project", "set-version", "1.5.0")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/svc")
}

func TestGeneratorList(t *testing.T) {
	dir := newRepo(t)
	writeProjectConfig(t, dir, ".apibuilder/config", projectConfig)

	out, err := run(t, "", "generator", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "play_2_8_client")
	assert.Contains(t, out, "scala_version=2.13")
	assert.Contains(t, out, "files:      Client.scala")

	out, err = run(t, "", "generator", "list", "--project", "acme/billing", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "http4s_0_23")
	assert.NotContains(t, out, "play_2_8_client")

	_, err = run(t, "", "generator", "list", "--project", "acme/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appconfig.ErrProjectNotFound))
}

func TestFormatAttributes(t *testing.T) {
	got := formatAttributes(map[string]any{"b": 2, "a": "x"})
	assert.Equal(t, "a=x, b=2", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé...", truncate("héllo wörld", 5))
	assert.Equal(t, "wö", truncate("wörld", 2))
}
