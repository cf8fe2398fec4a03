package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	aperrors "github.com/apibuilder/apibuilder-cli/internal/errors"
)

// isolate resets Viper and points every search path at empty directories.
func isolate(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	for _, k := range []string{"APIBUILDER_PROFILE", "APIBUILDER_TOKEN", "APIBUILDER_API_URI"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInit(t *testing.T) {
	isolate(t)
	Init()

	if got := viper.GetString("default_profile"); got != DefaultProfileName {
		t.Errorf("default_profile default = %q, want %q", got, DefaultProfileName)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if File() != "" {
		t.Errorf("File() = %q, want empty", File())
	}

	name, p := cfg.ActiveProfile()
	if name != DefaultProfileName {
		t.Errorf("ActiveProfile() name = %q, want %q", name, DefaultProfileName)
	}
	if p.APIURI != DefaultAPIURI {
		t.Errorf("APIURI = %q, want %q", p.APIURI, DefaultAPIURI)
	}
	if p.Token != "" {
		t.Errorf("Token = %q, want empty", p.Token)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, `default_profile: work
profiles:
  work:
    api_uri: https://api.example.com
    token: abc123
  local:
    api_uri: http://localhost:9000
`)
	Init()

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(cfg.Profiles))
	}

	name, p := cfg.ActiveProfile()
	if name != "work" || p.APIURI != "https://api.example.com" || p.Token != "abc123" {
		t.Errorf("ActiveProfile() = %q %+v", name, p)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v, want none", errs)
	}
	if cfg.BackupRetention != DefaultBackupRetention {
		t.Errorf("BackupRetention = %d, want default %d", cfg.BackupRetention, DefaultBackupRetention)
	}
}

func TestLoad_GlobalLocation(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".apibuilder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte("default_profile: home\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultProfile != "home" {
		t.Errorf("DefaultProfile = %q, want home", cfg.DefaultProfile)
	}
	if File() != filepath.Join(dir, "config") {
		t.Errorf("File() = %q", File())
	}
}

func TestActiveProfile_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeFile(t, `default_profile: work
profiles:
  work:
    api_uri: https://api.example.com
    token: abc123
  other:
    api_uri: https://other.example.com
`)
	t.Setenv("APIBUILDER_PROFILE", "other")
	t.Setenv("APIBUILDER_TOKEN", "from-env")
	Init()

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	name, p := cfg.ActiveProfile()
	if name != "other" {
		t.Errorf("name = %q, want other", name)
	}
	if p.APIURI != "https://other.example.com" {
		t.Errorf("APIURI = %q", p.APIURI)
	}
	if p.Token != "from-env" {
		t.Errorf("Token = %q, want from-env", p.Token)
	}

	t.Setenv("APIBUILDER_API_URI", "https://env.example.com")
	if _, p := cfg.ActiveProfile(); p.APIURI != "https://env.example.com" {
		t.Errorf("APIURI = %q, want env override", p.APIURI)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)
	Init()

	_, err := Load("/non/existent/path/config")
	if err == nil {
		t.Fatal("Load() with non-existent explicit path should error")
	}
	if !errors.Is(err, aperrors.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	path := writeFile(t, "profiles: [unclosed\n")
	Init()

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr []error
	}{
		{name: "nil", cfg: nil, wantErr: []error{nil}},
		{name: "empty", cfg: &Config{}},
		{
			name: "valid",
			cfg: &Config{DefaultProfile: "a", Profiles: map[string]Profile{
				"a": {APIURI: "https://api.example.com"},
			}},
		},
		{
			name: "unknown default profile",
			cfg: &Config{DefaultProfile: "missing", Profiles: map[string]Profile{
				"a": {},
			}},
			wantErr: []error{ErrUnknownProfile},
		},
		{
			name: "bad uri and token",
			cfg: &Config{Profiles: map[string]Profile{
				"a": {APIURI: "api.example.com", Token: " t "},
				"b": {APIURI: "ftp://x"},
			}},
			wantErr: []error{ErrInvalidAPIURI, ErrInvalidToken, ErrInvalidAPIURI},
		},
		{
			name:    "negative retention",
			cfg:     &Config{BackupRetention: -1},
			wantErr: []error{ErrInvalidRetention},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if len(errs) != len(tt.wantErr) {
				t.Fatalf("Validate() = %v, want %d errors", errs, len(tt.wantErr))
			}
			for i, want := range tt.wantErr {
				if want != nil && !errors.Is(errs[i], want) {
					t.Errorf("error %d = %v, want %v", i, errs[i], want)
				}
			}
		})
	}
}

func TestRetention(t *testing.T) {
	var nilCfg *Config
	if got := nilCfg.Retention(); got != DefaultBackupRetention {
		t.Errorf("nil Retention() = %d", got)
	}
	if got := (&Config{}).Retention(); got != DefaultBackupRetention {
		t.Errorf("zero Retention() = %d", got)
	}
	if got := (&Config{BackupRetention: 9}).Retention(); got != 9 {
		t.Errorf("Retention() = %d, want 9", got)
	}
}
