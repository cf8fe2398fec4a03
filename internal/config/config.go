// Package config provides the apibuilder CLI's own user configuration,
// loaded with Viper.
package config

import (
	"io/fs"

	"github.com/spf13/viper"

	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/internal/paths"
)

// EnvPrefix prefixes every environment override, e.g. APIBUILDER_TOKEN.
const EnvPrefix = "APIBUILDER"

// DefaultProfileName is used when the file names no default profile.
const DefaultProfileName = "default"

// DefaultAPIURI is the public apibuilder API.
const DefaultAPIURI = "https://api.apibuilder.io"

// DefaultBackupRetention is the number of project config snapshots kept.
const DefaultBackupRetention = 5

// Keys read through Viper. The flat keys are only set from the environment.
const (
	keyDefaultProfile  = "default_profile"
	keyProfile         = "profile"
	keyToken           = "token"
	keyAPIURI          = "api_uri"
	keyBackupRetention = "backup_retention"
)

// Config represents the global user configuration.
type Config struct {
	DefaultProfile string             `mapstructure:"default_profile" yaml:"default_profile" json:"default_profile"`
	Profiles       map[string]Profile `mapstructure:"profiles" yaml:"profiles" json:"profiles"`

	// BackupRetention is how many snapshots of a project config are kept.
	// Zero means DefaultBackupRetention.
	BackupRetention int `mapstructure:"backup_retention" yaml:"backup_retention" json:"backup_retention"`
}

// Profile holds the connection settings for one apibuilder installation.
type Profile struct {
	APIURI string `mapstructure:"api_uri" yaml:"api_uri" json:"api_uri"`
	Token  string `mapstructure:"token" yaml:"token,omitempty" json:"token,omitempty"`
}

// Init initializes Viper with the search paths, environment binding and
// defaults. Call it once at startup before Load.
func Init() {
	viper.SetConfigName(paths.ConfigFilename)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	if dir := paths.GlobalConfigDir(); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(paths.XDGConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault(keyDefaultProfile, DefaultProfileName)
	viper.SetDefault(keyBackupRetention, DefaultBackupRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file uses defaults.
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// File returns the config file Viper read, or "" when defaults are in use.
func File() string {
	return viper.ConfigFileUsed()
}

// Retention returns the configured snapshot count.
func (c *Config) Retention() int {
	if c == nil || c.BackupRetention == 0 {
		return DefaultBackupRetention
	}
	return c.BackupRetention
}

// ActiveProfile returns the profile selected by APIBUILDER_PROFILE or the
// file's default_profile, with APIBUILDER_API_URI and APIBUILDER_TOKEN
// applied on top. A profile missing from the file yields the defaults.
func (c *Config) ActiveProfile() (string, Profile) {
	name := viper.GetString(keyProfile)
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		name = DefaultProfileName
	}

	p := c.Profiles[name]
	if uri := viper.GetString(keyAPIURI); uri != "" {
		p.APIURI = uri
	}
	if token := viper.GetString(keyToken); token != "" {
		p.Token = token
	}
	if p.APIURI == "" {
		p.APIURI = DefaultAPIURI
	}
	return name, p
}
