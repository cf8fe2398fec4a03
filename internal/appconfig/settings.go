package appconfig

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Recognized settings keys.
const (
	SettingCreateDirectories     = "code.create.directories"
	SettingCleanupGeneratedFiles = "code.cleanup.generated.files"
)

// Settings holds the flags from the settings section. Absent flags are false.
type Settings struct {
	CreateDirectories     bool `json:"code.create.directories" yaml:"code.create.directories" toml:"code.create.directories"`
	CleanupGeneratedFiles bool `json:"code.cleanup.generated.files" yaml:"code.cleanup.generated.files" toml:"code.cleanup.generated.files"`
}

// ParseSettings extracts the recognized flags from values. Any other key is
// an error listing the offending keys, sorted. values is not modified.
func ParseSettings(values map[string]any) (Settings, error) {
	var s Settings
	var unknown []string
	for key, value := range values {
		var dst *bool
		switch key {
		case SettingCreateDirectories:
			dst = &s.CreateDirectories
		case SettingCleanupGeneratedFiles:
			dst = &s.CleanupGeneratedFiles
		default:
			unknown = append(unknown, key)
			continue
		}
		switch v := value.(type) {
		case nil:
		case bool:
			*dst = v
		default:
			return Settings{}, &SettingsError{
				Keys:   []string{key},
				Reason: fmt.Sprintf("expected true or false, got %v", value),
			}
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return Settings{}, &SettingsError{Keys: unknown}
	}
	return s, nil
}

func parseSettingsSection(n *yaml.Node) (Settings, error) {
	values, ok, err := decodeMap(n)
	if err != nil {
		return Settings{}, &SettingsError{Reason: err.Error()}
	}
	if !ok {
		return Settings{}, &SettingsError{Reason: "settings must be a mapping"}
	}
	return ParseSettings(values)
}
