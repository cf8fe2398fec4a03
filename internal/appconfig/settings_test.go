package appconfig

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   Settings
	}{
		{"nil", nil, Settings{}},
		{"empty", map[string]any{}, Settings{}},
		{
			name:   "create directories only",
			values: map[string]any{SettingCreateDirectories: true},
			want:   Settings{CreateDirectories: true},
		},
		{
			name: "both",
			values: map[string]any{
				SettingCreateDirectories:     false,
				SettingCleanupGeneratedFiles: true,
			},
			want: Settings{CleanupGeneratedFiles: true},
		},
		{
			name:   "null means default",
			values: map[string]any{SettingCleanupGeneratedFiles: nil},
			want:   Settings{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSettings(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSettings_UnknownKeys(t *testing.T) {
	values := map[string]any{
		SettingCreateDirectories: true,
		"zeta":                   1,
		"alpha":                  true,
	}
	_, err := ParseSettings(values)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	var se *SettingsError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"alpha", "zeta"}, se.Keys)
	assert.Len(t, values, 3, "input must not be modified")
}

func TestParseSettings_WrongType(t *testing.T) {
	_, err := ParseSettings(map[string]any{SettingCreateDirectories: "yes"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Contains(t, err.Error(), SettingCreateDirectories)
}

func TestParseSettingsSection(t *testing.T) {
	root := mustRoot(t, "settings:\n  code.create.directories: true\n")
	got, err := parseSettingsSection(lookup(root, "settings"))
	require.NoError(t, err)
	assert.True(t, got.CreateDirectories)

	got, err = parseSettingsSection(nil)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, got)

	_, err = parseSettingsSection(lookup(mustRoot(t, "settings: [a]\n"), "settings"))
	assert.ErrorIs(t, err, ErrInvalidSettings)
}
