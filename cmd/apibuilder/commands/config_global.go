package commands

import (
	"github.com/spf13/cobra"

	"github.com/apibuilder/apibuilder-cli/internal/config"
	"github.com/apibuilder/apibuilder-cli/internal/logging"
	"github.com/apibuilder/apibuilder-cli/internal/render"
)

var configGlobalFormat string

func init() {
	configGlobalCmd.Flags().StringVarP(&configGlobalFormat, "format", "f", "yaml",
		"output format: yaml, json, toml")
}

var configGlobalCmd = &cobra.Command{
	Use:   "global",
	Short: "Show the active user profile",
	Long: `Show the user configuration from ~/.apibuilder/config: the active
profile after APIBUILDER_PROFILE, APIBUILDER_API_URI and APIBUILDER_TOKEN
are applied. The token is masked.`,
	Example: `  apibuilder config global

  # Use another profile
  APIBUILDER_PROFILE=staging apibuilder config global

See Also: apibuilder config validate`,
	Args: cobra.NoArgs,
	RunE: runConfigGlobal,
}

// globalView is the printed form of the active profile.
type globalView struct {
	File    string `json:"file" yaml:"file" toml:"file"`
	Profile string `json:"profile" yaml:"profile" toml:"profile"`
	APIURI  string `json:"api_uri" yaml:"api_uri" toml:"api_uri"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
}

func runConfigGlobal(cmd *cobra.Command, _ []string) error {
	format, err := render.ParseFormat(configGlobalFormat)
	if err != nil {
		return err
	}
	return render.Write(cmd.OutOrStdout(), newGlobalView(globalConfig), format)
}

func newGlobalView(cfg *config.Config) globalView {
	if cfg == nil {
		cfg = &config.Config{}
	}
	name, p := cfg.ActiveProfile()
	view := globalView{
		File:    globalConfigLocation(),
		Profile: name,
		APIURI:  p.APIURI,
	}
	if p.Token != "" {
		view.Token = logging.MaskValue(p.Token)
	}
	return view
}
