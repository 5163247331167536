// internal/cli/config.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/layerslim/pkg/core"
)

var configSave bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after flags are applied. With --save it is
written to the config file so later runs pick it up.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configSave, "save", false, "write the configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	if !configSave {
		return nil
	}
	path := cfgFile
	if path == "" {
		if path, err = core.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := core.SaveConfig(config, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Saved %s\n", path)
	return nil
}
