// Init command: create the config and data directories and an empty
// catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the catalog",
	Long: `Init creates the configuration directory with a default config.yaml,
creates the data directory, and initializes an empty catalog in it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveDirsForInit()
		if err != nil {
			return err
		}

		backend, dataDir, err := attachCatalog()
		if err != nil {
			return err
		}
		defer backend.Detach()

		if flagJSON {
			return printJSON(map[string]string{
				"config_dir": configDir,
				"data_dir":   dataDir,
			})
		}
		fmt.Printf("initialized catalog\n  config: %s\n  data:   %s\n", configDir, dataDir)
		return nil
	},
}

// resolveDirsForInit creates the config directory and default config.yaml
// before the normal resolution runs.
func resolveDirsForInit() (string, error) {
	configDir, _, _, err := resolveDirs()
	if err != nil {
		return "", err
	}
	if err := ensureConfigDir(configDir); err != nil {
		return "", fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return "", fmt.Errorf("ensure default config: %w", err)
	}
	return configDir, nil
}
