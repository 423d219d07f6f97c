// Init command prepares the config and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize satchel configuration and storage",
	Long: `Init creates the configuration directory with a default
config.yaml and initializes the storage backend in the data directory.

Example:
  satchel init
  satchel init --data-dir ~/notes`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{
			"config_dir": configDir,
			"data_dir":   dataDir,
			"backend":    cfg.Backend,
		})
	}
	fmt.Printf("Initialized satchel\n")
	fmt.Printf("  config: %s\n", configDir)
	fmt.Printf("  data:   %s (%s backend)\n", dataDir, cfg.Backend)
	return nil
}
