// Root command for the satchel CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/satchel"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:     "satchel",
	Short:   "Satchel is a personal note-capture tool",
	Version: satchel.Version,
	Long: `Satchel captures text, audio, and photo notes into a local,
persisted collection, filters them by kind, and can send the whole
collection to an external AI reorganizer to tidy it up.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: ./.satchel-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(organizeCmd)
}
