// Version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/satchel"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the satchel version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			return printJSON(map[string]string{"version": satchel.Version})
		}
		fmt.Printf("satchel version %s\n", satchel.Version)
		return nil
	},
}
