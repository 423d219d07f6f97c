// Remove command deletes a note from the collection.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Remove a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, board, err := openNotebook()
		if err != nil {
			return err
		}
		defer nb.Close()

		id := args[0]
		removed := nb.Remove(id)
		reportNotice(board)

		if !removed {
			// Absent IDs are a no-op, not an error.
			fmt.Printf("No note with ID %s; nothing removed\n", id)
			return nil
		}
		fmt.Printf("Removed note: %s\n", id)
		return nil
	},
}
