// Show command displays a single note.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one note in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, board, err := openNotebook()
		if err != nil {
			return err
		}
		defer nb.Close()
		reportNotice(board)

		id := args[0]
		for _, n := range nb.Notes() {
			// Allow the shortened ID the list output shows.
			if n.NoteID == id || strings.HasPrefix(n.NoteID, id) {
				return printNote(n)
			}
		}
		return fmt.Errorf("no note with ID %q", id)
	},
}

// printNote prints one note in either output mode.
func printNote(n types.Note) error {
	if flagJSON {
		return printJSON(n)
	}
	fmt.Println("ID:      ", n.NoteID)
	fmt.Println("Kind:    ", n.Kind)
	switch n.Kind {
	case types.KindText:
		fmt.Println("Body:    ", n.Body)
	case types.KindAudio:
		fmt.Println("Media:   ", n.MediaRef)
		fmt.Printf("Duration: %.1fs\n", n.DurationSecs)
	case types.KindPhoto:
		fmt.Println("Media:   ", n.MediaRef)
	}
	if len(n.Tags) > 0 {
		fmt.Println("Tags:    ", strings.Join(n.Tags, ", "))
	}
	if n.Category != "" {
		fmt.Println("Category:", n.Category)
	}
	fmt.Println("Created: ", n.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}
