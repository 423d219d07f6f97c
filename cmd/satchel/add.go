// Add commands capture new notes into the collection.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

var (
	addTags     []string
	addCategory string
	addDuration time.Duration
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Capture a new note",
	Long: `Add captures a new note of the given kind.

Example:
  satchel add text "Pick up the dry cleaning"
  satchel add audio clips/standup.m4a --duration 90s
  satchel add photo images/receipt.jpg --tags expenses,work`,
}

var addTextCmd = &cobra.Command{
	Use:   "text BODY",
	Short: "Capture a text note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := types.NewTextNote(args[0])
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return captureNote(note)
	},
}

var addAudioCmd = &cobra.Command{
	Use:   "audio FILE",
	Short: "Capture an audio note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := types.NewAudioNote(args[0], addDuration)
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return captureNote(note)
	},
}

var addPhotoCmd = &cobra.Command{
	Use:   "photo FILE",
	Short: "Capture a photo note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := types.NewPhotoNote(args[0])
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		return captureNote(note)
	},
}

func init() {
	for _, c := range []*cobra.Command{addTextCmd, addAudioCmd, addPhotoCmd} {
		c.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
		c.Flags().StringVar(&addCategory, "category", "", "category label")
	}
	addAudioCmd.Flags().DurationVar(&addDuration, "duration", 0, "clip duration (e.g. 90s)")

	addCmd.AddCommand(addTextCmd)
	addCmd.AddCommand(addAudioCmd)
	addCmd.AddCommand(addPhotoCmd)
}

// captureNote applies shared flags, stores the note, and prints it.
func captureNote(note types.Note) error {
	note.Tags = addTags
	note.Category = addCategory

	nb, board, err := openNotebook()
	if err != nil {
		return err
	}
	defer nb.Close()

	if err := nb.Add(note); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	reportNotice(board)

	if flagJSON {
		return printJSON(note)
	}
	fmt.Printf("Captured %s note: %s\n", note.Kind, note.NoteID)
	return nil
}
