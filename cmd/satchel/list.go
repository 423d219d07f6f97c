// List command displays the collection, optionally filtered by kind.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured notes",
	Long: `List displays the note collection in storage order.

Use --kind to show only one note kind.

Example:
  satchel list
  satchel list --kind photo
  satchel list --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", types.KindAll, "filter by kind (text, audio, photo, all)")
}

func runList(cmd *cobra.Command, args []string) error {
	if listKind != types.KindAll && !types.ValidKind(listKind) {
		return fmt.Errorf("%w: %s", types.ErrInvalidKind, listKind)
	}

	nb, board, err := openNotebook()
	if err != nil {
		return err
	}
	defer nb.Close()
	reportNotice(board)

	var notes []types.Note
	for n := range store.Filter(nb.Notes(), listKind) {
		notes = append(notes, n)
	}

	if flagJSON {
		if notes == nil {
			notes = []types.Note{}
		}
		return printJSON(notes)
	}

	printNoteTable(notes)
	return nil
}

// printNoteTable prints notes in a human-readable table format.
func printNoteTable(notes []types.Note) {
	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tKIND\tCONTENT\tTAGS\tCREATED")
	fmt.Fprintln(w, "--\t----\t-------\t----\t-------")
	for _, n := range notes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(n.NoteID),
			n.Kind,
			noteSummary(n),
			strings.Join(n.Tags, ","),
			n.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()

	// Trim trailing whitespace the tabwriter pads onto each line.
	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d note(s)\n", len(notes))
}

// noteSummary returns the display content for a note: the body for
// text notes, the media reference otherwise.
func noteSummary(n types.Note) string {
	content := n.Body
	if n.Kind != types.KindText {
		content = n.MediaRef
	}
	if len(content) > 40 {
		content = content[:37] + "..."
	}
	return content
}
