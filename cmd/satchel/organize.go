// Organize command sends the collection to the external reorganizer.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/organize"
	"github.com/mesh-intelligence/satchel/internal/status"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Reorganize notes with the configured AI service",
	Long: `Organize sends the full note collection to the configured
reorganizer endpoint and replaces the collection with the result.

The collection is left untouched if the service fails, returns an
invalid result, or the collection changed while the call was in
flight. Configure the endpoint in config.yaml under organizer.`,
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	reorg, err := organize.NewHTTPReorganizer(cfg.Organizer)
	if err != nil {
		return fmt.Errorf("configure reorganizer: %w", err)
	}

	nb, board, err := openNotebook()
	if err != nil {
		return err
	}
	defer nb.Close()

	wf := organize.New(nb, reorg, board, cfg.NoticeTTL)
	err = wf.Organize(context.Background())

	// The workflow posts its outcome to the board; surface it here.
	if n, ok := board.Current(); ok {
		if n.Level == status.LevelError {
			fmt.Fprintln(os.Stderr, n.Text)
		} else {
			fmt.Println(n.Text)
		}
	}
	if err != nil {
		return fmt.Errorf("organize: %w", err)
	}

	if flagJSON {
		return printJSON(nb.Notes())
	}
	return nil
}
