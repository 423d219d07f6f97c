// Shared helpers for satchel CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/satchel/internal/jsonl"
	"github.com/mesh-intelligence/satchel/internal/paths"
	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/internal/status"
	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// newBackend creates the persistence backend selected by cfg, rooted
// at the resolved data directory.
func newBackend(cfg types.Config) (types.Backend, error) {
	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	switch cfg.Backend {
	case types.BackendJSONL:
		return jsonl.New(dataDir)
	case types.BackendSQLite:
		return sqlite.New(dataDir)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
	}
}

// openNotebook loads settings, opens the backend, and returns the
// notebook with its status board. The caller must Close the notebook.
func openNotebook() (*store.Notebook, *status.Board, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	board := status.NewBoard()
	nb, err := store.Open(backend, board)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("open notebook: %w", err)
	}
	return nb, board, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// reportNotice surfaces the board's current notice on stderr. Used
// after mutations so persist failures reach the user.
func reportNotice(board *status.Board) {
	if n, ok := board.Current(); ok && n.Level == status.LevelError {
		fmt.Fprintln(os.Stderr, n.Text)
	}
}

// shortID truncates an ID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
