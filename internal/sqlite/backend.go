package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// dbFileName is the SQLite database file under the data directory.
const dbFileName = "satchel.db"

// Compile-time interface check: Backend must implement types.Backend.
var _ types.Backend = (*Backend)(nil)

// Backend persists the note collection to a SQLite database.
type Backend struct {
	mu sync.Mutex
	db *sql.DB
}

// New opens (or creates) the database under dataDir and ensures the
// schema exists.
func New(dataDir string) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing schema: %w", err)
		}
	}

	return &Backend{db: db}, nil
}

// Load reads the collection ordered by ordinal. An empty table yields
// ErrNotFound so callers start with an empty collection; rows that do
// not hydrate to a valid note mark the database corrupt.
func (b *Backend) Load() ([]types.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.db.Query(
		"SELECT note_id, kind, body, media_ref, duration_secs, tags, category, created_at FROM notes ORDER BY ordinal",
	)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []types.Note
	for rows.Next() {
		var (
			note       types.Note
			tagsJSON   string
			createdRaw string
		)
		if err := rows.Scan(&note.NoteID, &note.Kind, &note.Body, &note.MediaRef,
			&note.DurationSecs, &tagsJSON, &note.Category, &createdRaw); err != nil {
			return nil, fmt.Errorf("%w: scanning note row: %v", types.ErrCorrupt, err)
		}
		if tagsJSON != "" && tagsJSON != "[]" {
			if err := json.Unmarshal([]byte(tagsJSON), &note.Tags); err != nil {
				return nil, fmt.Errorf("%w: decoding tags: %v", types.ErrCorrupt, err)
			}
		}
		createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing created_at: %v", types.ErrCorrupt, err)
		}
		note.CreatedAt = createdAt
		if err := note.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCorrupt, err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, types.ErrNotFound
	}
	return notes, nil
}

// Save replaces the table contents with notes in a single transaction.
// Either the whole new collection lands or the previous one survives.
func (b *Backend) Save(notes []types.Note) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes"); err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO notes (note_id, ordinal, kind, body, media_ref, duration_secs, tags, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, note := range notes {
		tagsJSON := "[]"
		if len(note.Tags) > 0 {
			raw, err := json.Marshal(note.Tags)
			if err != nil {
				return fmt.Errorf("encoding tags for %s: %w", note.NoteID, err)
			}
			tagsJSON = string(raw)
		}
		_, err := stmt.Exec(
			note.NoteID, i, note.Kind, note.Body, note.MediaRef,
			note.DurationSecs, tagsJSON, note.Category,
			note.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting note %s: %w", note.NoteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Close closes the database. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
