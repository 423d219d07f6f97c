// Package sqlite implements the SQLite backend for the Satchel notes
// store using the pure-Go modernc.org/sqlite driver. The collection
// lives in a single notes table; the ordinal column carries list order.
package sqlite

// Schema DDL. Save replaces the table contents wholesale, so the
// ordinal is rewritten on every write and stays dense.
const createNotes = `CREATE TABLE IF NOT EXISTS notes (
    note_id TEXT PRIMARY KEY,
    ordinal INTEGER NOT NULL,
    kind TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    media_ref TEXT NOT NULL DEFAULT '',
    duration_secs REAL NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '[]',
    category TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);`

// Index DDL for common queries.
const (
	idxNotesOrdinal = `CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_ordinal ON notes(ordinal);`
	idxNotesKind    = `CREATE INDEX IF NOT EXISTS idx_notes_kind ON notes(kind);`
)

// schemaDDL lists all statements run on open.
var schemaDDL = []string{
	createNotes,
	idxNotesOrdinal,
	idxNotesKind,
}
