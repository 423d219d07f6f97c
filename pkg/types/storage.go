package types

import "errors"

// Storage backend errors.
var (
	ErrNotFound = errors.New("no persisted collection")
	ErrCorrupt  = errors.New("persisted collection is unreadable")
)

// Backend is the persistence collaborator for the notes store. Load
// returns ErrNotFound on first run and ErrCorrupt when the stored data
// cannot be read; callers treat both as an empty collection. Save
// writes the whole collection all-or-nothing and preserves list order.
type Backend interface {
	// Load reads the persisted collection in stored order.
	Load() ([]Note, error)

	// Save replaces the persisted collection with notes, atomically.
	Save(notes []Note) error

	// Close releases backend resources. Idempotent.
	Close() error
}
