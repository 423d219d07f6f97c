// Package store implements the authoritative ordered note collection.
// The Notebook owns the collection and its persisted representation;
// every other component works against a snapshot or calls back into the
// Notebook, never a private writable copy.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/satchel/internal/status"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Notebook is the notes store. All mutations are synchronous and
// atomic with respect to each other: one mutex guards the collection,
// and a revision counter advances on every successful in-memory change
// so asynchronous workflows can detect interim edits.
//
// A failed persist does not roll back the in-memory collection; the
// in-memory state stays authoritative, the failure is reported on the
// status board, and the next successful Save writes current state.
type Notebook struct {
	mu      sync.Mutex
	backend types.Backend
	board   *status.Board
	notes   []types.Note
	rev     uint64
}

// Open loads the persisted collection from backend. A missing
// collection starts empty; a corrupt one starts empty and posts a
// sticky notice so the user knows their old notes were unreadable.
// The board may be nil.
func Open(backend types.Backend, board *status.Board) (*Notebook, error) {
	nb := &Notebook{backend: backend, board: board}

	notes, err := backend.Load()
	switch {
	case err == nil:
		nb.notes = notes
	case isStartEmpty(err):
		if isCorrupt(err) {
			nb.post("stored notes could not be read; starting with an empty collection", status.LevelError, 0)
		}
	default:
		return nil, fmt.Errorf("loading notes: %w", err)
	}
	return nb, nil
}

// Add validates the note, rejects a duplicate ID, appends it at the
// end of the collection (storage order is insertion order), and
// persists. Persistence failure is reported, not returned.
func (nb *Notebook) Add(note types.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	if nb.indexOfLocked(note.NoteID) >= 0 {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, note.NoteID)
	}

	nb.notes = append(nb.notes, note.Clone())
	nb.rev++
	nb.persistLocked()
	return nil
}

// Remove deletes the note with the given ID and reports whether a note
// was removed. An absent ID is a no-op, not an error, and does not
// trigger persistence.
func (nb *Notebook) Remove(id string) bool {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	i := nb.indexOfLocked(id)
	if i < 0 {
		return false
	}

	nb.notes = append(nb.notes[:i], nb.notes[i+1:]...)
	nb.rev++
	nb.persistLocked()
	return true
}

// ReplaceAll atomically swaps the entire collection for notes. The new
// list's IDs must be unique within itself but need not overlap the
// prior collection (the reorganizer may drop, merge, or synthesize
// notes). On validation failure the collection is unchanged.
func (nb *Notebook) ReplaceAll(notes []types.Note) error {
	if err := types.ValidateCollection(notes); err != nil {
		return err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	nb.replaceLocked(notes)
	return nil
}

// CompareAndReplace swaps the collection only if no mutation happened
// since the revision rev was observed. Returns ErrStaleCollection if
// the collection moved on, leaving it untouched; interim edits win
// over a reorganization computed from stale data.
func (nb *Notebook) CompareAndReplace(rev uint64, notes []types.Note) error {
	if err := types.ValidateCollection(notes); err != nil {
		return err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()

	if nb.rev != rev {
		return types.ErrStaleCollection
	}
	nb.replaceLocked(notes)
	return nil
}

// Snapshot returns an independent copy of the collection and the
// revision it corresponds to. Mutations after the snapshot never show
// through it.
func (nb *Notebook) Snapshot() ([]types.Note, uint64) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return types.CloneCollection(nb.notes), nb.rev
}

// Notes returns an independent copy of the collection in storage order.
func (nb *Notebook) Notes() []types.Note {
	notes, _ := nb.Snapshot()
	return notes
}

// Len returns the number of notes.
func (nb *Notebook) Len() int {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return len(nb.notes)
}

// Revision returns the current revision counter.
func (nb *Notebook) Revision() uint64 {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.rev
}

// Flush persists the current collection, returning the backend error
// if the write fails. Useful to retry after a reported persist failure.
func (nb *Notebook) Flush() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.backend.Save(nb.notes)
}

// Close releases the backend.
func (nb *Notebook) Close() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.backend.Close()
}

// replaceLocked swaps the collection and persists. Caller holds nb.mu.
func (nb *Notebook) replaceLocked(notes []types.Note) {
	nb.notes = types.CloneCollection(notes)
	nb.rev++
	nb.persistLocked()
}

// persistLocked writes the full current collection. A failure is
// reported on the status board and otherwise swallowed: the in-memory
// collection stays authoritative and a later Save retries the state.
// Caller holds nb.mu.
func (nb *Notebook) persistLocked() {
	if err := nb.backend.Save(nb.notes); err != nil {
		nb.post(fmt.Sprintf("could not save notes: %v (changes kept in memory)", err), status.LevelError, 0)
	}
}

// indexOfLocked returns the position of the note with the given ID, or
// -1 if absent. Caller holds nb.mu.
func (nb *Notebook) indexOfLocked(id string) int {
	for i, n := range nb.notes {
		if n.NoteID == id {
			return i
		}
	}
	return -1
}

// post forwards to the status board when one is attached.
func (nb *Notebook) post(text string, level status.Level, ttl time.Duration) {
	if nb.board == nil {
		return
	}
	nb.board.Post(text, level, ttl)
}

// isStartEmpty reports whether a load error means "begin with an empty
// collection" rather than a hard failure.
func isStartEmpty(err error) bool {
	return errors.Is(err, types.ErrNotFound) || isCorrupt(err)
}

// isCorrupt reports whether a load error wraps ErrCorrupt.
func isCorrupt(err error) bool {
	return errors.Is(err, types.ErrCorrupt)
}
