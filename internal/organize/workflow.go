// Package organize coordinates the AI-assisted reorganization of the
// note collection. The workflow takes an immutable snapshot, sends it
// to an injected external reorganizer, and merges a valid result back
// into the store with a compare-and-replace so interim edits are never
// silently dropped. At most one organize call is in flight at a time,
// and a failed call is never retried automatically.
package organize

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/satchel/internal/status"
	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Reorganizer is the external service that reorders and annotates a
// collection. It receives a snapshot and returns a new ordered
// collection; it may drop, merge, or synthesize notes, but the result
// must carry unique IDs. The call may take arbitrarily long and is
// bounded by ctx.
type Reorganizer interface {
	Reorganize(ctx context.Context, notes []types.Note) ([]types.Note, error)
}

// Workflow states.
type State string

const (
	StateIdle       State = "idle"
	StateOrganizing State = "organizing"
	StateError      State = "error"
)

// Workflow errors.
var (
	ErrOrganizeInFlight = errors.New("organize already in progress")
	ErrTransport        = errors.New("reorganizer unreachable")
	ErrBadResult        = errors.New("reorganizer returned an invalid collection")
)

// Workflow drives a single organize pass against the notes store.
type Workflow struct {
	mu          sync.Mutex
	state       State
	store       *store.Notebook
	reorganizer Reorganizer
	board       *status.Board
	noticeTTL   time.Duration
}

// New creates a workflow over the given store and reorganizer. The
// board may be nil; noticeTTL bounds how long transient notices stay
// visible (zero falls back to the default).
func New(nb *store.Notebook, r Reorganizer, board *status.Board, noticeTTL time.Duration) *Workflow {
	if noticeTTL <= 0 {
		noticeTTL = types.DefaultNoticeTTL
	}
	return &Workflow{
		state:       StateIdle,
		store:       nb,
		reorganizer: r,
		board:       board,
		noticeTTL:   noticeTTL,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Organize runs one reorganization pass.
//
// An empty collection is a guided no-op: a transient notice is posted
// and the workflow never leaves its current state. A call while a pass
// is in flight returns ErrOrganizeInFlight without a second external
// call. On success the store's collection is atomically replaced with
// the result and persisted. On any failure (transport, invalid
// result, or interim edits invalidating the snapshot) the collection
// is left exactly as it was, the failure is posted, and the workflow
// parks in StateError until the user explicitly organizes again.
func (w *Workflow) Organize(ctx context.Context) error {
	w.mu.Lock()
	if w.state == StateOrganizing {
		w.mu.Unlock()
		return ErrOrganizeInFlight
	}

	snapshot, rev := w.store.Snapshot()
	if len(snapshot) == 0 {
		w.mu.Unlock()
		w.post("nothing to organize yet; capture a note first", status.LevelInfo, w.noticeTTL)
		return nil
	}
	w.state = StateOrganizing
	w.mu.Unlock()

	result, err := w.reorganizer.Reorganize(ctx, snapshot)
	if err != nil {
		if !errors.Is(err, ErrBadResult) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return w.fail(err, "organize failed: "+err.Error())
	}

	if err := types.ValidateCollection(result); err != nil {
		err = fmt.Errorf("%w: %v", ErrBadResult, err)
		return w.fail(err, "organize failed: "+err.Error())
	}

	if err := w.store.CompareAndReplace(rev, result); err != nil {
		if errors.Is(err, types.ErrStaleCollection) {
			return w.fail(err, "notes changed while organizing; nothing was replaced, organize again to retry")
		}
		err = fmt.Errorf("%w: %v", ErrBadResult, err)
		return w.fail(err, "organize failed: "+err.Error())
	}

	w.setState(StateIdle)
	w.post(fmt.Sprintf("notes organized (%d notes)", len(result)), status.LevelInfo, w.noticeTTL)
	return nil
}

// fail parks the workflow in StateError and surfaces the message. The
// error stays visible on the board until replaced.
func (w *Workflow) fail(err error, msg string) error {
	w.setState(StateError)
	w.post(msg, status.LevelError, 0)
	return err
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Workflow) post(text string, level status.Level, ttl time.Duration) {
	if w.board == nil {
		return
	}
	w.board.Post(text, level, ttl)
}
