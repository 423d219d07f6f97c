package organize

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/internal/status"
	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// memBackend is a minimal in-memory types.Backend for workflow tests.
type memBackend struct {
	mu    sync.Mutex
	notes []types.Note
	saved bool
}

func (m *memBackend) Load() ([]types.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, types.ErrNotFound
	}
	return types.CloneCollection(m.notes), nil
}

func (m *memBackend) Save(notes []types.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = types.CloneCollection(notes)
	m.saved = true
	return nil
}

func (m *memBackend) Close() error { return nil }

func (m *memBackend) persisted() []types.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.CloneCollection(m.notes)
}

// stubReorganizer scripts the external collaborator.
type stubReorganizer struct {
	calls   atomic.Int64
	started chan struct{} // closed once on first call, if non-nil
	release chan struct{} // call blocks until closed, if non-nil
	result  []types.Note
	err     error
}

func (s *stubReorganizer) Reorganize(ctx context.Context, notes []types.Note) ([]types.Note, error) {
	if s.calls.Add(1) == 1 && s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newNotebook(t *testing.T, board *status.Board, bodies ...string) *store.Notebook {
	t.Helper()
	nb, err := store.Open(&memBackend{}, board)
	require.NoError(t, err)
	for _, body := range bodies {
		n, err := types.NewTextNote(body)
		require.NoError(t, err)
		require.NoError(t, nb.Add(n))
	}
	return nb
}

func TestWorkflow_EmptyCollection(t *testing.T) {
	board := status.NewBoard()
	nb := newNotebook(t, board)
	stub := &stubReorganizer{}
	w := New(nb, stub, board, 30*time.Millisecond)

	require.NoError(t, w.Organize(context.Background()))

	assert.Equal(t, StateIdle, w.State(), "guided no-op never enters organizing")
	assert.Zero(t, stub.calls.Load(), "external service not called")
	assert.Zero(t, nb.Len())

	n, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, status.LevelInfo, n.Level)
	assert.Contains(t, n.Text, "nothing to organize")

	// The notice clears itself after its TTL.
	assert.Eventually(t, func() bool {
		_, ok := board.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestWorkflow_Success(t *testing.T) {
	board := status.NewBoard()
	backend := &memBackend{}
	nb, err := store.Open(backend, board)
	require.NoError(t, err)
	for _, body := range []string{"alpha", "beta", "gamma"} {
		n, err := types.NewTextNote(body)
		require.NoError(t, err)
		require.NoError(t, nb.Add(n))
	}

	summary, err := types.NewTextNote("summary of alpha and beta")
	require.NoError(t, err)
	organized := nb.Notes()[2:3:3]
	organized = append(organized, summary) // fewer notes + a synthesized one

	stub := &stubReorganizer{result: organized}
	w := New(nb, stub, board, time.Minute)

	require.NoError(t, w.Organize(context.Background()))
	assert.Equal(t, StateIdle, w.State())

	got := nb.Notes()
	require.Len(t, got, 2)
	assert.Equal(t, organized[0].NoteID, got[0].NoteID)
	assert.Equal(t, summary.NoteID, got[1].NoteID)

	// Persistence reflects the organized collection.
	persisted := backend.persisted()
	require.Len(t, persisted, 2)
	assert.Equal(t, organized[0].NoteID, persisted[0].NoteID)
	assert.Equal(t, summary.NoteID, persisted[1].NoteID)

	n, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, status.LevelInfo, n.Level)
	assert.Contains(t, n.Text, "organized")
}

func TestWorkflow_TransportFailure(t *testing.T) {
	board := status.NewBoard()
	nb := newNotebook(t, board, "alpha", "beta")
	before := nb.Notes()

	stub := &stubReorganizer{err: errors.New("connection refused")}
	w := New(nb, stub, board, time.Minute)

	err := w.Organize(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, StateError, w.State(), "failure stays visible")

	after := nb.Notes()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i], after[i], "collection untouched on failure")
	}

	n, ok := board.Current()
	require.True(t, ok)
	assert.Equal(t, status.LevelError, n.Level)
}

func TestWorkflow_InvalidResult(t *testing.T) {
	nb := newNotebook(t, nil, "alpha")
	before := nb.Notes()

	dup, err := types.NewTextNote("dup")
	require.NoError(t, err)
	stub := &stubReorganizer{result: []types.Note{dup, dup}}
	w := New(nb, stub, nil, time.Minute)

	err = w.Organize(context.Background())
	assert.ErrorIs(t, err, ErrBadResult)
	assert.Equal(t, StateError, w.State())
	assert.Equal(t, before, nb.Notes())
}

func TestWorkflow_StaleSnapshotRejected(t *testing.T) {
	board := status.NewBoard()
	nb := newNotebook(t, board, "alpha")

	stub := &stubReorganizer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	reorganized, err := types.NewTextNote("reorganized")
	require.NoError(t, err)
	stub.result = []types.Note{reorganized}

	w := New(nb, stub, board, time.Minute)

	done := make(chan error, 1)
	go func() { done <- w.Organize(context.Background()) }()

	<-stub.started
	assert.Equal(t, StateOrganizing, w.State())

	// The user keeps working while the reorganizer is busy.
	interim, err := types.NewTextNote("typed during organize")
	require.NoError(t, err)
	require.NoError(t, nb.Add(interim))

	close(stub.release)
	err = <-done
	assert.ErrorIs(t, err, types.ErrStaleCollection)
	assert.Equal(t, StateError, w.State())

	// Interim addition survives; the stale result was not applied.
	notes := nb.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "typed during organize", notes[1].Body)
}

func TestWorkflow_SingleFlight(t *testing.T) {
	nb := newNotebook(t, nil, "alpha")

	stub := &stubReorganizer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	res, err := types.NewTextNote("organized")
	require.NoError(t, err)
	stub.result = []types.Note{res}

	w := New(nb, stub, nil, time.Minute)

	done := make(chan error, 1)
	go func() { done <- w.Organize(context.Background()) }()
	<-stub.started

	// Second call while in flight: rejected, not queued, not restarted.
	err = w.Organize(context.Background())
	assert.ErrorIs(t, err, ErrOrganizeInFlight)
	assert.Equal(t, StateOrganizing, w.State())

	close(stub.release)
	require.NoError(t, <-done)

	assert.Equal(t, int64(1), stub.calls.Load(), "exactly one external call")
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_RetryAfterError(t *testing.T) {
	nb := newNotebook(t, nil, "alpha")

	stub := &stubReorganizer{err: errors.New("boom")}
	w := New(nb, stub, nil, time.Minute)

	require.Error(t, w.Organize(context.Background()))
	require.Equal(t, StateError, w.State())

	// No automatic retry happened; an explicit call runs again.
	res, err := types.NewTextNote("organized")
	require.NoError(t, err)
	stub.err = nil
	stub.result = []types.Note{res}

	require.NoError(t, w.Organize(context.Background()))
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, int64(2), stub.calls.Load())
}

func TestWorkflow_ContextCancellation(t *testing.T) {
	nb := newNotebook(t, nil, "alpha")
	before := nb.Notes()

	stub := &stubReorganizer{
		started: make(chan struct{}),
		release: make(chan struct{}), // never released; only ctx ends the call
	}
	w := New(nb, stub, nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Organize(ctx) }()
	<-stub.started
	cancel()

	err := <-done
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, before, nb.Notes(), "nothing partial persisted")
}
