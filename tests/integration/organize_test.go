// Integration tests driving the organize workflow end to end: a real
// HTTP reorganizer stub, the HTTP client, the workflow, the store, and
// a real backend on disk.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/internal/jsonl"
	"github.com/mesh-intelligence/satchel/internal/organize"
	"github.com/mesh-intelligence/satchel/internal/status"
	"github.com/mesh-intelligence/satchel/internal/store"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

type notesPayload struct {
	Notes []types.Note `json:"notes"`
}

// reverseServer answers with the received collection reversed and
// categorized, a stand-in for a real reorganization service.
func reverseServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in notesPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		out := notesPayload{Notes: make([]types.Note, len(in.Notes))}
		for i, n := range in.Notes {
			n.Category = "sorted"
			out.Notes[len(in.Notes)-1-i] = n
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
}

func openJSONLNotebook(t *testing.T, dir string) (*store.Notebook, *status.Board) {
	t.Helper()
	backend, err := jsonl.New(dir)
	require.NoError(t, err)
	board := status.NewBoard()
	nb, err := store.Open(backend, board)
	require.NoError(t, err)
	return nb, board
}

func TestOrganizeEndToEnd(t *testing.T) {
	srv := reverseServer(t)
	defer srv.Close()

	dir := t.TempDir()
	nb, board := openJSONLNotebook(t, dir)

	first, err := types.NewTextNote("first")
	require.NoError(t, err)
	second, err := types.NewTextNote("second")
	require.NoError(t, err)
	require.NoError(t, nb.Add(first))
	require.NoError(t, nb.Add(second))

	reorg, err := organize.NewHTTPReorganizer(types.OrganizerConfig{
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	wf := organize.New(nb, reorg, board, time.Minute)
	require.NoError(t, wf.Organize(context.Background()))
	require.Equal(t, organize.StateIdle, wf.State())

	notes := nb.Notes()
	require.Len(t, notes, 2)
	require.Equal(t, second.NoteID, notes[0].NoteID)
	require.Equal(t, first.NoteID, notes[1].NoteID)
	require.Equal(t, "sorted", notes[0].Category)
	require.NoError(t, nb.Close())

	// The organized order is what a later session loads.
	nb2, _ := openJSONLNotebook(t, dir)
	defer nb2.Close()
	reloaded := nb2.Notes()
	require.Len(t, reloaded, 2)
	require.Equal(t, second.NoteID, reloaded[0].NoteID)
}

func TestOrganizeServiceFailureLeavesDiskUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	nb, board := openJSONLNotebook(t, dir)

	note, err := types.NewTextNote("precious")
	require.NoError(t, err)
	require.NoError(t, nb.Add(note))

	reorg, err := organize.NewHTTPReorganizer(types.OrganizerConfig{
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	wf := organize.New(nb, reorg, board, time.Minute)
	err = wf.Organize(context.Background())
	require.ErrorIs(t, err, organize.ErrTransport)
	require.Equal(t, organize.StateError, wf.State())

	n, ok := board.Current()
	require.True(t, ok)
	require.Equal(t, status.LevelError, n.Level)
	require.NoError(t, nb.Close())

	nb2, _ := openJSONLNotebook(t, dir)
	defer nb2.Close()
	notes := nb2.Notes()
	require.Len(t, notes, 1)
	require.Equal(t, "precious", notes[0].Body)
}

func TestOrganizeStaleSnapshotKeepsInterimEdit(t *testing.T) {
	// The server blocks until released so an edit can land mid-flight.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in notesPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		<-release
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))
	defer srv.Close()

	dir := t.TempDir()
	nb, board := openJSONLNotebook(t, dir)

	original, err := types.NewTextNote("original")
	require.NoError(t, err)
	require.NoError(t, nb.Add(original))

	reorg, err := organize.NewHTTPReorganizer(types.OrganizerConfig{
		Endpoint: srv.URL,
		Timeout:  10 * time.Second,
	})
	require.NoError(t, err)

	wf := organize.New(nb, reorg, board, time.Minute)
	done := make(chan error, 1)
	go func() { done <- wf.Organize(context.Background()) }()

	// Land an edit while the call is in flight, then let it finish.
	interim, err := types.NewTextNote("interim")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return wf.State() == organize.StateOrganizing
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, nb.Add(interim))
	close(release)

	err = <-done
	require.ErrorIs(t, err, types.ErrStaleCollection)
	require.Equal(t, organize.StateError, wf.State())

	// Both notes survive: the stale result was discarded wholesale.
	notes := nb.Notes()
	require.Len(t, notes, 2)
	require.Equal(t, original.NoteID, notes[0].NoteID)
	require.Equal(t, interim.NoteID, notes[1].NoteID)
}
