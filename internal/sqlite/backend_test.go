package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func sampleNotes(t *testing.T) []types.Note {
	t.Helper()

	text, err := types.NewTextNote("water the plants")
	require.NoError(t, err)
	text.Tags = []string{"home", "recurring"}

	audio, err := types.NewAudioNote("clips/meeting.m4a", 3*time.Minute)
	require.NoError(t, err)
	audio.Category = "work"

	photo, err := types.NewPhotoNote("images/parking-spot.jpg")
	require.NoError(t, err)

	return []types.Note{text, audio, photo}
}

func TestBackend_New(t *testing.T) {
	dir := t.TempDir()

	b, err := New(dir)
	require.NoError(t, err)
	defer b.Close()

	_, err = os.Stat(filepath.Join(dir, dbFileName))
	assert.NoError(t, err, "satchel.db created")
}

func TestBackend_LoadEmptyDatabase(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load()
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBackend_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir)
	require.NoError(t, err)

	want := sampleNotes(t)
	require.NoError(t, b.Save(want))
	require.NoError(t, b.Close())

	// Reopen to prove the data survived the handle.
	b2, err := New(dir)
	require.NoError(t, err)
	defer b2.Close()

	got, err := b2.Load()
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].NoteID, got[i].NoteID, "order and ids preserved")
		assert.Equal(t, want[i].Kind, got[i].Kind)
		assert.Equal(t, want[i].Body, got[i].Body)
		assert.Equal(t, want[i].MediaRef, got[i].MediaRef)
		assert.Equal(t, want[i].DurationSecs, got[i].DurationSecs)
		assert.Equal(t, want[i].Tags, got[i].Tags)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestBackend_SaveReplacesWholesale(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	first := sampleNotes(t)
	require.NoError(t, b.Save(first))

	replacement, err := types.NewTextNote("everything, summarized")
	require.NoError(t, err)
	require.NoError(t, b.Save([]types.Note{replacement}))

	got, err := b.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, replacement.NoteID, got[0].NoteID)
}

func TestBackend_OrderSurvivesReordering(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)
	defer b.Close()

	notes := sampleNotes(t)
	require.NoError(t, b.Save(notes))

	// Reverse and save again; Load must return the new order.
	reversed := []types.Note{notes[2], notes[1], notes[0]}
	require.NoError(t, b.Save(reversed))

	got, err := b.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range reversed {
		assert.Equal(t, reversed[i].NoteID, got[i].NoteID)
	}
}

func TestBackend_CloseIdempotent(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}
