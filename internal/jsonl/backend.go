// Package jsonl implements the JSONL file backend for the Satchel
// notes store. Notes are stored one JSON record per line in
// notes.jsonl under the data directory; file order is collection
// order, and writes are atomic (temp file, fsync, rename).
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// notesFileName is the JSONL file holding the collection.
const notesFileName = "notes.jsonl"

// Compile-time interface check: Backend must implement types.Backend.
var _ types.Backend = (*Backend)(nil)

// Backend persists the note collection to a JSONL file.
type Backend struct {
	path string
}

// noteJSON mirrors the on-disk record format. Timestamps are RFC 3339
// strings so the file stays readable and diffable.
type noteJSON struct {
	NoteID       string   `json:"note_id"`
	Kind         string   `json:"kind"`
	Body         string   `json:"body,omitempty"`
	MediaRef     string   `json:"media_ref,omitempty"`
	DurationSecs float64  `json:"duration_secs,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Category     string   `json:"category,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// New creates a JSONL backend rooted at dataDir, creating the
// directory if needed.
func New(dataDir string) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Backend{path: filepath.Join(dataDir, notesFileName)}, nil
}

// Load reads notes.jsonl in file order. A missing file returns
// ErrNotFound. Lines that are not valid JSON are skipped; if the file
// has content but no line parses, the file is considered corrupt.
func (b *Backend) Load() ([]types.Note, error) {
	f, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("opening %s: %w", b.path, err)
	}
	defer f.Close()

	var (
		notes    []types.Note
		sawLines bool
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		sawLines = true
		if !json.Valid(line) {
			// Skip malformed lines; a partial write must not take
			// the readable remainder down with it.
			continue
		}
		var rec noteJSON
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		note, err := hydrateNote(rec)
		if err != nil {
			continue
		}
		notes = append(notes, note)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", b.path, err)
	}
	if sawLines && len(notes) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrCorrupt, b.path)
	}
	return notes, nil
}

// Save atomically writes the whole collection to notes.jsonl using the
// temp-file, fsync, rename pattern. Order is preserved.
func (b *Backend) Save(notes []types.Note) error {
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".notes-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, note := range notes {
		line, err := json.Marshal(dehydrateNote(note))
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("marshaling note %s: %w", note.NoteID, err)
		}
		if _, err := w.Write(line); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Close releases backend resources. The JSONL backend holds no open
// handles between operations, so Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

// hydrateNote converts an on-disk record to a domain note.
func hydrateNote(rec noteJSON) (types.Note, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return types.Note{}, fmt.Errorf("parsing created_at: %w", err)
	}
	note := types.Note{
		NoteID:       rec.NoteID,
		Kind:         rec.Kind,
		Body:         rec.Body,
		MediaRef:     rec.MediaRef,
		DurationSecs: rec.DurationSecs,
		Tags:         rec.Tags,
		Category:     rec.Category,
		CreatedAt:    createdAt,
	}
	if err := note.Validate(); err != nil {
		return types.Note{}, err
	}
	return note, nil
}

// dehydrateNote converts a domain note to its on-disk record.
func dehydrateNote(note types.Note) noteJSON {
	return noteJSON{
		NoteID:       note.NoteID,
		Kind:         note.Kind,
		Body:         note.Body,
		MediaRef:     note.MediaRef,
		DurationSecs: note.DurationSecs,
		Tags:         note.Tags,
		Category:     note.Category,
		CreatedAt:    note.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
