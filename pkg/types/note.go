package types

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note kinds. Each note carries exactly one kind and only the payload
// fields that belong to it.
const (
	KindText  = "text"
	KindAudio = "audio"
	KindPhoto = "photo"
)

// KindAll is a filter selector that matches every note. It is never a
// valid kind for a stored note.
const KindAll = "all"

// validKinds is the set of storable note kinds.
var validKinds = map[string]bool{
	KindText:  true,
	KindAudio: true,
	KindPhoto: true,
}

// ValidKind reports whether kind names a storable note kind.
func ValidKind(kind string) bool {
	return validKinds[kind]
}

// Note entity errors.
var (
	ErrInvalidNoteID   = errors.New("note ID must not be empty")
	ErrInvalidKind     = errors.New("invalid note kind")
	ErrEmptyBody       = errors.New("text note body must not be empty")
	ErrEmptyMediaRef   = errors.New("media reference must not be empty")
	ErrMixedPayload    = errors.New("payload field set for a different kind")
	ErrInvalidDuration = errors.New("audio duration must not be negative")
)

// Collection errors.
var (
	ErrDuplicateID     = errors.New("duplicate note ID")
	ErrStaleCollection = errors.New("collection changed since snapshot")
)

// Note represents one captured item. The ID is assigned at creation and
// never reassigned; Kind selects which payload fields are meaningful.
// Tags and Category are optional and may be written by the user or by
// the organize workflow.
type Note struct {
	NoteID       string    `json:"note_id"`
	Kind         string    `json:"kind"`
	Body         string    `json:"body,omitempty"`          // text payload
	MediaRef     string    `json:"media_ref,omitempty"`     // audio/photo payload
	DurationSecs float64   `json:"duration_secs,omitempty"` // audio payload
	Tags         []string  `json:"tags,omitempty"`
	Category     string    `json:"category,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// newNoteID generates a UUID v7 string.
func newNoteID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewTextNote creates a text note with a fresh ID and creation time.
// Returns ErrEmptyBody if body is blank.
func NewTextNote(body string) (Note, error) {
	n := Note{
		NoteID:    newNoteID(),
		Kind:      KindText,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// NewAudioNote creates an audio note referencing a recorded clip.
// Returns ErrEmptyMediaRef if mediaRef is blank and ErrInvalidDuration
// if duration is negative.
func NewAudioNote(mediaRef string, duration time.Duration) (Note, error) {
	n := Note{
		NoteID:       newNoteID(),
		Kind:         KindAudio,
		MediaRef:     strings.TrimSpace(mediaRef),
		DurationSecs: duration.Seconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// NewPhotoNote creates a photo note referencing a captured image.
// Returns ErrEmptyMediaRef if mediaRef is blank.
func NewPhotoNote(mediaRef string) (Note, error) {
	n := Note{
		NoteID:    newNoteID(),
		Kind:      KindPhoto,
		MediaRef:  strings.TrimSpace(mediaRef),
		CreatedAt: time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Validate checks that the note is well-formed: a non-empty ID, a known
// kind, a non-empty payload for that kind, and no payload fields that
// belong to another kind.
func (n Note) Validate() error {
	if strings.TrimSpace(n.NoteID) == "" {
		return ErrInvalidNoteID
	}
	switch n.Kind {
	case KindText:
		if strings.TrimSpace(n.Body) == "" {
			return ErrEmptyBody
		}
		if n.MediaRef != "" || n.DurationSecs != 0 {
			return ErrMixedPayload
		}
	case KindAudio:
		if strings.TrimSpace(n.MediaRef) == "" {
			return ErrEmptyMediaRef
		}
		if n.Body != "" {
			return ErrMixedPayload
		}
		if n.DurationSecs < 0 {
			return ErrInvalidDuration
		}
	case KindPhoto:
		if strings.TrimSpace(n.MediaRef) == "" {
			return ErrEmptyMediaRef
		}
		if n.Body != "" || n.DurationSecs != 0 {
			return ErrMixedPayload
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

// Equal reports whether two notes denote the same captured item.
// Identity is the NoteID; content is not compared.
func (n Note) Equal(other Note) bool {
	return n.NoteID == other.NoteID
}

// Clone returns a copy of the note with an independent Tags slice.
func (n Note) Clone() Note {
	cp := n
	if n.Tags != nil {
		cp.Tags = make([]string, len(n.Tags))
		copy(cp.Tags, n.Tags)
	}
	return cp
}

// CloneCollection returns an independent copy of the collection,
// preserving order. The result never aliases the input's backing array
// or tag slices.
func CloneCollection(notes []Note) []Note {
	if notes == nil {
		return nil
	}
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// ValidateCollection checks every note in the list and rejects the list
// if any two notes share an ID. The collection may otherwise contain
// any mix of kinds and duplicate content.
func ValidateCollection(notes []Note) error {
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if err := n.Validate(); err != nil {
			return err
		}
		if seen[n.NoteID] {
			return ErrDuplicateID
		}
		seen[n.NoteID] = true
	}
	return nil
}
