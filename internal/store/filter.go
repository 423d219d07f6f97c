package store

import (
	"iter"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Filter returns the subsequence of notes whose kind matches the
// selector, in original order. KindAll matches every note. The result
// is a lazy, restartable sequence over the given slice; the input is
// never mutated. Callers should pass a snapshot, not a live reference.
func Filter(notes []types.Note, kind string) iter.Seq[types.Note] {
	return func(yield func(types.Note) bool) {
		for _, n := range notes {
			if !kindMatches(n, kind) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// kindMatches reports whether a note passes the kind selector. The
// switch is exhaustive over the selectors; adding a kind without
// extending it makes the new kind unfilterable, which the filter tests
// catch.
func kindMatches(n types.Note, kind string) bool {
	switch kind {
	case types.KindAll:
		return true
	case types.KindText, types.KindAudio, types.KindPhoto:
		return n.Kind == kind
	default:
		return false
	}
}
