// Package status holds the single-slot user-facing status message.
// Posting replaces any prior message; a message with a TTL clears
// itself when the TTL elapses unless it was replaced first.
package status

import (
	"sync"
	"time"
)

// Notice severity levels.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is one transient status message. A zero Expires means the
// notice is sticky until replaced or cleared.
type Notice struct {
	Text    string
	Level   Level
	Posted  time.Time
	Expires time.Time
}

// Board holds at most one active notice.
type Board struct {
	mu      sync.Mutex
	current *Notice
	timer   *time.Timer
	seq     uint64 // identifies the notice a pending timer belongs to
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Post replaces the current notice. A positive ttl schedules an
// auto-clear; ttl zero leaves the notice sticky. A pending auto-clear
// for the replaced notice is cancelled and can never clear the new one.
func (b *Board) Post(text string, level Level, ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	b.seq++
	now := time.Now()
	n := &Notice{Text: text, Level: level, Posted: now}
	if ttl > 0 {
		n.Expires = now.Add(ttl)
		seq := b.seq
		b.timer = time.AfterFunc(ttl, func() {
			b.clearIf(seq)
		})
	}
	b.current = n
}

// Current returns the active notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Clear removes the active notice and cancels any pending auto-clear.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}

// clearIf clears the board only if the notice identified by seq is
// still the active one.
func (b *Board) clearIf(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq != seq {
		return
	}
	b.current = nil
	b.timer = nil
}
