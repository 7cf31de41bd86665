// Package reminder implements the durable reminder/timer subsystem: a
// per-conversation store of pending entries, a recurring sweeper that fires
// and removes due entries exactly once, and the scheduling facade that ties
// the time parser and the store together.
package reminder

import "time"

// Kind distinguishes reminders (with a text label) from bare timers.
type Kind string

const (
	// KindReminder is an entry with free-text content to repeat back.
	KindReminder Kind = "reminder"
	// KindTimer is a bare countdown without content.
	KindTimer Kind = "timer"
)

// Entry is a single pending reminder or timer. Entries are immutable after
// creation: they are only ever added and removed, never mutated in place.
type Entry struct {
	ID        string    `json:"id"`                // Unique entry identifier
	Kind      Kind      `json:"kind"`              // reminder or timer
	Content   string    `json:"content,omitempty"` // Label; empty for bare timers
	DueAt     time.Time `json:"due_at"`            // Absolute instant the entry fires at
	CreatedAt time.Time `json:"created_at"`        // When the entry was scheduled
}

// Due reports whether the entry should fire at the given instant.
func (e Entry) Due(now time.Time) bool {
	return !e.DueAt.After(now)
}

// Owned pairs an entry with its owning conversation, as returned by the
// cross-conversation listing used by the sweeper.
type Owned struct {
	ChatID string
	Entry  Entry
}
