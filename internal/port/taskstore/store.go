// Package taskstore defines the port for the in-memory research task table.
package taskstore

import (
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
)

// Store holds research task records keyed by identifier. Every operation is
// atomic with respect to every other: no caller may observe a partially
// updated record. Implementations must be safe when invoked from independent
// goroutines; they must not rely on any cooperative scheduling.
//
// Update, Complete and Fail are no-ops on records that are already in a
// terminal state, so a late write from a still-running pipeline cannot
// overwrite a cancellation.
type Store interface {
	// Create inserts a new pending task. Returns domain.ErrExists when the
	// id is already present.
	Create(id string, notes []string, preferences string) (*research.Task, error)

	// Get returns a copy of the task, or domain.ErrNotFound.
	Get(id string) (*research.Task, error)

	// Update advances status, progress and message. Unknown ids and terminal
	// records are ignored; progress never decreases.
	Update(id string, status research.Status, progress int, message string)

	// Complete marks the task completed with progress 100 and its results.
	Complete(id string, recs []research.Recommendation)

	// Fail marks the task failed, recording the error string.
	Fail(id string, errMsg string)

	// Cancel transitions a non-terminal task to cancelled and returns true.
	// Returns false when the task is absent, completed or failed.
	Cancel(id string) bool

	// Sweep removes tasks created more than maxAge ago and returns how many
	// were removed.
	Sweep(maxAge time.Duration) int
}
