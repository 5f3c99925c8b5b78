// Package memory implements the taskstore port as an in-process table.
// Tasks do not survive a restart; age-based sweeping is the only reclaim.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain"
	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
)

// Store is a mutex-guarded map from task id to record. One coarse lock
// guards the whole table; every operation is O(1) or O(n) map work and
// never calls out while holding the lock.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*research.Task
	now   func() time.Time // for testing
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]*research.Task),
		now:   time.Now,
	}
}

// Create inserts a new task in the pending state.
func (s *Store) Create(id string, notes []string, preferences string) (*research.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; ok {
		return nil, domain.ErrExists
	}

	now := s.now()
	t := &research.Task{
		ID:          id,
		Notes:       append([]string(nil), notes...),
		Preferences: preferences,
		Status:      research.StatusPending,
		Progress:    0,
		Message:     "Task created, waiting to start...",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[id] = t

	return copyTask(t), nil
}

// Get returns a copy of the task so callers never observe in-place mutation.
func (s *Store) Get(id string) (*research.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTask(t), nil
}

// Update advances a task's phase. Unknown ids are ignored rather than
// rejected: a runner racing a sweep must not crash on a missing task.
// Terminal records are left untouched and progress never moves backwards.
func (s *Store) Update(id string, status research.Status, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	if progress < t.Progress {
		progress = t.Progress
	}
	t.Status = status
	t.Progress = progress
	t.Message = message
	t.UpdatedAt = s.now()
}

// Complete marks the task completed with its recommendations. A task that
// was cancelled while the pipeline was still running stays cancelled.
func (s *Store) Complete(id string, recs []research.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	t.Status = research.StatusCompleted
	t.Progress = 100
	t.Message = completionMessage(len(recs))
	t.Recommendations = append([]research.Recommendation(nil), recs...)
	t.UpdatedAt = s.now()
}

// Fail marks the task failed with the given error string.
func (s *Store) Fail(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.Status.Terminal() {
		return
	}
	t.Status = research.StatusFailed
	t.Message = "Research failed"
	t.Error = errMsg
	t.UpdatedAt = s.now()
}

// Cancel transitions a pending or in-flight task to cancelled. Completed and
// failed tasks report false; cancelling an already-cancelled task is a
// successful no-op.
func (s *Store) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	if t.Status == research.StatusCompleted || t.Status == research.StatusFailed {
		return false
	}
	t.Status = research.StatusCancelled
	t.Message = "Task cancelled by user"
	t.UpdatedAt = s.now()
	return true
}

// Sweep purges tasks created more than maxAge ago, regardless of status.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for id, t := range s.tasks {
		if t.CreatedAt.Before(cutoff) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func completionMessage(n int) string {
	if n == 1 {
		return "Found 1 recommendation"
	}
	return fmt.Sprintf("Found %d recommendations", n)
}

func copyTask(t *research.Task) *research.Task {
	c := *t
	c.Notes = append([]string(nil), t.Notes...)
	if t.Recommendations != nil {
		c.Recommendations = append([]research.Recommendation(nil), t.Recommendations...)
	}
	return &c
}
