package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/port/taskstore"
)

// Runner launches the orchestrator for a task on its own goroutine, fully
// decoupled from the HTTP request that created the task. Each launch gets a
// fresh background context with the configured deadline, never the request
// context, so request completion cannot cancel in-flight research and a
// fault in one task cannot touch another.
type Runner struct {
	store   taskstore.Store
	orch    *Orchestrator
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner creates a Runner. timeout bounds one whole pipeline run.
func NewRunner(store taskstore.Store, orch *Orchestrator, timeout time.Duration) *Runner {
	return &Runner{store: store, orch: orch, timeout: timeout}
}

// Launch starts the pipeline for the given task and returns immediately.
// Whatever happens inside the run, the task ends in a terminal state: the
// orchestrator handles stage errors itself, and a panic escaping it is
// recovered here and written to the store as a failure.
func (r *Runner) Launch(id string, notes []string, preferences string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("research pipeline panicked", "task_id", id, "panic", rec)
				r.store.Fail(id, fmt.Sprintf("pipeline panic: %v", rec))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		r.orch.Run(ctx, id, notes, preferences)
	}()
}

// Wait blocks until every launched pipeline has finished. Used on shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}
