package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/otel"
	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/ws"
	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/broadcast"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/taskstore"
)

// Orchestrator drives one task through planning, searching and analysis,
// round-tripping every status change through the task store. It is a
// single-pass state machine: each task id runs the sequence exactly once
// and there is no retry of a failed pipeline.
type Orchestrator struct {
	store    taskstore.Store
	planner  *Planner
	searcher *Searcher
	analyzer *Analyzer
	hub      broadcast.Broadcaster
	metrics  *otel.Metrics
}

// NewOrchestrator wires the three stages to the store and the progress
// broadcaster. hub and metrics may be nil when the corresponding surface
// is disabled; hub must then be a nil interface value, not a typed nil
// pointer wrapped in the interface.
func NewOrchestrator(store taskstore.Store, planner *Planner, searcher *Searcher, analyzer *Analyzer, hub broadcast.Broadcaster, metrics *otel.Metrics) *Orchestrator {
	return &Orchestrator{
		store:    store,
		planner:  planner,
		searcher: searcher,
		analyzer: analyzer,
		hub:      hub,
		metrics:  metrics,
	}
}

// Run executes the full pipeline for one task. It always leaves the task in
// a terminal state: any stage error transitions it to failed with the error
// text as payload. Cancellation is not polled mid-flight; a task cancelled
// while Run is in progress has its remaining writes ignored by the store.
func (o *Orchestrator) Run(ctx context.Context, id string, notes []string, preferences string) {
	ctx, span := otel.StartPipelineSpan(ctx, id)
	defer span.End()
	start := time.Now()

	if o.metrics != nil {
		o.metrics.TasksStarted.Add(ctx, 1)
	}

	o.setProgress(ctx, id, research.StatusPlanning, 10, "Creating search plan...")

	planCtx, planSpan := otel.StartStageSpan(ctx, id, "plan")
	plan, err := o.planner.Plan(planCtx, notes, preferences)
	planSpan.End()
	if err != nil {
		o.fail(ctx, id, err)
		return
	}

	o.setProgress(ctx, id, research.StatusSearching, 30,
		fmt.Sprintf("Searching web (%d queries)...", len(plan.Directives)))

	searchCtx, searchSpan := otel.StartStageSpan(ctx, id, "search")
	findings := o.searcher.Search(searchCtx, plan.Directives)
	searchSpan.End()
	if o.metrics != nil {
		o.metrics.SearchesExecuted.Add(ctx, int64(len(plan.Directives)))
	}

	o.setProgress(ctx, id, research.StatusSearching, 60,
		fmt.Sprintf("Found %d results, analyzing...", len(findings)))

	o.setProgress(ctx, id, research.StatusAnalyzing, 75,
		"Analyzing results and generating recommendations...")

	analyzeCtx, analyzeSpan := otel.StartStageSpan(ctx, id, "analyze")
	recs := o.analyzer.Analyze(analyzeCtx, notes, preferences, findings)
	analyzeSpan.End()

	o.store.Complete(id, recs)
	o.broadcastState(ctx, id)
	if o.metrics != nil {
		o.metrics.TasksCompleted.Add(ctx, 1)
		o.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
	}

	slog.Info("research pipeline completed",
		"task_id", id,
		"directives", len(plan.Directives),
		"findings", len(findings),
		"recommendations", len(recs),
	)
}

// setProgress writes a phase update to the store and mirrors it to any
// connected WebSocket clients.
func (o *Orchestrator) setProgress(ctx context.Context, id string, status research.Status, progress int, message string) {
	o.store.Update(id, status, progress, message)
	o.broadcastState(ctx, id)
}

// fail converts a stage error into the failed terminal state, keeping the
// error text verbatim for the status endpoint.
func (o *Orchestrator) fail(ctx context.Context, id string, cause error) {
	slog.Error("research pipeline failed", "task_id", id, "error", cause)
	o.store.Fail(id, cause.Error())
	o.broadcastState(ctx, id)
	if o.metrics != nil {
		o.metrics.TasksFailed.Add(ctx, 1)
	}
}

// broadcastState pushes the task's current stored state to the hub. The
// store is re-read so the event reflects what a status poll would see,
// including a cancellation that beat this write.
func (o *Orchestrator) broadcastState(ctx context.Context, id string) {
	if o.hub == nil {
		return
	}
	t, err := o.store.Get(id)
	if err != nil {
		return // swept mid-flight; nothing to announce
	}
	o.hub.BroadcastEvent(ctx, ws.EventTaskProgress, ws.TaskProgressEvent{
		TaskID:   t.ID,
		Status:   string(t.Status),
		Progress: t.Progress,
		Message:  t.Message,
		Error:    t.Error,
	})
}
