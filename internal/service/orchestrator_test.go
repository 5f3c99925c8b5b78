package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/memory"
	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/broadcast"
)

const validPlanJSON = `{"search_tasks":[
	{"query":"q1","focus":"f1"},
	{"query":"q2","focus":"f2"}
],"reasoning":"r"}`

const validAnalysisJSON = `{"recommendations":[
	{"Name":"Santal 33","Brand":"Le Labo","Notes":"sandalwood","reasoning":"match"}
]}`

func newTestOrchestrator(store *memory.Store, llm *mockCompleter, hub broadcast.Broadcaster) *Orchestrator {
	provider := &mockProvider{results: []research.SearchResult{{Title: "t", Body: "b", URL: "u"}}}
	return NewOrchestrator(
		store,
		NewPlanner(llm),
		NewSearcher(provider, llm, 8),
		NewAnalyzer(llm),
		hub,
		nil,
	)
}

func TestRunCompletesTask(t *testing.T) {
	store := memory.NewStore()
	llm := &mockCompleter{
		responses:       map[string]string{"search_plan": validPlanJSON, "analysis": validAnalysisJSON},
		summaryResponse: "summary",
	}
	hub := &mockBroadcaster{}
	orch := newTestOrchestrator(store, llm, hub)

	if _, err := store.Create("task-1", []string{"sandalwood"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	orch.Run(context.Background(), "task-1", []string{"sandalwood"}, "")

	task, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != research.StatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
	if task.Progress != 100 {
		t.Errorf("expected progress 100, got %d", task.Progress)
	}
	if len(task.Recommendations) != 1 || task.Recommendations[0].Name != "Santal 33" {
		t.Errorf("unexpected recommendations: %+v", task.Recommendations)
	}
	if task.Message != "Found 1 recommendation" {
		t.Errorf("unexpected completion message: %q", task.Message)
	}
	if hub.eventCount() == 0 {
		t.Error("expected progress broadcasts")
	}
}

func TestRunWithoutHubBroadcastsNothing(t *testing.T) {
	store := memory.NewStore()
	llm := &mockCompleter{
		responses:       map[string]string{"search_plan": validPlanJSON, "analysis": validAnalysisJSON},
		summaryResponse: "summary",
	}
	orch := newTestOrchestrator(store, llm, nil)

	if _, err := store.Create("task-1", []string{"rose"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	orch.Run(context.Background(), "task-1", []string{"rose"}, "")

	task, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != research.StatusCompleted {
		t.Errorf("hubless run should still complete, got %s", task.Status)
	}
}

func TestRunPlannerErrorFailsTask(t *testing.T) {
	store := memory.NewStore()
	llm := &mockCompleter{errs: map[string]error{"search_plan": errors.New("model offline")}}
	orch := newTestOrchestrator(store, llm, nil)

	if _, err := store.Create("task-1", []string{"rose"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	orch.Run(context.Background(), "task-1", []string{"rose"}, "")

	task, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != research.StatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if !strings.Contains(task.Error, "model offline") {
		t.Errorf("error should carry the cause: %q", task.Error)
	}
	if task.Message != "Research failed" {
		t.Errorf("unexpected failure message: %q", task.Message)
	}
}

func TestRunAnalyzerErrorStillCompletesWithFallback(t *testing.T) {
	store := memory.NewStore()
	llm := &mockCompleter{
		responses:       map[string]string{"search_plan": validPlanJSON},
		errs:            map[string]error{"analysis": errors.New("model offline")},
		summaryResponse: "summary",
	}
	orch := newTestOrchestrator(store, llm, nil)

	if _, err := store.Create("task-1", []string{"vanilla"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	orch.Run(context.Background(), "task-1", []string{"vanilla"}, "")

	task, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != research.StatusCompleted {
		t.Fatalf("expected completed with fallback, got %s", task.Status)
	}
	if len(task.Recommendations) != 1 || task.Recommendations[0].Name != "Black Opium" {
		t.Errorf("expected vanilla fallback, got %+v", task.Recommendations)
	}
}

func TestRunAfterCancelLeavesTaskCancelled(t *testing.T) {
	store := memory.NewStore()
	llm := &mockCompleter{
		responses:       map[string]string{"search_plan": validPlanJSON, "analysis": validAnalysisJSON},
		summaryResponse: "summary",
	}
	orch := newTestOrchestrator(store, llm, nil)

	if _, err := store.Create("task-1", []string{"rose"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !store.Cancel("task-1") {
		t.Fatal("Cancel returned false")
	}

	orch.Run(context.Background(), "task-1", []string{"rose"}, "")

	task, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != research.StatusCancelled {
		t.Errorf("late pipeline writes must not override cancellation, got %s", task.Status)
	}
	if len(task.Recommendations) != 0 {
		t.Errorf("cancelled task must not receive recommendations: %+v", task.Recommendations)
	}
}
