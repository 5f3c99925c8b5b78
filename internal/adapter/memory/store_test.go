package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain"
	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
)

func TestCreateThenGet(t *testing.T) {
	s := NewStore()

	created, err := s.Create("t1", []string{"vanilla", "rose"}, "summer scent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != research.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != research.StatusPending || got.Progress != 0 {
		t.Fatalf("expected pending/0, got %s/%d", got.Status, got.Progress)
	}
	if len(got.Notes) != 2 || got.Notes[0] != "vanilla" {
		t.Fatalf("notes not preserved: %v", got.Notes)
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := NewStore()
	if _, err := s.Create("t1", []string{"oud"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Create("t1", []string{"oud"}, ""); !errors.Is(err, domain.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"musk"}, "")

	got, _ := s.Get("t1")
	got.Status = research.StatusFailed
	got.Notes[0] = "mutated"

	again, _ := s.Get("t1")
	if again.Status != research.StatusPending || again.Notes[0] != "musk" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestUpdateUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.Update("nope", research.StatusPlanning, 10, "planning")
	if s.Len() != 0 {
		t.Fatal("update must not create records")
	}
}

func TestUpdateAdvancesPhase(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"rose"}, "")

	s.Update("t1", research.StatusSearching, 30, "Searching web (3 queries)...")

	got, _ := s.Get("t1")
	if got.Status != research.StatusSearching || got.Progress != 30 {
		t.Fatalf("got %s/%d", got.Status, got.Progress)
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"rose"}, "")

	s.Update("t1", research.StatusSearching, 60, "searching")
	s.Update("t1", research.StatusAnalyzing, 40, "analyzing")

	got, _ := s.Get("t1")
	if got.Progress != 60 {
		t.Fatalf("progress regressed to %d", got.Progress)
	}
	if got.Status != research.StatusAnalyzing {
		t.Fatalf("status should still advance, got %s", got.Status)
	}
}

func TestCompleteSetsTerminalState(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"vanilla"}, "")

	s.Complete("t1", []research.Recommendation{{Name: "Black Opium", Brand: "Yves Saint Laurent"}})

	got, _ := s.Get("t1")
	if got.Status != research.StatusCompleted || got.Progress != 100 {
		t.Fatalf("got %s/%d", got.Status, got.Progress)
	}
	if len(got.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(got.Recommendations))
	}
	if got.Message != "Found 1 recommendation" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestFailSetsErrorAndGenericMessage(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"vanilla"}, "")

	s.Fail("t1", "completion timed out")

	got, _ := s.Get("t1")
	if got.Status != research.StatusFailed {
		t.Fatalf("got %s", got.Status)
	}
	if got.Error != "completion timed out" || got.Message != "Research failed" {
		t.Fatalf("got error %q message %q", got.Error, got.Message)
	}
}

func TestCancelNonTerminal(t *testing.T) {
	for _, st := range []research.Status{
		research.StatusPending,
		research.StatusPlanning,
		research.StatusSearching,
		research.StatusAnalyzing,
	} {
		s := NewStore()
		_, _ = s.Create("t1", []string{"oud"}, "")
		s.Update("t1", st, 10, "in flight")

		if !s.Cancel("t1") {
			t.Fatalf("cancel from %s should succeed", st)
		}
		got, _ := s.Get("t1")
		if got.Status != research.StatusCancelled {
			t.Fatalf("got %s", got.Status)
		}
	}
}

func TestCancelTerminalReturnsFalse(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("done", []string{"oud"}, "")
	s.Complete("done", []research.Recommendation{{Name: "Oud Wood"}})
	_, _ = s.Create("dead", []string{"oud"}, "")
	s.Fail("dead", "boom")

	if s.Cancel("done") {
		t.Fatal("cancel on completed task must return false")
	}
	if s.Cancel("dead") {
		t.Fatal("cancel on failed task must return false")
	}
	if s.Cancel("absent") {
		t.Fatal("cancel on unknown task must return false")
	}

	got, _ := s.Get("done")
	if got.Status != research.StatusCompleted {
		t.Fatalf("completed task mutated to %s", got.Status)
	}
}

func TestLateWritesAfterCancelAreIgnored(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("t1", []string{"rose"}, "")
	s.Update("t1", research.StatusAnalyzing, 75, "analyzing")

	if !s.Cancel("t1") {
		t.Fatal("cancel should succeed")
	}

	// The still-running pipeline lands its terminal writes late.
	s.Complete("t1", []research.Recommendation{{Name: "Portrait of a Lady"}})
	s.Fail("t1", "late failure")
	s.Update("t1", research.StatusSearching, 90, "late update")

	got, _ := s.Get("t1")
	if got.Status != research.StatusCancelled {
		t.Fatalf("cancellation overwritten: %s", got.Status)
	}
	if got.Recommendations != nil || got.Error != "" {
		t.Fatal("late writes leaked into cancelled record")
	}
}

func TestSweepRemovesOldTasks(t *testing.T) {
	s := NewStore()
	current := time.Now()
	s.now = func() time.Time { return current.Add(-25 * time.Hour) }
	_, _ = s.Create("old", []string{"oud"}, "")
	s.now = func() time.Time { return current.Add(-1 * time.Hour) }
	_, _ = s.Create("fresh", []string{"rose"}, "")
	s.now = func() time.Time { return current }

	removed := s.Sweep(24 * time.Hour)
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := s.Get("old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("old task should be gone")
	}
	if _, err := s.Get("fresh"); err != nil {
		t.Fatalf("fresh task should remain: %v", err)
	}
}

func TestConcurrentTasksDoNotCorrupt(t *testing.T) {
	s := NewStore()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("task-%d", i)
			note := fmt.Sprintf("note-%d", i)
			if _, err := s.Create(id, []string{note}, ""); err != nil {
				t.Errorf("create %s: %v", id, err)
				return
			}
			s.Update(id, research.StatusPlanning, 10, "planning")
			s.Update(id, research.StatusSearching, 60, "searching")
			s.Complete(id, []research.Recommendation{{Name: "rec-" + id}})
		}(i)
	}
	wg.Wait()

	if s.Len() != n {
		t.Fatalf("expected %d tasks, got %d", n, s.Len())
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("task-%d", i)
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if got.Status != research.StatusCompleted {
			t.Fatalf("%s not terminal: %s", id, got.Status)
		}
		if got.Notes[0] != fmt.Sprintf("note-%d", i) {
			t.Fatalf("%s holds foreign notes %v", id, got.Notes)
		}
		if got.Recommendations[0].Name != "rec-"+id {
			t.Fatalf("%s holds foreign recommendations", id)
		}
	}
}
