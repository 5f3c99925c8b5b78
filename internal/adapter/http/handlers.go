// Package http exposes the REST API of the Aura services.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/taskstore"
	"github.com/s-a-yu/auraPerfumeRec/internal/recommend"
	"github.com/s-a-yu/auraPerfumeRec/internal/service"
)

const defaultRecommendCount = 5

// ResearchHandlers serves the deep-research task API.
type ResearchHandlers struct {
	store  taskstore.Store
	runner *service.Runner
}

func NewResearchHandlers(store taskstore.Store, runner *service.Runner) *ResearchHandlers {
	return &ResearchHandlers{store: store, runner: runner}
}

type startResearchRequest struct {
	Notes       []string `json:"notes"`
	Preferences string   `json:"preferences"`
}

type startResearchResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StartResearch creates a pending task and launches the pipeline for it.
func (h *ResearchHandlers) StartResearch(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startResearchRequest](w, r)
	if !ok {
		return
	}

	notes := make([]string, 0, len(req.Notes))
	for _, n := range req.Notes {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			notes = append(notes, trimmed)
		}
	}
	if len(notes) == 0 {
		writeError(w, http.StatusBadRequest, "notes are required")
		return
	}

	id := uuid.NewString()
	task, err := h.store.Create(id, notes, strings.TrimSpace(req.Preferences))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.runner.Launch(id, notes, strings.TrimSpace(req.Preferences))

	writeJSON(w, http.StatusOK, startResearchResponse{
		TaskID:  task.ID,
		Status:  string(task.Status),
		Message: "Research task started",
	})
}

// ResearchStatus returns the current state of a task.
func (h *ResearchHandlers) ResearchStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	task, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type cancelResponse struct {
	Message string `json:"message"`
}

// CancelResearch transitions a running task to cancelled.
func (h *ResearchHandlers) CancelResearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	if !h.store.Cancel(id) {
		writeError(w, http.StatusBadRequest, "task not found or already finished")
		return
	}
	writeJSON(w, http.StatusOK, cancelResponse{Message: "Task cancelled by user"})
}

// Health reports service liveness.
func Health(serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	}
}

// RecommendHandlers serves the synchronous similarity recommender.
type RecommendHandlers struct {
	svc *recommend.Service
}

func NewRecommendHandlers(svc *recommend.Service) *RecommendHandlers {
	return &RecommendHandlers{svc: svc}
}

// Recommend returns the perfumes most similar to the requested notes.
func (h *RecommendHandlers) Recommend(w http.ResponseWriter, r *http.Request) {
	notes := strings.TrimSpace(r.URL.Query().Get("notes"))
	if notes == "" {
		writeError(w, http.StatusBadRequest, "notes query parameter is required")
		return
	}

	n := defaultRecommendCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	writeJSON(w, http.StatusOK, h.svc.Recommend(notes, n))
}
