package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/ws"
)

// MountResearchRoutes registers the deep-research API on the given router.
func MountResearchRoutes(r chi.Router, h *ResearchHandlers, hub *ws.Hub) {
	r.Route("/api/research", func(r chi.Router) {
		r.Post("/start", h.StartResearch)
		r.Get("/status/{taskID}", h.ResearchStatus)
		r.Post("/cancel/{taskID}", h.CancelResearch)
	})

	r.Get("/health", Health("aura-research"))
	r.Get("/ws", http.HandlerFunc(hub.HandleWS))
}

// MountRecommendRoutes registers the similarity recommender API.
func MountRecommendRoutes(r chi.Router, h *RecommendHandlers) {
	r.Get("/api/recommend", h.Recommend)
	r.Get("/health", Health("aura-recommend"))
}
