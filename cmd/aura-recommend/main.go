// Command aura-recommend serves the synchronous note-similarity recommender.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	aurahttp "github.com/s-a-yu/auraPerfumeRec/internal/adapter/http"
	"github.com/s-a-yu/auraPerfumeRec/internal/config"
	"github.com/s-a-yu/auraPerfumeRec/internal/logger"
	"github.com/s-a-yu/auraPerfumeRec/internal/middleware"
	"github.com/s-a-yu/auraPerfumeRec/internal/recommend"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(logger.New(cfg.Logging))

	perfumes, err := recommend.LoadDataset(cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	svc := recommend.NewService(perfumes)
	slog.Info("dataset loaded", "path", cfg.Dataset.Path, "perfumes", svc.Len())

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.Server.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	aurahttp.MountRecommendRoutes(r, aurahttp.NewRecommendHandlers(svc))

	addr := cfg.Server.Host + ":" + cfg.Server.RecommendPort
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting recommend server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down recommend server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
