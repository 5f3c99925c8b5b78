// Command aura-research serves the asynchronous perfume deep-research API.
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

	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/duckduckgo"
	aurahttp "github.com/s-a-yu/auraPerfumeRec/internal/adapter/http"
	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/llm"
	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/memory"
	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/otel"
	"github.com/s-a-yu/auraPerfumeRec/internal/adapter/ws"
	"github.com/s-a-yu/auraPerfumeRec/internal/config"
	"github.com/s-a-yu/auraPerfumeRec/internal/logger"
	"github.com/s-a-yu/auraPerfumeRec/internal/middleware"
	"github.com/s-a-yu/auraPerfumeRec/internal/service"
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
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(logger.New(cfg.Logging))

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"provider", cfg.LLM.Provider,
		"log_level", cfg.Logging.Level,
	)

	// --- Infrastructure ---

	search, err := duckduckgo.NewClient(duckduckgo.Config{
		BaseURL:            cfg.Search.BaseURL,
		CacheMaxSizeBytes:  cfg.Search.CacheMaxSizeMB << 20,
		CacheTTL:           cfg.Search.CacheTTL,
		BreakerMaxFailures: cfg.Breaker.MaxFailures,
		BreakerTimeout:     cfg.Breaker.Timeout,
	})
	if err != nil {
		return fmt.Errorf("search client: %w", err)
	}
	defer search.Close()

	creds := cfg.LLM.Active()
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = llm.GroqBaseURL
		if cfg.LLM.Provider == "gemini" {
			baseURL = llm.GeminiBaseURL
		}
	}
	completer := llm.NewClient(llm.Config{
		APIKey:             creds.APIKey,
		Model:              creds.Model,
		BaseURL:            baseURL,
		Timeout:            cfg.LLM.Timeout,
		BreakerMaxFailures: cfg.Breaker.MaxFailures,
		BreakerTimeout:     cfg.Breaker.Timeout,
	})

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Services ---

	hub := ws.NewHub()
	store := memory.NewStore()
	orch := service.NewOrchestrator(
		store,
		service.NewPlanner(completer),
		service.NewSearcher(search, completer, cfg.Search.MaxResults),
		service.NewAnalyzer(completer),
		hub,
		metrics,
	)
	runner := service.NewRunner(store, orch, cfg.Research.TaskTimeout)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	service.NewSweeper(store, cfg.Research.SweepInterval, cfg.Research.MaxTaskAge).Start(sweepCtx)

	// --- HTTP ---

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.Server.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(otel.HTTPMiddleware("aura-research"))

	aurahttp.MountResearchRoutes(r, aurahttp.NewResearchHandlers(store, runner), hub)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting research server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down research server")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Let in-flight pipelines reach a terminal state before exiting.
	runner.Wait()
	return nil
}
