package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/passcheck/passcheck-go/internal/config"
	"github.com/passcheck/passcheck-go/internal/crypto"
	"github.com/passcheck/passcheck-go/internal/handler"
	"github.com/passcheck/passcheck-go/internal/middleware"
	"github.com/passcheck/passcheck-go/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.Env)
	slog.SetDefault(logger)

	keys, err := crypto.DeriveKeys([]byte(cfg.SuggestSecret))
	if err != nil {
		slog.Error("deriving keys", "error", err)
		os.Exit(1)
	}

	st, err := openStores(cfg, logger)
	if err != nil {
		if cfg.IsProduction() {
			slog.Error("suggestion index unavailable", "driver", cfg.IndexDriver, "error", err)
			os.Exit(1)
		}
		slog.Warn("suggestion index unavailable, falling back to memory", "driver", cfg.IndexDriver, "error", err)
		st = memoryStores(logger)
	}
	defer st.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(reg)

	registrar := service.NewRegistrar(st.index, keys.Suggestion, cfg.IndexTimeout)
	suggestService := service.NewSuggestionService(registrar, cfg.RuleSet(),
		service.WithMaxAttempts(cfg.SuggestMaxAttempts),
		service.WithPreferredLength(cfg.SuggestPreferredLength),
		service.WithMetrics(metrics),
		service.WithLogger(logger),
	)
	suggestHandler := handler.NewSuggestionHandler(suggestService)

	metadataService := service.NewMetadataService(st.sink, keys.Origin, metrics, logger)
	metadataHandler := handler.NewMetadataHandler(metadataService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.MethodNotAllowed(handler.MethodNotAllowed)
	r.NotFound(handler.NotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", suggestHandler.HandleRules)
		r.Get("/suggest", suggestHandler.HandleSuggest)
		r.Post("/log", metadataHandler.HandleLog)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "index", cfg.IndexDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
