package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/ttsthrowdown/internal/api"
	"github.com/nikhilbhutani/ttsthrowdown/internal/app"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
	"github.com/nikhilbhutani/ttsthrowdown/internal/queue"
	"github.com/nikhilbhutani/ttsthrowdown/internal/vote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	qc := queue.NewClient(cfg.Redis)
	defer qc.Close()

	router := api.NewRouter(cfg, api.Deps{
		Audio:   a.Audio,
		Votes:   vote.NewService(a.DB, a.Catalog, a.Metrics),
		Catalog: a.Catalog,
		Warm:    qc,
		Metrics: a.Metrics.Handler(),
		DB:      a.DB,
		Redis:   a.Redis,
		NATS:    a.NATS,
	})

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router.Setup(),
		ReadTimeout: 15 * time.Second,
		// Cold synthesis can take most of the provider timeout.
		WriteTimeout: cfg.TTS.HTTPTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
