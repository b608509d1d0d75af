// Package app opens the connections and builds the services shared by the
// API server and the warm worker.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audiocache"
	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
	"github.com/nikhilbhutani/ttsthrowdown/internal/database"
	"github.com/nikhilbhutani/ttsthrowdown/internal/generation"
	"github.com/nikhilbhutani/ttsthrowdown/internal/metrics"
	"github.com/nikhilbhutani/ttsthrowdown/internal/tts"
)

type App struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Metrics *metrics.Metrics

	DB    *pgxpool.Pool
	Redis *redis.Client
	NATS  *nats.Conn

	Audio *generation.Orchestrator
}

// New connects to Postgres (running migrations), Redis and, when it backs the
// audio cache, NATS. Any failure is fatal for the caller.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(reg)

	a.DB, err = database.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, a.DB); err != nil {
		a.Close()
		return nil, err
	}

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		// Only fatal when Redis holds the audio; the queue degrades to a 503.
		if cfg.Cache.Backend == config.CacheBackendRedis {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		slog.Warn("redis unavailable", "error", err)
	}

	backends := audiocache.Backends{Postgres: a.DB, Redis: a.Redis}
	if cfg.Cache.Backend == config.CacheBackendNATS {
		a.NATS, err = nats.Connect(cfg.NATS.URL, nats.Name("ttsthrowdown"))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		js, err := a.NATS.JetStream()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("jetstream context: %w", err)
		}
		backends.JetStream = js
		backends.NATSBucket = cfg.NATS.AudioBucket
	}

	store, err := audiocache.Open(cfg.Cache.Backend, backends)
	if err != nil {
		a.Close()
		return nil, err
	}

	providers, err := tts.NewRegistryFromConfig(cfg.TTS)
	if err != nil {
		a.Close()
		return nil, err
	}
	slog.Info("audio cache ready", "backend", cfg.Cache.Backend, "providers", providers.Names())

	a.Audio = generation.NewOrchestrator(providers, store, a.Metrics)
	return a, nil
}

func (a *App) Close() {
	if a.NATS != nil {
		a.NATS.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
