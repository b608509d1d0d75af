package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/ttsthrowdown/internal/api/handlers"
	"github.com/nikhilbhutani/ttsthrowdown/internal/api/middleware"
	"github.com/nikhilbhutani/ttsthrowdown/internal/auth"
	"github.com/nikhilbhutani/ttsthrowdown/internal/catalog"
	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
	"github.com/nikhilbhutani/ttsthrowdown/internal/vote"
)

// Deps are the services the router wires into handlers. Warm may be nil when
// no queue is configured; DB, Redis and NATS only feed the readiness check.
type Deps struct {
	Audio   handlers.AudioService
	Votes   *vote.Service
	Catalog *catalog.Catalog
	Warm    handlers.WarmEnqueuer
	Metrics http.Handler

	DB    *pgxpool.Pool
	Redis *redis.Client
	NATS  *nats.Conn
}

type Router struct {
	mux   *chi.Mux
	cfg   *config.Config
	deps  Deps
	admin *auth.AdminMiddleware
}

func NewRouter(cfg *config.Config, deps Deps) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		cfg:   cfg,
		deps:  deps,
		admin: auth.NewAdminMiddleware(cfg.Auth.AdminJWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	redisRequired := rt.cfg.Cache.Backend == config.CacheBackendRedis
	health := handlers.NewHealthHandler(rt.deps.DB, rt.deps.Redis, redisRequired, rt.deps.NATS)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if rt.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.Server.RateLimitRPS > 0 {
			r.Use(middleware.NewRateLimiter(rt.cfg.Server.RateLimitRPS, rt.cfg.Server.RateLimitBurst).Limit)
		}

		audioH := handlers.NewAudioHandler(rt.deps.Audio, rt.deps.Catalog)
		r.Get("/audio", audioH.Get)

		catalogH := handlers.NewCatalogHandler(rt.deps.Catalog, nil)
		r.Get("/catalog", catalogH.Get)
		r.Get("/matchup", catalogH.Matchup)

		voteH := handlers.NewVoteHandler(rt.deps.Votes)
		r.Post("/votes", voteH.Create)
		r.Get("/leaderboard", voteH.Leaderboard)

		adminH := handlers.NewAdminHandler(rt.deps.Warm, rt.deps.Catalog)
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.admin.Authenticate)
			r.Post("/warm", adminH.Warm)
		})
	})

	return r
}
