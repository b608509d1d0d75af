package handlers

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and the state of whichever backing services
// the process was started with. Nil dependencies are skipped. Redis only fails
// readiness when it holds the audio cache; otherwise an outage only takes the
// warm-up queue down and is reported as degraded.
type HealthHandler struct {
	db            *pgxpool.Pool
	redis         *redis.Client
	redisRequired bool
	nats          *nats.Conn
}

func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, redisRequired bool, nc *nats.Conn) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, redisRequired: redisRequired, nats: nc}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			if h.redisRequired {
				checks["redis"] = "unhealthy: " + err.Error()
			} else {
				checks["redis"] = "degraded: " + err.Error()
			}
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.nats != nil {
		if h.nats.IsConnected() {
			checks["nats"] = "ok"
		} else {
			checks["nats"] = "unhealthy: " + h.nats.Status().String()
		}
	}

	code, status := http.StatusOK, "ok"
	for _, v := range checks {
		switch {
		case strings.HasPrefix(v, "unhealthy"):
			code, status = http.StatusServiceUnavailable, "unhealthy"
		case strings.HasPrefix(v, "degraded") && status == "ok":
			status = "degraded"
		}
	}

	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}
