package audiocache

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/ttsthrowdown/internal/config"
)

// Backends holds the connections a store may be built on. Only the one the
// configured backend needs has to be set.
type Backends struct {
	Postgres   *pgxpool.Pool
	Redis      *redis.Client
	JetStream  nats.JetStreamContext
	NATSBucket string
}

// Open builds the store selected by backend.
func Open(backend string, b Backends) (Store, error) {
	switch backend {
	case config.CacheBackendPostgres, "":
		if b.Postgres == nil {
			return nil, fmt.Errorf("postgres cache backend needs a database pool")
		}
		return NewPostgresStore(b.Postgres), nil
	case config.CacheBackendRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("redis cache backend needs a redis client")
		}
		return NewRedisStore(b.Redis), nil
	case config.CacheBackendNATS:
		if b.JetStream == nil {
			return nil, fmt.Errorf("nats cache backend needs a jetstream context")
		}
		return NewNATSStore(b.JetStream, b.NATSBucket)
	case config.CacheBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
