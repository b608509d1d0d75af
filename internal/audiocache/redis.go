package audiocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tts_audio"

// RedisStore keeps entries as JSON values without expiry. SETNX gives the
// insert-if-absent semantics.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(k Key) string {
	return fmt.Sprintf("%s:%s:%s:%s", redisKeyPrefix, k.ProviderID, k.PromptID, k.Digest())
}

func (s *RedisStore) Probe(ctx context.Context, key Key) (*Entry, bool, error) {
	val, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", redisKey(key), err)
	}

	e, err := decodePayload(key, val)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

func (s *RedisStore) InsertIfAbsent(ctx context.Context, entry Entry) error {
	data, err := encodePayload(entry)
	if err != nil {
		return err
	}
	if err := s.client.SetNX(ctx, redisKey(entry.Key), data, 0).Err(); err != nil {
		return fmt.Errorf("cache setnx %s: %w", redisKey(entry.Key), err)
	}
	return nil
}
