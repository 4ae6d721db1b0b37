package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "autopecas"

type redisCmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps slots as plain redis strings without expiry.
type RedisStore struct {
	store redisCmdable
	raw   *redis.Client
}

// NewRedisStore parses url, connects and verifies connectivity.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func newRedisStoreWith(c redisCmdable) *RedisStore { return &RedisStore{store: c} }

func (s *RedisStore) key(k string) string { return redisNamespace + ":" + k }

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.store.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.store.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
