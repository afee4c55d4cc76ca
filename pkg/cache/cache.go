// Package cache is the key/value layer shared by the catalog cache and the
// session store. It talks to Redis when REDIS_ADDR answers and falls back to
// an in-process store otherwise, so a single-node deployment still works.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
)

// ErrMiss is returned by Store.Get when key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the minimal backend contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

var (
	RDB     *redis.Client
	current Store = NewMemoryStore()
)

// Connect initialises the Redis client and verifies the connection with a ping.
// On failure the in-memory store stays active and the error is returned so the
// caller can log a warning.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	current = &redisStore{client: client}
	return nil
}

// Use swaps the active store. Tests install a fresh MemoryStore.
func Use(s Store) { current = s }

// Driver names the active backend ("redis" or "memory").
func Driver() string {
	if _, ok := current.(*redisStore); ok {
		return "redis"
	}
	return "memory"
}

// Ping checks the active backend.
func Ping(ctx context.Context) error { return current.Ping(ctx) }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := current.Get(ctx, key)
	if err != nil || json.Unmarshal(raw, dest) != nil {
		metrics.CacheMisses.WithLabelValues(Driver()).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(Driver()).Inc()
	return true
}

// Set JSON-encodes value under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return current.Set(ctx, key, data, ttl)
}

// Remember returns the cached value for key, or calls fn, caches its result
// and returns it.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	if Get(ctx, key, &out) {
		return out, nil
	}
	out, err := fn()
	if err != nil {
		return out, err
	}
	_ = Set(ctx, key, out, ttl)
	return out, nil
}

// Del removes one or more keys.
func Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return current.Del(ctx, keys...)
}

// Flush removes every key under prefix.
func Flush(ctx context.Context, prefix string) error {
	return current.DelPrefix(ctx, prefix)
}

// ------------------- Redis -------------------

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) DelPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
