// Package redis implements store.Store on Redis. Leases map to SET NX with
// an expiry, hashes map to Redis hashes directly.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/PluralKit/PluralKit-sub000/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store implements store.Store backed by Redis.
type Store struct {
	client goredis.Cmdable
	logger *slog.Logger
}

// New creates a Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() goredis.Cmdable { return s.client }

// SetIfAbsent performs SET key value NX EX ttl.
func (s *Store) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("gateway/redis: setnx %s: %w", key, err)
	}
	return ok, nil
}

// HashGet returns one hash field.
func (s *Store) HashGet(ctx context.Context, key, field string) (string, error) {
	val, err := s.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", store.ErrFieldMissing
		}
		return "", fmt.Errorf("gateway/redis: hget %s %s: %w", key, field, err)
	}
	return val, nil
}

// HashSet writes one hash field.
func (s *Store) HashSet(ctx context.Context, key, field, value string) error {
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("gateway/redis: hset %s %s: %w", key, field, err)
	}
	return nil
}

// HashGetAll returns every field of a hash.
func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("gateway/redis: hgetall %s: %w", key, err)
	}
	return vals, nil
}

// HashDelete removes hash fields.
func (s *Store) HashDelete(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("gateway/redis: hdel %s: %w", key, err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op — the caller owns the Redis client lifecycle.
func (s *Store) Close() error { return nil }
