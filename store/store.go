package store

import (
	"context"
	"errors"
	"time"
)

// ErrFieldMissing is returned by HashGet when the field does not exist.
var ErrFieldMissing = errors.New("store: hash field missing")

// Store is the atomic-primitive contract every process in the fleet shares.
// Each method must be individually atomic; nothing composes them.
type Store interface {
	// SetIfAbsent atomically creates key with the given TTL if it does not
	// exist. It reports whether the key was created. Existing keys are left
	// untouched, including their TTL.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// HashGet returns one hash field. Missing fields yield ErrFieldMissing.
	HashGet(ctx context.Context, key, field string) (string, error)

	// HashSet writes one hash field, creating the hash as needed.
	HashSet(ctx context.Context, key, field, value string) error

	// HashGetAll returns every field of a hash. A missing hash is an empty
	// map, not an error.
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	// HashDelete removes fields from a hash. Missing fields are ignored.
	HashDelete(ctx context.Context, key string, fields ...string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the implementation.
	Close() error
}
