// Package memory is a fully in-memory store.Store for unit tests and
// development. Safe for concurrent access.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/PluralKit/PluralKit-sub000/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

type lease struct {
	value     string
	expiresAt time.Time
}

// Store is an in-memory implementation of store.Store. TTLs are enforced
// lazily on access against a replaceable clock so tests can step time.
type Store struct {
	mu     sync.Mutex
	leases map[string]lease
	hashes map[string]map[string]string

	// Now is the clock used for TTL expiry. Tests may replace it.
	Now func() time.Time

	fail error
}

// SetFail makes every subsequent operation return err, simulating an
// unreachable store. Pass nil to heal it.
func (m *Store) SetFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		leases: make(map[string]lease),
		hashes: make(map[string]map[string]string),
		Now:    time.Now,
	}
}

// SetIfAbsent creates the key unless a live lease already holds it.
func (m *Store) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}

	now := m.Now()
	if l, ok := m.leases[key]; ok && l.expiresAt.After(now) {
		return false, nil
	}
	m.leases[key] = lease{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

// HashGet returns one hash field.
func (m *Store) HashGet(_ context.Context, key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return "", m.fail
	}

	val, ok := m.hashes[key][field]
	if !ok {
		return "", store.ErrFieldMissing
	}
	return val, nil
}

// HashSet writes one hash field.
func (m *Store) HashSet(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}

	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	h[field] = value
	return nil
}

// HashGetAll returns a copy of every field of a hash.
func (m *Store) HashGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}

	out := make(map[string]string, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		out[f] = v
	}
	return out, nil
}

// HashDelete removes hash fields.
func (m *Store) HashDelete(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}

	for _, f := range fields {
		delete(m.hashes[key], f)
	}
	return nil
}

// Ping always succeeds unless Fail is set.
func (m *Store) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail
}

// Close is a no-op.
func (m *Store) Close() error { return nil }

// LeaseValue returns the live lease value for a key, for test assertions.
func (m *Store) LeaseValue(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leases[key]
	if !ok || !l.expiresAt.After(m.Now()) {
		return "", false
	}
	return l.value, true
}
