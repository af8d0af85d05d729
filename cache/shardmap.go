package cache

import (
	"sync"

	"github.com/PluralKit/PluralKit-sub000/discord"
)

// mapShards is a power of two so the bucket pick is a mask.
const mapShards = 64

// shardedMap is a snowflake-keyed map split across independently locked
// buckets, so readers and writers on unrelated ids never contend.
type shardedMap[V any] struct {
	buckets [mapShards]mapBucket[V]
}

type mapBucket[V any] struct {
	mu sync.RWMutex
	m  map[discord.Snowflake]V
}

func newShardedMap[V any]() *shardedMap[V] {
	sm := &shardedMap[V]{}
	for i := range sm.buckets {
		sm.buckets[i].m = make(map[discord.Snowflake]V)
	}
	return sm
}

// bucket picks a bucket by Fibonacci-hashing the snowflake. Raw snowflakes
// share low bits (worker/process ids), so plain masking would skew badly.
func (sm *shardedMap[V]) bucket(key discord.Snowflake) *mapBucket[V] {
	h := uint64(key) * 0x9E3779B97F4A7C15
	return &sm.buckets[h>>(64-6)]
}

func (sm *shardedMap[V]) Get(key discord.Snowflake) (V, bool) {
	b := sm.bucket(key)
	b.mu.RLock()
	v, ok := b.m[key]
	b.mu.RUnlock()
	return v, ok
}

func (sm *shardedMap[V]) Set(key discord.Snowflake, val V) {
	b := sm.bucket(key)
	b.mu.Lock()
	b.m[key] = val
	b.mu.Unlock()
}

func (sm *shardedMap[V]) Delete(key discord.Snowflake) {
	b := sm.bucket(key)
	b.mu.Lock()
	delete(b.m, key)
	b.mu.Unlock()
}

func (sm *shardedMap[V]) Len() int {
	n := 0
	for i := range sm.buckets {
		b := &sm.buckets[i]
		b.mu.RLock()
		n += len(b.m)
		b.mu.RUnlock()
	}
	return n
}
