package store

import (
	"hash/fnv"
	"sync"

	"crabdb/pkg/object"
)

// shard is one independently-locked partition of a ShardedMap.
type shard[V any] struct {
	mu sync.RWMutex
	m  map[object.Key]V
}

// ShardedMap is a fixed vector of N independently-locked sub-maps keyed by
// object.Key. A key is routed to exactly one shard for the life of the
// map by a stable hash of its bytes mod N, so concurrent operations on
// distinct shards never contend, while operations within a shard are
// serialized by that shard's lock.
type ShardedMap[V any] struct {
	shards []*shard[V]
}

// NewShardedMap returns a ShardedMap with n shards. n must be positive.
func NewShardedMap[V any](n int) *ShardedMap[V] {
	if n <= 0 {
		n = 1
	}
	shards := make([]*shard[V], n)
	for i := range shards {
		shards[i] = &shard[V]{m: make(map[object.Key]V)}
	}
	return &ShardedMap[V]{shards: shards}
}

// NumShards returns the number of shards the map was constructed with.
func (s *ShardedMap[V]) NumShards() int {
	return len(s.shards)
}

// ShardIndex computes the shard a key is hosted by. Exported so the
// append-only log can select its own per-file mutex using the same
// routing function, keeping AOL-file and store-shard partitioning in
// lockstep when their counts match.
func ShardIndex(key object.Key, n int) int {
	h := fnv.New64a()
	h.Write(key.Bytes())
	return int(h.Sum64() % uint64(n))
}

func (s *ShardedMap[V]) shardFor(key object.Key) *shard[V] {
	return s.shards[ShardIndex(key, len(s.shards))]
}

// Insert sets key to value, returning the prior value and whether one
// existed.
func (s *ShardedMap[V]) Insert(key object.Key, value V) (prior V, had bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	prior, had = sh.m[key]
	sh.m[key] = value
	return prior, had
}

// Get returns the value stored under key and whether it was present.
func (s *ShardedMap[V]) Get(key object.Key) (value V, had bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	value, had = sh.m[key]
	return value, had
}

// Remove deletes key, returning the prior value and whether one existed.
func (s *ShardedMap[V]) Remove(key object.Key) (prior V, had bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	prior, had = sh.m[key]
	delete(sh.m, key)
	return prior, had
}

// Len returns the total number of keys across all shards. It locks each
// shard in turn rather than the whole map, so the result is a
// best-effort snapshot under concurrent mutation, suitable for metrics
// gauges, not for invariant checks.
func (s *ShardedMap[V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.m)
		sh.mu.RUnlock()
	}
	return total
}
