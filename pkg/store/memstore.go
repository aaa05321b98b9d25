package store

import (
	"time"

	"crabdb/pkg/object"
)

// entry pairs a stored Object with the second-granularity timestamp of
// its last Store call.
type entry struct {
	object    object.Object
	updatedAt int64
}

// MemStore adapts a ShardedMap to the Store contract. Its operations
// always succeed in the happy path; errors, if ever returned, are
// structural rather than data-dependent.
type MemStore struct {
	m *ShardedMap[entry]

	// now is overridable in tests so updated_at assertions don't depend
	// on wall-clock timing.
	now func() int64
}

// NewMemStore returns a MemStore with n shards.
func NewMemStore(n int) *MemStore {
	return &MemStore{
		m:   NewShardedMap[entry](n),
		now: func() int64 { return time.Now().Unix() },
	}
}

// Store inserts obj under key with an updated_at of now, returning the
// prior object or object.Null if key was absent.
func (s *MemStore) Store(key object.Key, obj object.Object) (object.Object, error) {
	prior, had := s.m.Insert(key, entry{object: obj, updatedAt: s.now()})
	if !had {
		return object.Null, nil
	}
	return prior.object, nil
}

// Retrieve returns the object under key, or object.Null if absent.
func (s *MemStore) Retrieve(key object.Key) (object.Object, error) {
	e, had := s.m.Get(key)
	if !had {
		return object.Null, nil
	}
	return e.object, nil
}

// Remove deletes key, returning the prior object or object.Null if
// absent.
func (s *MemStore) Remove(key object.Key) (object.Object, error) {
	prior, had := s.m.Remove(key)
	if !had {
		return object.Null, nil
	}
	return prior.object, nil
}

// UpdatedAt returns the second-granularity timestamp of the last Store
// under key, or 0 if absent.
func (s *MemStore) UpdatedAt(key object.Key) (int64, error) {
	e, had := s.m.Get(key)
	if !had {
		return 0, nil
	}
	return e.updatedAt, nil
}

// Len returns a best-effort total key count, used by the metrics gauge.
func (s *MemStore) Len() int {
	return s.m.Len()
}
