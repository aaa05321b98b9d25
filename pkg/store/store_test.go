package store

import (
	"sync"
	"testing"

	"crabdb/pkg/object"
)

func TestShardedMapInsertGetRemove(t *testing.T) {
	m := NewShardedMap[int](4)

	if _, had := m.Get(object.Key("a")); had {
		t.Fatalf("expected absent")
	}
	if prior, had := m.Insert(object.Key("a"), 1); had {
		t.Fatalf("unexpected prior value %v", prior)
	}
	if v, had := m.Get(object.Key("a")); !had || v != 1 {
		t.Fatalf("Get = (%v, %v), want (1, true)", v, had)
	}
	if prior, had := m.Insert(object.Key("a"), 2); !had || prior != 1 {
		t.Fatalf("Insert returned (%v, %v), want (1, true)", prior, had)
	}
	if prior, had := m.Remove(object.Key("a")); !had || prior != 2 {
		t.Fatalf("Remove returned (%v, %v), want (2, true)", prior, had)
	}
	if _, had := m.Get(object.Key("a")); had {
		t.Fatalf("expected absent after remove")
	}
}

func TestShardedMapShardStability(t *testing.T) {
	n := 8
	keys := []object.Key{"alpha", "beta", "gamma", "delta"}
	for _, k := range keys {
		first := ShardIndex(k, n)
		for i := 0; i < 10; i++ {
			if got := ShardIndex(k, n); got != first {
				t.Fatalf("ShardIndex(%q) not stable: got %d, want %d", k, got, first)
			}
		}
	}
}

func TestShardedMapConcurrentDisjointKeys(t *testing.T) {
	m := NewShardedMap[int](4)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := object.Key([]byte{byte(i)})
			m.Insert(k, i)
		}(i)
	}
	wg.Wait()
	if got := m.Len(); got != 100 {
		t.Fatalf("Len() = %d, want 100", got)
	}
}

func TestMemStoreStoreRetrieveRemove(t *testing.T) {
	s := NewMemStore(4)
	key := object.Key("x")

	prior, err := s.Store(key, object.NewInt(1))
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if !prior.IsNull() {
		t.Fatalf("expected Null prior on first store")
	}

	got, err := s.Retrieve(key)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if v, _ := got.AsInt(); v != 1 {
		t.Fatalf("Retrieve = %d, want 1", v)
	}

	prior, err = s.Store(key, object.NewInt(2))
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if v, _ := prior.AsInt(); v != 1 {
		t.Fatalf("prior = %d, want 1", v)
	}

	removed, err := s.Remove(key)
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if v, _ := removed.AsInt(); v != 2 {
		t.Fatalf("removed = %d, want 2", v)
	}

	got, err = s.Retrieve(key)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("expected Null after remove")
	}
}

func TestMemStoreUpdatedAt(t *testing.T) {
	s := NewMemStore(4)
	key := object.Key("x")

	if ts, err := s.UpdatedAt(key); err != nil || ts != 0 {
		t.Fatalf("UpdatedAt absent = (%d, %v), want (0, nil)", ts, err)
	}

	var calls int64
	s.now = func() int64 {
		calls++
		return 1000 + calls
	}

	s.Store(key, object.NewInt(1))
	first, _ := s.UpdatedAt(key)
	if first != 1001 {
		t.Fatalf("UpdatedAt = %d, want 1001", first)
	}

	s.Store(key, object.NewInt(2))
	second, _ := s.UpdatedAt(key)
	if second != 1002 {
		t.Fatalf("UpdatedAt after re-store = %d, want 1002", second)
	}
}
