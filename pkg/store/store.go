// Package store implements crabdb's in-memory key-value storage: a
// sharded concurrent map adapted to a small Store contract that the
// append-only log in pkg/aol wraps for durability.
package store

import (
	"errors"

	"crabdb/pkg/object"
)

// ErrClosed reports an operation against a store that has been shut down.
// MemStore has no closed state and never returns it, and pkg/aol's
// operations after Close fail with the underlying file error instead.
var ErrClosed = errors.New("store: closed")

// Store is the contract both the in-memory store and the append-only log
// implement, so the log can wrap any backing store uniformly.
type Store interface {
	// Store inserts object under key, returning the prior object or
	// object.Null if key was absent.
	Store(key object.Key, obj object.Object) (object.Object, error)
	// Retrieve returns the object under key, or object.Null if absent.
	Retrieve(key object.Key) (object.Object, error)
	// Remove deletes key, returning the prior object or object.Null if
	// key was absent.
	Remove(key object.Key) (object.Object, error)
	// UpdatedAt returns the second-granularity timestamp of the last
	// Store under key, or 0 if absent.
	UpdatedAt(key object.Key) (int64, error)
}
