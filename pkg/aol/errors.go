// Package aol implements crabdb's append-only log: a write-before-apply
// durability layer partitioned across a fixed number of files, each
// guarded by its own mutex, wrapping a backing store.Store.
package aol

import "errors"

var (
	// ErrCorrupt is returned by Open when a log file contains a
	// record that is neither fully framed nor a clean crash-mid-write
	// tail — a malformed body inside an otherwise complete frame.
	// Recovery refuses to proceed past it.
	ErrCorrupt = errors.New("aol: corrupt log record")
	// ErrUnknownOp is returned when a record's op byte is neither SET
	// nor DEL.
	ErrUnknownOp = errors.New("aol: unknown log operation")
)
