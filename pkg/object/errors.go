// Package object implements crabdb's closed object model and binary codec:
// Null, Int, Text, List, Map, and Link values, plus the Key type they are
// stored under.
package object

import "errors"

// Errors returned while decoding keys and objects off the wire or the AOL.
var (
	// ErrIncomplete means the buffer ended before a value could be fully
	// decoded. Callers treat this as "need more bytes", never as a
	// length-overflow panic.
	ErrIncomplete = errors.New("object: incomplete data")
	// ErrMalformedData means the bytes present are structurally wrong for
	// their declared type (bad UTF-8 in a Text payload or a Map field
	// name).
	ErrMalformedData = errors.New("object: malformed data")
	// ErrUnknownType means the tag byte does not match any TypeTag.
	ErrUnknownType = errors.New("object: unknown type tag")
	// ErrEmptyKey means a Key or Link payload had a declared length of 0.
	ErrEmptyKey = errors.New("object: key must not be empty")
	// ErrKeyTooLong means a Key exceeds MaxKeyLen bytes.
	ErrKeyTooLong = errors.New("object: key exceeds maximum length")
)
