package object

import "encoding/binary"

// MaxKeyLen is the largest number of bytes a Key may carry, imposed by the
// 2-byte big-endian length prefix used on the wire and in the AOL.
const MaxKeyLen = 65535

// keyLenBytes is the width of the length prefix that precedes a Key on the
// wire and in the append-only log.
const keyLenBytes = 2

// Key identifies a stored Object. It is a non-empty byte sequence backed by
// a Go string, which makes it hashable and equatable for free (map keys,
// ==) and cheap to "clone" — a Go string copy shares the underlying array
// rather than duplicating bytes.
type Key string

// NewKey validates and wraps raw bytes as a Key.
func NewKey(b []byte) (Key, error) {
	if len(b) == 0 {
		return "", ErrEmptyKey
	}
	if len(b) > MaxKeyLen {
		return "", ErrKeyTooLong
	}
	return Key(b), nil
}

// Bytes returns the raw bytes of the key.
func (k Key) Bytes() []byte {
	return []byte(k)
}

// Encode writes the wire/AOL representation of k: a 2-byte big-endian
// length prefix followed by the raw key bytes.
func (k Key) Encode() []byte {
	out := make([]byte, keyLenBytes+len(k))
	binary.BigEndian.PutUint16(out, uint16(len(k)))
	copy(out[keyLenBytes:], k)
	return out
}

// DecodeKey reads a length-prefixed Key off the front of b and returns the
// Key plus whatever bytes follow it. It fails with ErrIncomplete if b is
// too short to contain the declared length, and ErrEmptyKey if the
// declared length is zero.
func DecodeKey(b []byte) (Key, []byte, error) {
	if len(b) < keyLenBytes {
		return "", nil, ErrIncomplete
	}
	n := int(binary.BigEndian.Uint16(b))
	if n == 0 {
		return "", nil, ErrEmptyKey
	}
	b = b[keyLenBytes:]
	if len(b) < n {
		return "", nil, ErrIncomplete
	}
	return Key(b[:n]), b[n:], nil
}
