package object

import "encoding/binary"

// NewLink builds a Link object pointing at key. Its payload format is
// identical to a bare encoded Key: a 2-byte BE length prefix and the raw
// key bytes.
func NewLink(key Key) Object {
	return Object{tag: TagLink, payload: key.Encode()}
}

// Link returns the Key a Link object points to. ok is false if o is not
// Link.
func (o Object) Link() (key Key, ok bool) {
	if o.tag != TagLink {
		return "", false
	}
	n := binary.BigEndian.Uint16(o.payload)
	return Key(o.payload[keyLenBytes : keyLenBytes+n]), true
}

func validateLink(body []byte) (consumed []byte, rest []byte, err error) {
	if len(body) < keyLenBytes {
		return nil, nil, ErrIncomplete
	}
	n := int(binary.BigEndian.Uint16(body))
	if n == 0 {
		return nil, nil, ErrEmptyKey
	}
	total := keyLenBytes + n
	if len(body) < total {
		return nil, nil, ErrIncomplete
	}
	return body[:total], body[total:], nil
}
