package object

import (
	"encoding/binary"
	"unicode/utf8"
)

const textLenBytes = 2

// NewText builds a Text object wrapping s.
func NewText(s string) Object {
	payload := make([]byte, textLenBytes+len(s))
	binary.BigEndian.PutUint16(payload, uint16(len(s)))
	copy(payload[textLenBytes:], s)
	return Object{tag: TagText, payload: payload}
}

// Text returns the string view of a Text object. ok is false if o is not
// Text. The returned string shares the object's backing bytes.
func (o Object) Text() (s string, ok bool) {
	if o.tag != TagText {
		return "", false
	}
	n := binary.BigEndian.Uint16(o.payload)
	return string(o.payload[textLenBytes : textLenBytes+n]), true
}

func validateText(body []byte) (consumed []byte, rest []byte, err error) {
	if len(body) < textLenBytes {
		return nil, nil, ErrIncomplete
	}
	n := int(binary.BigEndian.Uint16(body))
	if len(body) < textLenBytes+n {
		return nil, nil, ErrIncomplete
	}
	s := body[textLenBytes : textLenBytes+n]
	if !utf8.Valid(s) {
		return nil, nil, ErrMalformedData
	}
	total := textLenBytes + n
	return body[:total], body[total:], nil
}
