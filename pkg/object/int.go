package object

import "encoding/binary"

const intPayloadLen = 8

// NewInt builds an Int object wrapping v.
func NewInt(v int64) Object {
	payload := make([]byte, intPayloadLen)
	binary.BigEndian.PutUint64(payload, uint64(v))
	return Object{tag: TagInt, payload: payload}
}

// AsInt returns the value of an Int object. ok is false if o is not Int.
func (o Object) AsInt() (v int64, ok bool) {
	if o.tag != TagInt {
		return 0, false
	}
	return int64(binary.BigEndian.Uint64(o.payload)), true
}

func validateInt(body []byte) (consumed []byte, rest []byte, err error) {
	if len(body) < intPayloadLen {
		return nil, nil, ErrIncomplete
	}
	return body[:intPayloadLen], body[intPayloadLen:], nil
}
