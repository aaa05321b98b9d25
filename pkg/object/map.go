package object

import (
	"encoding/binary"
	"unicode/utf8"
)

const mapCountBytes = 2

// MapView is a read-only view over a Map object's payload: a declared
// field count and a lazy iterator over (name, value) pairs in
// as-serialized order.
type MapView struct {
	count  uint16
	fields []byte
}

// Map returns a view over a Map object's fields. ok is false if o is not
// Map.
func (o Object) Map() (MapView, bool) {
	if o.tag != TagMap {
		return MapView{}, false
	}
	count := binary.BigEndian.Uint16(o.payload)
	return MapView{count: count, fields: o.payload[mapCountBytes:]}, true
}

// NumFields returns the declared field count.
func (v MapView) NumFields() int {
	return int(v.count)
}

// Iter returns a fresh iterator over v's fields, starting at the first.
func (v MapView) Iter() *MapIter {
	return &MapIter{remaining: v.count, cur: v.fields}
}

// MapIter lazily decodes one field per call to Next.
type MapIter struct {
	remaining uint16
	cur       []byte
}

// Next returns the next field's name and value, or ok=false once the
// iterator is exhausted.
func (it *MapIter) Next() (name string, obj Object, ok bool) {
	if it.remaining == 0 {
		return "", Object{}, false
	}
	n := binary.BigEndian.Uint16(it.cur)
	nameBytes := it.cur[mapNameLenBytes : mapNameLenBytes+n]
	cur := it.cur[mapNameLenBytes+n:]
	obj, rest, err := Decode(cur)
	if err != nil {
		// Unreachable for a MapView built from a validated Map object.
		return "", Object{}, false
	}
	it.cur = rest
	it.remaining--
	return string(nameBytes), obj, true
}

const mapNameLenBytes = 2

func validateMap(body []byte) (consumed []byte, rest []byte, err error) {
	if len(body) < mapCountBytes {
		return nil, nil, ErrIncomplete
	}
	k := binary.BigEndian.Uint16(body)
	cur := body[mapCountBytes:]
	for i := uint16(0); i < k; i++ {
		if len(cur) < mapNameLenBytes {
			return nil, nil, ErrIncomplete
		}
		n := int(binary.BigEndian.Uint16(cur))
		cur = cur[mapNameLenBytes:]
		if len(cur) < n {
			return nil, nil, ErrIncomplete
		}
		name := cur[:n]
		if !utf8.Valid(name) {
			return nil, nil, ErrMalformedData
		}
		cur = cur[n:]
		_, next, derr := Decode(cur)
		if derr != nil {
			return nil, nil, derr
		}
		cur = next
	}
	total := len(body) - len(cur)
	return body[:total], cur, nil
}

// MapBuilder incrementally assembles a Map payload, patching the field
// count into the leading two bytes on Build.
type MapBuilder struct {
	count uint16
	body  []byte
}

// NewMapBuilder returns an empty MapBuilder.
func NewMapBuilder() *MapBuilder {
	return &MapBuilder{}
}

// AddField appends a (name, value) field, preserving the given name's
// exact bytes.
func (b *MapBuilder) AddField(name string, obj Object) {
	nameBytes := []byte(name)
	header := make([]byte, mapNameLenBytes)
	binary.BigEndian.PutUint16(header, uint16(len(nameBytes)))
	b.body = append(b.body, header...)
	b.body = append(b.body, nameBytes...)
	b.body = append(b.body, obj.Encode()...)
	b.count++
}

// Build produces the finished Map object.
func (b *MapBuilder) Build() Object {
	payload := make([]byte, mapCountBytes+len(b.body))
	binary.BigEndian.PutUint16(payload, b.count)
	copy(payload[mapCountBytes:], b.body)
	return Object{tag: TagMap, payload: payload}
}
