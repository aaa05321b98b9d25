package object

import "encoding/binary"

const listCountBytes = 2

// ListView is a read-only view over a List object's payload. It exposes
// the declared element count and a lazy iterator; it does not materialize
// a slice of decoded Objects.
type ListView struct {
	count    uint16
	elements []byte
}

// List returns a view over a List object's elements. ok is false if o is
// not List.
func (o Object) List() (ListView, bool) {
	if o.tag != TagList {
		return ListView{}, false
	}
	count := binary.BigEndian.Uint16(o.payload)
	return ListView{count: count, elements: o.payload[listCountBytes:]}, true
}

// Len returns the declared element count.
func (v ListView) Len() int {
	return int(v.count)
}

// Iter returns a fresh iterator over v's elements, starting at the first.
func (v ListView) Iter() *ListIter {
	return &ListIter{remaining: v.count, cur: v.elements}
}

// ListIter lazily decodes one element per call to Next. Because the
// payload was already validated at construction (by validateList), Next
// never has to handle malformed bytes — only "no more elements".
type ListIter struct {
	remaining uint16
	cur       []byte
}

// Next returns the next element, or ok=false once the iterator is
// exhausted.
func (it *ListIter) Next() (obj Object, ok bool) {
	if it.remaining == 0 {
		return Object{}, false
	}
	obj, rest, err := Decode(it.cur)
	if err != nil {
		// Unreachable for a ListView built from a validated List object.
		return Object{}, false
	}
	it.cur = rest
	it.remaining--
	return obj, true
}

func validateList(body []byte) (consumed []byte, rest []byte, err error) {
	if len(body) < listCountBytes {
		return nil, nil, ErrIncomplete
	}
	k := binary.BigEndian.Uint16(body)
	cur := body[listCountBytes:]
	for i := uint16(0); i < k; i++ {
		_, next, derr := Decode(cur)
		if derr != nil {
			return nil, nil, derr
		}
		cur = next
	}
	total := len(body) - len(cur)
	return body[:total], cur, nil
}

// ListBuilder incrementally assembles a List payload, patching the
// element count into the leading two bytes on Build rather than on every
// Add — the preferred path for the link resolver, which adds one element
// at a time while rewriting a composite.
type ListBuilder struct {
	count uint16
	body  []byte
}

// NewListBuilder returns an empty ListBuilder.
func NewListBuilder() *ListBuilder {
	return &ListBuilder{}
}

// Add appends obj as the next element.
func (b *ListBuilder) Add(obj Object) {
	b.body = append(b.body, obj.Encode()...)
	b.count++
}

// AddEncoded appends a pre-serialized tag+payload element without
// decoding it first.
func (b *ListBuilder) AddEncoded(encoded []byte) {
	b.body = append(b.body, encoded...)
	b.count++
}

// Build produces the finished List object.
func (b *ListBuilder) Build() Object {
	payload := make([]byte, listCountBytes+len(b.body))
	binary.BigEndian.PutUint16(payload, b.count)
	copy(payload[listCountBytes:], b.body)
	return Object{tag: TagList, payload: payload}
}
