package object

// TypeTag is the one-byte discriminator written ahead of every Object's
// payload, both on the wire and in the append-only log.
type TypeTag byte

const (
	TagNull TypeTag = 0
	TagInt  TypeTag = 1
	TagText TypeTag = 2
	TagList TypeTag = 3
	TagMap  TypeTag = 4
	TagLink TypeTag = 5
)

func (t TypeTag) String() string {
	switch t {
	case TagNull:
		return "Null"
	case TagInt:
		return "Int"
	case TagText:
		return "Text"
	case TagList:
		return "List"
	case TagMap:
		return "Map"
	case TagLink:
		return "Link"
	default:
		return "Unknown"
	}
}

// Object is a tagged value from the closed type universe. The payload is
// opaque at this level; interpretation is delegated to the per-type views
// in int.go, text.go, list.go, map.go and link.go. Objects are cheap to
// copy: payload is a byte slice shared with whoever decoded or built it,
// never mutated in place after construction.
type Object struct {
	tag     TypeTag
	payload []byte
}

// Tag returns the object's type discriminator.
func (o Object) Tag() TypeTag {
	return o.tag
}

// Payload returns the object's raw, type-specific bytes (not including the
// tag byte). Callers must not mutate the returned slice.
func (o Object) Payload() []byte {
	return o.payload
}

// Clone returns a copy of o. Since the payload is never mutated in place,
// this simply shares the backing array — it exists so callers can express
// "I need my own Object" without reasoning about aliasing.
func (o Object) Clone() Object {
	return o
}

// Null is the singular Null object, returned by a successful GET of an
// absent key and usable as a payload-less placeholder value.
var Null = Object{tag: TagNull}

// IsNull reports whether o is the Null object.
func (o Object) IsNull() bool {
	return o.tag == TagNull
}

// Encode returns the wire/AOL representation of o: the tag byte followed
// by the payload.
func (o Object) Encode() []byte {
	out := make([]byte, 1+len(o.payload))
	out[0] = byte(o.tag)
	copy(out[1:], o.payload)
	return out
}

// Decode reads one Object off the front of b: a tag byte followed by a
// type-specific payload whose own length is self-describing. It returns
// the decoded Object and whatever bytes follow it.
//
// Decode never materializes a nested typed tree for List/Map payloads: the
// per-type validators below only need to know how many bytes their payload
// consumes, which they compute by recursively delegating and subtracting.
func Decode(b []byte) (Object, []byte, error) {
	if len(b) < 1 {
		return Object{}, nil, ErrIncomplete
	}
	tag := TypeTag(b[0])
	body := b[1:]

	var consumed []byte
	var rest []byte
	var err error

	switch tag {
	case TagNull:
		consumed, rest, err = validateNull(body)
	case TagInt:
		consumed, rest, err = validateInt(body)
	case TagText:
		consumed, rest, err = validateText(body)
	case TagList:
		consumed, rest, err = validateList(body)
	case TagMap:
		consumed, rest, err = validateMap(body)
	case TagLink:
		consumed, rest, err = validateLink(body)
	default:
		return Object{}, nil, ErrUnknownType
	}
	if err != nil {
		return Object{}, nil, err
	}

	return Object{tag: tag, payload: consumed}, rest, nil
}
