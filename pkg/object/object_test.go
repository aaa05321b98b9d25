package object

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []Object{
		Null,
		NewInt(42),
		NewInt(-1),
		NewText(""),
		NewText("hello"),
		NewLink(Key("k")),
	}
	for _, o := range cases {
		b := o.Encode()
		got, rest, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%v) error: %v", b, err)
		}
		if len(rest) != 0 {
			t.Fatalf("Decode(%v) left rest %v, want none", b, rest)
		}
		if got.Encode() == nil || string(got.Encode()) != string(b) {
			t.Fatalf("round trip mismatch: got %v, want %v", got.Encode(), b)
		}
	}
}

func TestDecodeListRoundTrip(t *testing.T) {
	lb := NewListBuilder()
	lb.Add(NewInt(1))
	lb.Add(NewText("x"))
	lb.Add(NewLink(Key("k")))
	list := lb.Build()

	b := list.Encode()
	got, rest, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("leftover bytes: %v", rest)
	}

	view, ok := got.List()
	if !ok {
		t.Fatalf("expected List")
	}
	if view.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", view.Len())
	}
	it := view.Iter()
	first, ok := it.Next()
	if !ok {
		t.Fatalf("expected first element")
	}
	if v, _ := first.AsInt(); v != 1 {
		t.Fatalf("first element = %d, want 1", v)
	}
}

func TestDecodeMapRoundTrip(t *testing.T) {
	mb := NewMapBuilder()
	mb.AddField("a", NewInt(1))
	mb.AddField("b", NewText("hi"))
	m := mb.Build()

	got, rest, err := Decode(m.Encode())
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("leftover bytes: %v", rest)
	}

	view, ok := got.Map()
	if !ok {
		t.Fatalf("expected Map")
	}
	if view.NumFields() != 2 {
		t.Fatalf("NumFields() = %d, want 2", view.NumFields())
	}
	it := view.Iter()
	name, val, ok := it.Next()
	if !ok || name != "a" {
		t.Fatalf("first field name = %q, want %q", name, "a")
	}
	if v, _ := val.AsInt(); v != 1 {
		t.Fatalf("first field value = %d, want 1", v)
	}
}

func TestDecodeIncomplete(t *testing.T) {
	cases := [][]byte{
		{},
		{byte(TagInt)},
		{byte(TagInt), 0, 0, 0},
		{byte(TagText), 0, 5, 'h', 'i'},
		{byte(TagLink), 0, 3, 'a', 'b'},
	}
	for _, b := range cases {
		_, _, err := Decode(b)
		if err != ErrIncomplete {
			t.Fatalf("Decode(%v) = %v, want ErrIncomplete", b, err)
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, _, err := Decode([]byte{250})
	if err != ErrUnknownType {
		t.Fatalf("Decode = %v, want ErrUnknownType", err)
	}
}

func TestDecodeMalformedText(t *testing.T) {
	b := []byte{byte(TagText), 0, 1, 0xFF}
	_, _, err := Decode(b)
	if err != ErrMalformedData {
		t.Fatalf("Decode = %v, want ErrMalformedData", err)
	}
}

func TestDecodeEmptyLink(t *testing.T) {
	b := []byte{byte(TagLink), 0, 0}
	_, _, err := Decode(b)
	if err != ErrEmptyKey {
		t.Fatalf("Decode = %v, want ErrEmptyKey", err)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	b := append(NewInt(1).Encode(), 0xAA, 0xBB)
	obj, rest, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if v, _ := obj.AsInt(); v != 1 {
		t.Fatalf("value = %d, want 1", v)
	}
	if string(rest) != "\xaa\xbb" {
		t.Fatalf("rest = %v, want trailing bytes", rest)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	k, err := NewKey([]byte("some-key"))
	if err != nil {
		t.Fatalf("NewKey error: %v", err)
	}
	b := k.Encode()
	got, rest, err := DecodeKey(b)
	if err != nil {
		t.Fatalf("DecodeKey error: %v", err)
	}
	if got != k {
		t.Fatalf("got %q, want %q", got, k)
	}
	if len(rest) != 0 {
		t.Fatalf("leftover bytes: %v", rest)
	}
}

func TestKeyEmptyRejected(t *testing.T) {
	if _, err := NewKey(nil); err != ErrEmptyKey {
		t.Fatalf("NewKey(nil) = %v, want ErrEmptyKey", err)
	}
}
