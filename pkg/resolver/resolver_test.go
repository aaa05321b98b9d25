package resolver

import (
	"testing"

	"crabdb/pkg/object"
	"crabdb/pkg/store"
)

func TestResolveIdempotentOnLinkFreeObjects(t *testing.T) {
	backing := store.NewMemStore(4)
	r := New(backing, nil)

	cases := []object.Object{
		object.Null,
		object.NewInt(7),
		object.NewText("hi"),
	}
	for _, o := range cases {
		got, err := r.Resolve(o, 10)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if string(got.Encode()) != string(o.Encode()) {
			t.Fatalf("Resolve(%v) = %v, want unchanged", o, got)
		}
	}
}

func TestResolveListOfLinks(t *testing.T) {
	backing := store.NewMemStore(4)
	backing.Store(object.Key("n"), object.NewInt(1))

	lb := object.NewListBuilder()
	lb.Add(object.NewLink(object.Key("n")))
	lb.Add(object.NewLink(object.Key("n")))
	list := lb.Build()

	r := New(backing, nil)
	got, err := r.Resolve(list, 1)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	view, ok := got.List()
	if !ok {
		t.Fatalf("expected List result")
	}
	if view.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", view.Len())
	}
	it := view.Iter()
	for i := 0; i < 2; i++ {
		elem, ok := it.Next()
		if !ok {
			t.Fatalf("expected element %d", i)
		}
		if v, ok := elem.AsInt(); !ok || v != 1 {
			t.Fatalf("element %d = %v, want Int(1)", i, elem)
		}
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	backing := store.NewMemStore(4)
	backing.Store(object.Key("a"), object.NewLink(object.Key("b")))
	backing.Store(object.Key("b"), object.NewLink(object.Key("a")))

	r := New(backing, nil)
	top, _ := backing.Retrieve(object.Key("a"))

	got, err := r.Resolve(top, 10)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Tag() != object.TagLink {
		t.Fatalf("expected outermost result to still be a Link, got %v", got.Tag())
	}
}

func TestResolveDepthBound(t *testing.T) {
	backing := store.NewMemStore(4)
	backing.Store(object.Key("leaf"), object.NewInt(99))
	backing.Store(object.Key("mid"), object.NewLink(object.Key("leaf")))
	backing.Store(object.Key("top"), object.NewLink(object.Key("mid")))

	r := New(backing, nil)
	top, _ := backing.Retrieve(object.Key("top"))

	// max_depth=0 means "do not resolve any link": top-level Link
	// passes through unchanged.
	got, err := r.Resolve(top, 0)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Tag() != object.TagLink {
		t.Fatalf("max_depth=0: expected Link passthrough, got %v", got.Tag())
	}

	// max_depth=1 resolves "top" -> "mid" but not "mid" -> "leaf".
	got, err = r.Resolve(top, 1)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Tag() != object.TagLink {
		t.Fatalf("max_depth=1: expected Link left unresolved at the bound, got %v", got.Tag())
	}

	// max_depth=2 resolves all the way to the Int leaf.
	got, err = r.Resolve(top, 2)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if v, ok := got.AsInt(); !ok || v != 99 {
		t.Fatalf("max_depth=2: got %v, want Int(99)", got)
	}
}

func TestResolveMissingLinkYieldsNull(t *testing.T) {
	backing := store.NewMemStore(4)
	r := New(backing, nil)

	link := object.NewLink(object.Key("absent"))
	got, err := r.Resolve(link, 5)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("expected Null for missing link target, got %v", got.Tag())
	}
}

func TestResolveMapPreservesFieldNamesAndOrder(t *testing.T) {
	backing := store.NewMemStore(4)
	backing.Store(object.Key("n"), object.NewInt(5))

	mb := object.NewMapBuilder()
	mb.AddField("first", object.NewText("plain"))
	mb.AddField("second", object.NewLink(object.Key("n")))
	m := mb.Build()

	r := New(backing, nil)
	got, err := r.Resolve(m, 1)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	view, ok := got.Map()
	if !ok {
		t.Fatalf("expected Map result")
	}
	it := view.Iter()
	name1, val1, _ := it.Next()
	if name1 != "first" {
		t.Fatalf("field 1 name = %q, want %q", name1, "first")
	}
	if s, _ := val1.Text(); s != "plain" {
		t.Fatalf("field 1 value = %q, want %q", s, "plain")
	}
	name2, val2, _ := it.Next()
	if name2 != "second" {
		t.Fatalf("field 2 name = %q, want %q", name2, "second")
	}
	if v, _ := val2.AsInt(); v != 5 {
		t.Fatalf("field 2 value = %d, want 5", v)
	}
}
