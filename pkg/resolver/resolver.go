// Package resolver implements crabdb's link resolver: a bounded-depth,
// cycle-safe rewrite of composite objects that substitutes Link objects
// with the object they point to.
package resolver

import (
	"crabdb/pkg/metrics"
	"crabdb/pkg/object"
	"crabdb/pkg/store"
)

// MaxDepth is the largest resolution depth a caller may request, the
// width of the wire parameter that carries it.
const MaxDepth = 255

// Resolver resolves Link objects against a backing store.
type Resolver struct {
	storage store.Store
	metrics *metrics.Metrics
}

// New returns a Resolver reading from storage. m may be nil, in which
// case link resolutions are not counted.
func New(storage store.Store, m *metrics.Metrics) *Resolver {
	return &Resolver{storage: storage, metrics: m}
}

// Resolve rewrites obj, substituting any Link it contains (directly or
// nested inside List/Map) with the object it points to, up to maxDepth
// levels of indirection. Non-composite, non-Link objects pass through
// unchanged. A Link graph with cycles terminates safely: each distinct
// key is followed at most once along any single resolution path.
func (r *Resolver) Resolve(obj object.Object, maxDepth uint8) (object.Object, error) {
	visited := make(map[object.Key]struct{})
	return r.resolve(obj, 0, maxDepth, visited)
}

// resolve carries depth, the number of Links already followed on the
// current path, as a plain int (wider than the 8-bit maxDepth) so the
// depth+1 step below never wraps around at the boundary. Descending into a
// List element or Map value leaves depth unchanged; only following a Link
// increments it.
func (r *Resolver) resolve(obj object.Object, depth int, maxDepth uint8, visited map[object.Key]struct{}) (object.Object, error) {
	switch obj.Tag() {
	case object.TagNull, object.TagInt, object.TagText:
		return obj, nil
	}

	// A Link reached once maxDepth Links have been followed stays a Link.
	if obj.Tag() == object.TagLink && depth >= int(maxDepth) {
		return obj, nil
	}

	switch obj.Tag() {
	case object.TagList:
		return r.resolveList(obj, depth, maxDepth, visited)
	case object.TagMap:
		return r.resolveMap(obj, depth, maxDepth, visited)
	case object.TagLink:
		return r.resolveLink(obj, depth, maxDepth, visited)
	default:
		return obj, nil
	}
}

func (r *Resolver) resolveList(obj object.Object, depth int, maxDepth uint8, visited map[object.Key]struct{}) (object.Object, error) {
	view, ok := obj.List()
	if !ok {
		return obj, nil
	}
	b := object.NewListBuilder()
	it := view.Iter()
	for {
		elem, ok := it.Next()
		if !ok {
			break
		}
		resolved, err := r.resolve(elem, depth, maxDepth, visited)
		if err != nil {
			return object.Object{}, err
		}
		b.Add(resolved)
	}
	return b.Build(), nil
}

func (r *Resolver) resolveMap(obj object.Object, depth int, maxDepth uint8, visited map[object.Key]struct{}) (object.Object, error) {
	view, ok := obj.Map()
	if !ok {
		return obj, nil
	}
	b := object.NewMapBuilder()
	it := view.Iter()
	for {
		name, val, ok := it.Next()
		if !ok {
			break
		}
		resolved, err := r.resolve(val, depth, maxDepth, visited)
		if err != nil {
			return object.Object{}, err
		}
		b.AddField(name, resolved)
	}
	return b.Build(), nil
}

func (r *Resolver) resolveLink(obj object.Object, depth int, maxDepth uint8, visited map[object.Key]struct{}) (object.Object, error) {
	key, ok := obj.Link()
	if !ok {
		return obj, nil
	}
	if _, seen := visited[key]; seen {
		return obj, nil
	}
	fetched, err := r.storage.Retrieve(key)
	if err != nil {
		return object.Object{}, err
	}
	r.metrics.IncLinkResolutions()
	visited[key] = struct{}{}
	resolved, err := r.resolve(fetched, depth+1, maxDepth, visited)
	delete(visited, key)
	return resolved, err
}
