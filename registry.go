package gluon

import (
	"fmt"
	"reflect"
	"sync"
)

// Serializer converts values of one type to and from instance nodes.
type Serializer interface {
	// Marshal records v on inst.
	Marshal(inst *Instance, v any) error
	// Unmarshal builds a value from inst.  It is called once every
	// reference inst makes has been materialized.
	Unmarshal(inst *Instance) (any, error)
}

type regEntry struct {
	typ   reflect.Type
	s     Serializer
	owner string
}

// Registry maps runtime types to serializers.  Lookups fall back from the
// exact type to the first registered type the value is assignable to, and
// remember the answer.
type Registry struct {
	mu      sync.RWMutex
	entries []regEntry
	exact   map[reflect.Type]int
	memo    map[reflect.Type]regEntry
}

func NewRegistry() *Registry {
	return &Registry{
		exact: map[reflect.Type]int{},
		memo:  map[reflect.Type]regEntry{},
	}
}

func (r *Registry) Register(typ reflect.Type, s Serializer) {
	r.Provide("", typ, s)
}

// Provide registers s for typ on behalf of owner.  A later registration
// for the same type replaces the earlier one.
func (r *Registry) Provide(owner string, typ reflect.Type, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := regEntry{typ: typ, s: s, owner: owner}
	if i, ok := r.exact[typ]; ok {
		r.entries[i] = e
	} else {
		r.exact[typ] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	for k, m := range r.memo {
		if m.typ == typ {
			delete(r.memo, k)
		}
	}
}

// Unbind removes every serializer provided by owner, including
// remembered lookups that led to them.
func (r *Registry) Unbind(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.owner != owner {
			kept = append(kept, e)
		}
	}
	clear(r.entries[len(kept):])
	r.entries = kept
	clear(r.exact)
	for i, e := range r.entries {
		r.exact[e.typ] = i
	}
	for k, m := range r.memo {
		if m.owner == owner {
			delete(r.memo, k)
		}
	}
}

// Resolve returns the serializer for v.  Values implementing Serializable,
// directly or through their pointer, serialize themselves.
func (r *Registry) Resolve(v any) (Serializer, error) {
	if v == nil {
		return nullSerializer{}, nil
	}
	typ := reflect.TypeOf(v)
	if isSerializableType(typ) {
		return selfSerializer{}, nil
	}
	s, ok := r.lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrepresentable, typ)
	}
	return s, nil
}

// ResolveType is Resolve for a type rather than a value.
func (r *Registry) ResolveType(typ reflect.Type) (Serializer, bool) {
	if isSerializableType(typ) {
		return selfSerializer{}, true
	}
	return r.lookup(typ)
}

func (r *Registry) lookup(typ reflect.Type) (Serializer, bool) {
	r.mu.RLock()
	if i, ok := r.exact[typ]; ok {
		s := r.entries[i].s
		r.mu.RUnlock()
		return s, true
	}
	if e, ok := r.memo[typ]; ok {
		r.mu.RUnlock()
		return e.s, true
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.memo[typ]; ok {
		return e.s, true
	}
	for _, e := range r.entries {
		if matches(typ, e.typ) {
			r.memo[typ] = e
			return e.s, true
		}
	}
	return nil, false
}

func matches(typ, target reflect.Type) bool {
	if target.Kind() == reflect.Interface {
		return typ.Implements(target)
	}
	return typ.AssignableTo(target)
}

// Len returns the number of registered serializers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
