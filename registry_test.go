package gluon

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

type named struct{ s string }

func (n named) String() string { return n.s }

type tagged struct {
	Serializer
	tag string
}

func TestRegistryExact(t *testing.T) {
	r := NewRegistry()
	a := tagged{tag: "a"}
	b := tagged{tag: "b"}
	r.Register(reflect.TypeFor[int](), a)
	r.Register(reflect.TypeFor[int](), b)
	s, err := r.Resolve(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.(tagged).tag != "b" {
		t.Errorf("later registration did not replace: %v", s)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d", r.Len())
	}
}

func TestRegistrySupertypeSticky(t *testing.T) {
	r := NewRegistry()
	r.Provide("first", reflect.TypeFor[fmt.Stringer](), tagged{tag: "stringer"})
	s, err := r.Resolve(named{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if s.(tagged).tag != "stringer" {
		t.Fatalf("got %v", s)
	}
	r.Provide("second", reflect.TypeFor[any](), tagged{tag: "any"})
	s, _ = r.Resolve(named{"y"})
	if s.(tagged).tag != "stringer" {
		t.Errorf("memoized match not sticky: %v", s)
	}

	r.Unbind("first")
	s, err = r.Resolve(named{"z"})
	if err != nil {
		t.Fatal(err)
	}
	if s.(tagged).tag != "any" {
		t.Errorf("unbound serializer still resolved: %v", s)
	}
	r.Unbind("second")
	if _, err := r.Resolve(named{"w"}); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("expected unrepresentable, got %v", err)
	}
}

func TestRegistrySerializable(t *testing.T) {
	r := NewRegistry()
	s, err := r.Resolve(&node{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(selfSerializer); !ok {
		t.Errorf("Serializable not preferred: %T", s)
	}
	if s, _ := r.Resolve(vnode{}); s != (selfSerializer{}) {
		t.Errorf("value with Serializable pointer resolved to %T", s)
	}
	if s, ok := r.ResolveType(reflect.TypeFor[node]()); !ok || s != (selfSerializer{}) {
		t.Errorf("ResolveType(node) = %v, %v", s, ok)
	}
	if s, _ := r.Resolve(nil); s != (nullSerializer{}) {
		t.Errorf("Resolve(nil) = %T", s)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	registerSerializers(r)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("owner%d", i)
			for j := 0; j < 100; j++ {
				r.Provide(owner, reflect.TypeFor[fmt.Stringer](), tagged{tag: owner})
				if _, err := r.Resolve(j); err != nil {
					t.Error(err)
					return
				}
				// other owners may have replaced or unbound the entry
				_, _ = r.Resolve(named{})
				r.Unbind(owner)
			}
		}(i)
	}
	wg.Wait()
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	registerClasses(r)
	r.Provide("plugin", "test.node", &node{})
	r.Register("test.point", point{})

	if typ, ok := r.Lookup("test.node"); !ok || typ != reflect.TypeFor[*node]() {
		t.Errorf("Lookup(test.node) = %v, %v", typ, ok)
	}
	for _, typ := range []reflect.Type{reflect.TypeFor[*node](), reflect.TypeFor[node]()} {
		if name, ok := r.NameOf(typ); !ok || name != "test.node" {
			t.Errorf("NameOf(%s) = %q, %v", typ, name, ok)
		}
	}
	if name := r.ClassName(reflect.TypeFor[*point]()); name != "test.point" {
		t.Errorf("ClassName(*point) = %q", name)
	}
	if name := r.ClassName(reflect.TypeFor[*broken]()); name != "github.com/lucidj/go-gluon.broken" {
		t.Errorf("fallback class name = %q", name)
	}
	if name, _ := r.NameOf(reflect.TypeFor[[]any]()); name != ListClass {
		t.Errorf("list class = %q", name)
	}

	r.Unbind("plugin")
	if _, ok := r.Lookup("test.node"); ok {
		t.Errorf("unbound class still registered")
	}
	if _, ok := r.Lookup("test.point"); !ok {
		t.Errorf("unrelated class unbound")
	}
}

func TestEngineUnbind(t *testing.T) {
	e := New(WithLogger(quiet()))
	e.Types().Provide("plugin", "test.point", point{})
	if _, err := e.Marshal(point{1, 2}); err != nil {
		t.Fatal(err)
	}
	e.Unbind("plugin")
	if _, err := e.Marshal(point{1, 2}); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("expected unrepresentable after unbind, got %v", err)
	}
}
