package gluon

import (
	"reflect"
	"sync"
)

// builtin class names
const (
	ListClass = "list"
	MapClass  = "map"
)

type typeEntry struct {
	typ   reflect.Type
	owner string
}

// TypeRegistry maps class names to the types instantiated for them.
type TypeRegistry struct {
	mu     sync.RWMutex
	byName map[string]typeEntry
	byType map[reflect.Type]string
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byName: map[string]typeEntry{},
		byType: map[reflect.Type]string{},
	}
}

// Register binds name to the type of proto.
func (r *TypeRegistry) Register(name string, proto any) {
	r.Provide("", name, proto)
}

func (r *TypeRegistry) Provide(owner, name string, proto any) {
	r.ProvideType(owner, name, reflect.TypeOf(proto))
}

func (r *TypeRegistry) ProvideType(owner, name string, typ reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byName[name]; ok && r.byType[old.typ] == name {
		delete(r.byType, old.typ)
	}
	r.byName[name] = typeEntry{typ: typ, owner: owner}
	r.byType[typ] = name
}

func (r *TypeRegistry) Unbind(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, e := range r.byName {
		if e.owner != owner {
			continue
		}
		delete(r.byName, name)
		if r.byType[e.typ] == name {
			delete(r.byType, e.typ)
		}
	}
}

func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e.typ, ok
}

// NameOf returns the class name registered for typ, or for the type typ
// points to.
func (r *TypeRegistry) NameOf(typ reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.byType[typ]; ok {
		return name, true
	}
	if typ.Kind() == reflect.Pointer {
		name, ok := r.byType[typ.Elem()]
		return name, ok
	}
	name, ok := r.byType[reflect.PointerTo(typ)]
	return name, ok
}

// ClassName is NameOf falling back to the package qualified type name.
func (r *TypeRegistry) ClassName(typ reflect.Type) string {
	if name, ok := r.NameOf(typ); ok {
		return name
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}

// newObject allocates the backing object for a class of type typ.
// Serializable types are always allocated behind a pointer.
func newObject(typ reflect.Type) any {
	if typ.Kind() == reflect.Pointer {
		return reflect.New(typ.Elem()).Interface()
	}
	if isSerializableType(typ) && !typ.Implements(serializableType) {
		return reflect.New(typ).Interface()
	}
	return reflect.New(typ).Elem().Interface()
}
