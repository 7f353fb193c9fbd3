package gluon

import (
	"errors"
	"reflect"

	"github.com/lucidj/go-gluon/debug"
	"github.com/lucidj/go-gluon/ir"
)

type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// encoder walks an object graph into a tree.  Values with identity are
// written once; later occurrences become references to the first.
type encoder struct {
	e    *Engine
	tree *ir.Tree
	seen map[identity]ir.NodeID
}

func (enc *encoder) instance(id ir.NodeID, path string) *Instance {
	return &Instance{tree: enc.tree, id: id, path: path, types: enc.e.types, enc: enc}
}

func (enc *encoder) put(slot ir.NodeID, v any, path string) error {
	t := enc.tree
	if isNil(v) {
		t.SetValue(slot, "null")
		return nil
	}
	key, hasID := identityOf(reflect.ValueOf(v))
	if hasID {
		if target, ok := enc.seen[key]; ok {
			ref := t.RefOf(target)
			if debug.Encode() {
				debug.Logf("marshal: %s refers to %d\n", path, ref)
			}
			t.SetReference(slot, ref)
			return nil
		}
		enc.seen[key] = slot
	}
	s, err := enc.e.serializerFor(v)
	if err != nil {
		return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	if err := s.Marshal(enc.instance(slot, path), v); err != nil {
		var me *MarshalError
		if errors.As(err, &me) {
			return err
		}
		return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	if !t.IsComplex(slot) {
		if hasID {
			delete(enc.seen, key)
		}
		return nil
	}
	if slot == t.Root() || (t.Parent(slot) == t.Root() && t.IsAnonymous(slot)) {
		return nil
	}
	if _, err := t.Embed(slot); err != nil {
		return &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func identityOf(rv reflect.Value) (identity, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	}
	return identity{}, false
}
