package gluon

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lucidj/go-gluon/debug"
	"github.com/lucidj/go-gluon/ir"
)

// decoder resolves the objects of a tree.  Serializable pointers are
// allocated up front so that references to them, including circular
// ones, are satisfied before they are filled.  Everything else is built
// once every object it refers to exists.
type decoder struct {
	e      *Engine
	tree   *ir.Tree
	filled map[ir.NodeID]bool
}

// FromTree resolves t into the value of its root.  Objects whose class is
// unknown or whose serializer fails are replaced by a *ClassNotFoundError
// or *ObjectError; structural failures fail the whole call.
func (e *Engine) FromTree(t *ir.Tree) (any, error) {
	d := &decoder{e: e, tree: t, filled: map[ir.NodeID]bool{}}
	pending := d.allocate()
	if err := d.resolve(pending); err != nil {
		return nil, err
	}
	v, ok := t.Object(t.Root())
	if !ok {
		return nil, &UnmarshalError{FieldPath: "$", Message: "root not materialized", Err: ErrUnresolvable}
	}
	return v, nil
}

func (d *decoder) instance(id ir.NodeID) *Instance {
	return &Instance{tree: d.tree, id: id, path: d.tree.Path(id), types: d.e.types}
}

// allocate returns the nodes to resolve: the root, then the complex top
// level objects, in document order.
func (d *decoder) allocate() []ir.NodeID {
	t := d.tree
	nodes := []ir.NodeID{t.Root()}
	for _, id := range t.Objects(t.Root()) {
		if t.IsComplex(id) {
			nodes = append(nodes, id)
		}
	}
	var pending []ir.NodeID
	for _, id := range nodes {
		if !t.IsComplex(id) {
			pending = append(pending, id)
			continue
		}
		class, _ := t.Class(id)
		typ, ok := d.e.types.Lookup(class)
		if !ok {
			cnf := &ClassNotFoundError{Ref: t.ObjectRef(id)}
			d.e.log.Warn("class not found", "class", class, "path", t.Path(id))
			t.SetObject(id, cnf)
			continue
		}
		if typ.Implements(serializableType) {
			t.SetObject(id, newObject(typ))
		}
		pending = append(pending, id)
	}
	return pending
}

func (d *decoder) resolve(pending []ir.NodeID) error {
	for pass := 1; len(pending) > 0; pass++ {
		if max := d.e.maxPasses; max > 0 && pass > max {
			return &UnmarshalError{
				Message: fmt.Sprintf("%d objects pending after %d passes", len(pending), max),
				Err:     ErrMaxPasses,
			}
		}
		var next []ir.NodeID
		for _, id := range pending {
			ready, err := d.ready(id)
			if err != nil {
				return err
			}
			if !ready {
				next = append(next, id)
				continue
			}
			if err := d.build(id); err != nil {
				return err
			}
		}
		if debug.Resolve() {
			debug.Logf("resolve: pass %d built %d, %d pending\n", pass, len(pending)-len(next), len(next))
		}
		d.e.log.Debug("resolve pass", "pass", pass, "built", len(pending)-len(next), "pending", len(next))
		if len(next) == len(pending) {
			refs := make([]string, len(next))
			for i, id := range next {
				refs[i] = d.describe(id)
			}
			return &UnmarshalError{
				FieldPath: d.tree.Path(next[0]),
				Message:   "no progress resolving " + strings.Join(refs, ", "),
				Err:       ErrUnresolvable,
			}
		}
		pending = next
	}
	return nil
}

func (d *decoder) describe(id ir.NodeID) string {
	if d.tree.IsComplex(id) {
		return d.tree.ObjectRef(id).String()
	}
	return d.tree.Path(id)
}

// ready reports whether every object id refers to has been allocated.
func (d *decoder) ready(id ir.NodeID) (bool, error) {
	t := d.tree
	var refs []int
	var walk func(ir.NodeID, bool)
	walk = func(n ir.NodeID, items bool) {
		for _, p := range t.Properties(n) {
			if ref, ok := t.RefID(p); ok {
				refs = append(refs, ref)
				continue
			}
			walk(p, true)
		}
		if !items {
			return
		}
		for _, o := range t.Objects(n) {
			if ref, ok := t.RefID(o); ok {
				refs = append(refs, ref)
				continue
			}
			walk(o, true)
		}
	}
	walk(id, id != t.Root())

	if id == t.Root() {
		for _, o := range t.Sequential() {
			if ref, ok := t.RefID(o); ok {
				refs = append(refs, ref)
				continue
			}
			if _, ok := t.Object(o); !ok && t.IsComplex(o) {
				return false, nil
			}
		}
	}
	for _, ref := range refs {
		target, ok := t.Lookup(ref)
		if !ok {
			return false, &UnmarshalError{
				FieldPath: t.Path(id),
				Message:   fmt.Sprintf("dangling reference %d", ref),
				Err:       ir.ErrBadRef,
			}
		}
		if _, ok := t.Object(target); !ok {
			return false, nil
		}
	}
	return true, nil
}

func (d *decoder) build(id ir.NodeID) error {
	t := d.tree
	inst := d.instance(id)
	if !t.IsComplex(id) {
		v, err := d.buildPlain(inst)
		if err != nil {
			return &UnmarshalError{FieldPath: inst.path, Message: err.Error(), Err: err}
		}
		t.SetObject(id, v)
		return nil
	}
	typ := inst.Type()
	s := d.e.serializerForType(typ)
	if _, ok := s.(selfSerializer); ok {
		if d.filled[id] {
			return nil
		}
		d.filled[id] = true
		obj, err := s.Unmarshal(inst)
		if err != nil {
			d.e.log.Warn("object not fully deserialized", "object", inst.Ref().String(), "path", inst.path, "error", err)
		}
		// values have no identity, so nothing holds the pointer yet
		if rv := reflect.ValueOf(obj); typ != nil && typ.Kind() != reflect.Pointer &&
			rv.Kind() == reflect.Pointer && rv.Type().Elem() == typ {
			t.SetObject(id, rv.Elem().Interface())
		}
		return nil
	}
	v, err := s.Unmarshal(inst)
	if err != nil {
		if errors.Is(err, errPending) {
			return &UnmarshalError{FieldPath: inst.path, Message: err.Error(), Err: err}
		}
		v = &ObjectError{Ref: inst.Ref(), Err: err}
		d.e.log.Warn("object failed", "object", inst.Ref().String(), "path", inst.path, "error", err)
	}
	t.SetObject(id, v)
	return nil
}

// buildPlain builds a root without a class: its literal value, the list of
// its sequential objects, or the map of its properties.
func (d *decoder) buildPlain(inst *Instance) (any, error) {
	if rep, ok := inst.Value(); ok {
		return ParseLiteral(rep)
	}
	if len(inst.PropertyNames()) == 0 && len(inst.tree.Sequential()) > 0 {
		return listSerializer{}.Unmarshal(inst)
	}
	return mapSerializer{}.Unmarshal(inst)
}
