package gluon

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/lucidj/go-gluon/ir"
)

var errPending = errors.New("reference not materialized")

// Instance is the view of one tree node handed to serializers.  While
// marshaling, the Set and Add methods record values on the node; while
// resolving, the getters return the materialized values of its
// properties and anonymous children.
type Instance struct {
	tree  *ir.Tree
	id    ir.NodeID
	path  string
	types *TypeRegistry
	enc   *encoder
}

func (in *Instance) Tree() *ir.Tree { return in.tree }
func (in *Instance) ID() ir.NodeID { return in.id }
func (in *Instance) Path() string { return in.path }
func (in *Instance) IsRoot() bool { return in.id == in.tree.Root() }
func (in *Instance) Ref() ir.ObjectRef { return in.tree.ObjectRef(in.id) }

func (in *Instance) ClassName() string {
	c, _ := in.tree.Class(in.id)
	return c
}

func (in *Instance) SetClass(name string) {
	in.tree.SetClass(in.id, name)
}

// Type returns the type registered for the instance's class.
func (in *Instance) Type() reflect.Type {
	c, ok := in.tree.Class(in.id)
	if !ok || in.types == nil {
		return nil
	}
	typ, _ := in.types.Lookup(c)
	return typ
}

func (in *Instance) Value() (string, bool) {
	return in.tree.Value(in.id)
}

func (in *Instance) SetValue(rep string) {
	in.tree.SetValue(in.id, rep)
}

// SetProperty records v under name.  Complex values are embedded.
func (in *Instance) SetProperty(name string, v any) error {
	if in.enc == nil {
		return ErrReadOnly
	}
	if err := checkName(name); err != nil {
		return &MarshalError{FieldPath: in.path, Message: err.Error(), Err: err}
	}
	return in.enc.put(in.tree.SetProperty(in.id, name), v, in.path+"."+name)
}

// SetPropertyAttr sets an attribute on the existing property name.
func (in *Instance) SetPropertyAttr(name, attr, value string) error {
	if in.enc == nil {
		return ErrReadOnly
	}
	p, ok := in.tree.Property(in.id, name)
	if !ok {
		return fmt.Errorf("no property %s at %s", name, in.path)
	}
	if err := checkName(attr); err != nil {
		return err
	}
	in.tree.SetAttr(p, attr, value)
	return nil
}

// AddObject appends v to the anonymous children.
func (in *Instance) AddObject(v any) error {
	if in.enc == nil {
		return ErrReadOnly
	}
	path := in.path + "[" + strconv.Itoa(len(in.tree.Objects(in.id))) + "]"
	return in.enc.put(in.tree.AddObject(in.id), v, path)
}

func (in *Instance) Has(name string) bool {
	_, ok := in.tree.Property(in.id, name)
	return ok
}

// PropertyNames returns the non reserved property names in order.
func (in *Instance) PropertyNames() []string {
	var res []string
	for _, p := range in.tree.Properties(in.id) {
		if name := in.tree.Name(p); !isReserved(name) {
			res = append(res, name)
		}
	}
	return res
}

// Property returns the value of property name: the referenced object for
// an embedding, a []any for a multi-group property, or the decoded
// literal.  A missing property is nil.
func (in *Instance) Property(name string) (any, error) {
	p, ok := in.tree.Property(in.id, name)
	if !ok {
		return nil, nil
	}
	v, err := valueOf(in.tree, p)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", in.path, name, err)
	}
	return v, nil
}

func (in *Instance) PropertyAttr(name, attr string) (string, bool) {
	p, ok := in.tree.Property(in.id, name)
	if !ok {
		return "", false
	}
	return in.tree.Attr(p, attr)
}

// Objects returns the anonymous children.  For the root these are the
// sequential top level objects.
func (in *Instance) Objects() ([]any, error) {
	var ids []ir.NodeID
	if in.IsRoot() {
		ids = in.tree.Sequential()
	} else {
		ids = in.tree.Objects(in.id)
	}
	var res []any
	for i, id := range ids {
		v, err := valueOf(in.tree, id)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", in.path, i, err)
		}
		res = append(res, v)
	}
	return res, nil
}

// PropertyAs returns property name as a T.  A missing or null property is
// the zero T.
func PropertyAs[T any](in *Instance, name string) (T, error) {
	var zero T
	v, err := in.Property(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s: %T is not %T", in.path, name, v, zero)
	}
	return t, nil
}

// valueOf materializes the node id: its backing object, the object of the
// embedding it refers to, its groups or its literal value.
func valueOf(t *ir.Tree, id ir.NodeID) (any, error) {
	if v, ok := t.ResolveObject(id); ok {
		return v, nil
	}
	if ref, ok := t.RefID(id); ok {
		return nil, fmt.Errorf("%w: refid %d", errPending, ref)
	}
	if t.IsComplex(id) {
		return nil, fmt.Errorf("%w: %s", errPending, t.ObjectRef(id))
	}
	if groups := t.Objects(id); len(groups) > 0 {
		res := make([]any, len(groups))
		for i, g := range groups {
			v, err := valueOf(t, g)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	}
	rep, _ := t.Value(id)
	return ParseLiteral(rep)
}
