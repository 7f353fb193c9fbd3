package gluon

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/lucidj/go-gluon/ir"
)

// BuiltinOwner owns the serializers and classes every Engine starts with.
const BuiltinOwner = "gluon"

func registerSerializers(r *Registry) {
	for _, proto := range []any{
		int(0), int64(0), int16(0), uint8(0), int32(0),
		float32(0), float64(0), false, "",
	} {
		r.Provide(BuiltinOwner, reflect.TypeOf(proto), scalarSerializer{})
	}
	r.Provide(BuiltinOwner, reflect.TypeFor[[]any](), listSerializer{})
	r.Provide(BuiltinOwner, reflect.TypeFor[map[string]any](), mapSerializer{})
}

func registerClasses(types *TypeRegistry) {
	types.Provide(BuiltinOwner, ListClass, []any(nil))
	types.Provide(BuiltinOwner, MapClass, map[string]any(nil))
}

type scalarSerializer struct{}

func (scalarSerializer) Marshal(inst *Instance, v any) error {
	rep, err := FormatLiteral(v)
	if err != nil {
		return err
	}
	inst.SetValue(rep)
	return nil
}

func (scalarSerializer) Unmarshal(inst *Instance) (any, error) {
	rep, _ := inst.Value()
	return ParseLiteral(rep)
}

type listSerializer struct{}

func (listSerializer) Marshal(inst *Instance, v any) error {
	inst.SetClass(ListClass)
	for _, x := range v.([]any) {
		if err := inst.AddObject(x); err != nil {
			return err
		}
	}
	return nil
}

func (listSerializer) Unmarshal(inst *Instance) (any, error) {
	items, err := inst.Objects()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []any{}
	}
	return items, nil
}

// mapSerializer writes a map as the properties of its instance, in key
// order.  The root map carries no class.
type mapSerializer struct{}

func (mapSerializer) Marshal(inst *Instance, v any) error {
	m := v.(map[string]any)
	if !inst.IsRoot() {
		inst.SetClass(MapClass)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := inst.SetProperty(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func (mapSerializer) Unmarshal(inst *Instance) (any, error) {
	m := map[string]any{}
	for _, name := range inst.PropertyNames() {
		v, err := inst.Property(name)
		if err != nil {
			return nil, err
		}
		m[name] = v
	}
	return m, nil
}

func isReserved(name string) bool {
	switch name {
	case ir.ClassKey, ir.BoundaryKey, ir.ItemsKey, ir.ValueKey:
		return true
	}
	return false
}

func checkName(name string) error {
	if isReserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedKey, name)
	}
	switch {
	case name == "",
		name != strings.TrimSpace(name),
		strings.ContainsAny(name, ":\r\n"),
		name[0] == '#':
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}
