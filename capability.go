package gluon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/lucidj/go-gluon/token"
)

// Serializable is implemented by types that write and read their own
// properties.  DeserializeGluon is called on a freshly allocated value
// once every object it refers to has been allocated.
type Serializable interface {
	SerializeGluon(inst *Instance) error
	DeserializeGluon(inst *Instance) error
}

var serializableType = reflect.TypeFor[Serializable]()

func isSerializableType(typ reflect.Type) bool {
	if typ.Implements(serializableType) {
		return true
	}
	return typ.Kind() != reflect.Pointer && reflect.PointerTo(typ).Implements(serializableType)
}

type selfSerializer struct{}

func (selfSerializer) Marshal(inst *Instance, v any) error {
	inst.SetClass(inst.types.ClassName(reflect.TypeOf(v)))
	s, ok := v.(Serializable)
	if !ok {
		// value whose pointer is Serializable
		p := reflect.New(reflect.TypeOf(v))
		p.Elem().Set(reflect.ValueOf(v))
		s = p.Interface().(Serializable)
	}
	return s.SerializeGluon(inst)
}

func (selfSerializer) Unmarshal(inst *Instance) (any, error) {
	obj, ok := inst.tree.Object(inst.id)
	if !ok {
		typ := inst.Type()
		if typ == nil {
			return nil, &ClassNotFoundError{Ref: inst.Ref()}
		}
		obj = newObject(typ)
		inst.tree.SetObject(inst.id, obj)
	}
	s, ok := obj.(Serializable)
	if !ok {
		return nil, fmt.Errorf("%T is not serializable", obj)
	}
	if err := s.DeserializeGluon(inst); err != nil {
		return obj, err
	}
	return obj, nil
}

type nullSerializer struct{}

func (nullSerializer) Marshal(inst *Instance, _ any) error {
	inst.SetValue("null")
	return nil
}

func (nullSerializer) Unmarshal(*Instance) (any, error) {
	return nil, nil
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("gluon: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const opaqueLineLen = 76

// opaqueSerializer carries a registered class without a serializer as one
// content block of base64 encoded CBOR.
type opaqueSerializer struct{}

func (opaqueSerializer) Marshal(inst *Instance, v any) error {
	d, err := cborEncMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("opaque %T: %w", v, err)
	}
	inst.SetClass(inst.types.ClassName(reflect.TypeOf(v)))
	enc := base64.StdEncoding.EncodeToString(d)
	if inst.IsRoot() {
		inst.SetValue(token.Quote(enc))
		return nil
	}
	inst.SetValue(wrapLines(enc, opaqueLineLen))
	return nil
}

func (opaqueSerializer) Unmarshal(inst *Instance) (any, error) {
	typ := inst.Type()
	if typ == nil {
		return nil, &ClassNotFoundError{Ref: inst.Ref()}
	}
	rep, _ := inst.Value()
	if len(rep) > 0 && token.IsQuote(rep[0]) {
		s, err := token.Unquote(rep)
		if err != nil {
			return nil, err
		}
		rep = s
	}
	rep = strings.Join(strings.Fields(rep), "")
	d, err := base64.StdEncoding.DecodeString(rep)
	if err != nil {
		return nil, fmt.Errorf("opaque content: %w", err)
	}
	ptr := reflect.New(typ)
	if err := cbor.Unmarshal(d, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("opaque %s: %w", typ, err)
	}
	return ptr.Elem().Interface(), nil
}

func wrapLines(s string, n int) string {
	buf := bytes.NewBuffer(nil)
	for len(s) > n {
		buf.WriteString(s[:n])
		buf.WriteByte('\n')
		s = s[n:]
	}
	buf.WriteString(s)
	return buf.String()
}
