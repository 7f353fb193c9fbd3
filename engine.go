package gluon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/lucidj/go-gluon/encode"
	"github.com/lucidj/go-gluon/ir"
	"github.com/lucidj/go-gluon/parse"
	"github.com/lucidj/go-gluon/token"
)

// Engine serializes object graphs to the gluon text format and back.  An
// Engine may be used from several goroutines; each call works on its own
// tree.
type Engine struct {
	reg   *Registry
	types *TypeRegistry

	boundary  string
	handler   string
	maxPasses int
	log       *slog.Logger

	encOpts   []encode.EncodeOption
	parseOpts []parse.ParseOption
}

type Option func(*Engine)

// WithBoundary sets the boundary written between objects.  Boundaries
// shorter than ir.MinBoundaryLen are replaced by ir.DefaultBoundary.
func WithBoundary(b string) Option {
	return func(e *Engine) { e.boundary = b }
}

// WithHandler writes a handler identifier comment as the first line.
func WithHandler(h string) Option {
	return func(e *Engine) { e.handler = h }
}

// WithMaxPasses bounds the number of resolution passes.  Zero means no
// bound other than progress.
func WithMaxPasses(n int) Option {
	return func(e *Engine) { e.maxPasses = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRegistry shares a serializer registry between engines.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.reg = r }
}

func WithTypes(t *TypeRegistry) Option {
	return func(e *Engine) { e.types = t }
}

func WithEncodeOptions(opts ...encode.EncodeOption) Option {
	return func(e *Engine) { e.encOpts = append(e.encOpts, opts...) }
}

func WithParseOptions(opts ...parse.ParseOption) Option {
	return func(e *Engine) { e.parseOpts = append(e.parseOpts, opts...) }
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.reg == nil {
		e.reg = NewRegistry()
		registerSerializers(e.reg)
	}
	if e.types == nil {
		e.types = NewTypeRegistry()
		registerClasses(e.types)
	}
	return e
}

func (e *Engine) Registry() *Registry { return e.reg }

func (e *Engine) Types() *TypeRegistry { return e.types }

// Register binds class name to the type of proto and, when s is not nil,
// the type to s.
func (e *Engine) Register(name string, proto any, s Serializer) {
	e.types.Register(name, proto)
	if s != nil {
		e.reg.Register(reflect.TypeOf(proto), s)
	}
}

// Unbind removes the classes and serializers provided by owner.
func (e *Engine) Unbind(owner string) {
	e.types.Unbind(owner)
	e.reg.Unbind(owner)
}

func (e *Engine) serializerFor(v any) (Serializer, error) {
	s, err := e.reg.Resolve(v)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, ErrUnrepresentable) {
		if _, ok := e.types.NameOf(reflect.TypeOf(v)); ok {
			return opaqueSerializer{}, nil
		}
	}
	return nil, err
}

func (e *Engine) serializerForType(typ reflect.Type) Serializer {
	if s, ok := e.reg.ResolveType(typ); ok {
		return s
	}
	return opaqueSerializer{}
}

// ToTree builds the instance tree of v.
func (e *Engine) ToTree(v any) (*ir.Tree, error) {
	t := ir.New()
	if e.boundary != "" {
		t.SetAttr(t.Root(), ir.BoundaryKey, token.Quote(e.boundary))
	}
	enc := &encoder{e: e, tree: t, seen: map[identity]ir.NodeID{}}
	if err := enc.put(t.Root(), v, "$"); err != nil {
		return nil, err
	}
	return t, nil
}

// Serialize writes v to w.  Nothing is written when serialization fails.
func (e *Engine) Serialize(w io.Writer, v any) error {
	t, err := e.ToTree(v)
	if err != nil {
		return err
	}
	return encode.Encode(t, w, e.encodeOptions()...)
}

func (e *Engine) encodeOptions() []encode.EncodeOption {
	opts := []encode.EncodeOption{}
	if e.handler != "" {
		opts = append(opts, encode.EncodeHandler(e.handler))
	}
	return append(opts, e.encOpts...)
}

// Deserialize reads one document from r and resolves it.
func (e *Engine) Deserialize(r io.Reader) (any, error) {
	t, err := parse.Parse(r, e.parseOpts...)
	if err != nil {
		return nil, err
	}
	return e.FromTree(t)
}

// Marshal is Serialize into a byte slice.
func (e *Engine) Marshal(v any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := e.Serialize(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Engine) Unmarshal(d []byte) (any, error) {
	return e.Deserialize(bytes.NewReader(d))
}

// Marshal serializes v with a new Engine.
func Marshal(v any, opts ...Option) ([]byte, error) {
	return New(opts...).Marshal(v)
}

// Unmarshal deserializes d with a new Engine.  Only builtin classes and
// those registered through opts are known.
func Unmarshal(d []byte, opts ...Option) (any, error) {
	v, err := New(opts...).Unmarshal(d)
	if err != nil {
		return nil, fmt.Errorf("gluon: %w", err)
	}
	return v, nil
}
