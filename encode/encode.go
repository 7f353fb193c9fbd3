package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lucidj/go-gluon/debug"
	"github.com/lucidj/go-gluon/ir"
	"github.com/lucidj/go-gluon/token"
)

var (
	ErrEncoding        = errors.New("encoding error")
	ErrContentBoundary = fmt.Errorf("%w: content contains the boundary", ErrEncoding)
	ErrMultiline       = fmt.Errorf("%w: multi-line property value", ErrEncoding)
)

type EncState struct {
	lineSep  string
	handler  string
	boundary string

	queue  []ir.NodeID
	queued map[ir.NodeID]bool

	Color func(ColorAttr, string) string
}

// Encode writes t to w.  Complex property values of t that are not yet
// embeddings are embedded, so t is modified.
func Encode(t *ir.Tree, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		lineSep: "\n",
		queued:  map[ir.NodeID]bool{},
	}
	for _, opt := range opts {
		opt(es)
	}
	buf := bytes.NewBuffer(nil)
	if err := encode(t, buf, es); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Boundary returns the boundary Encode uses for t: the Content-Boundary
// property when it is long enough, DefaultBoundary otherwise.
func Boundary(t *ir.Tree) string {
	rep, ok := t.Attr(t.Root(), ir.BoundaryKey)
	if !ok {
		return ir.DefaultBoundary
	}
	b := rep
	if len(rep) > 0 && token.IsQuote(rep[0]) {
		uq, err := token.Unquote(rep)
		if err != nil {
			return ir.DefaultBoundary
		}
		b = uq
	}
	if !ir.ValidBoundary(b) || strings.ContainsAny(b, "\r\n") {
		return ir.DefaultBoundary
	}
	return b
}

func encode(t *ir.Tree, w io.Writer, es *EncState) error {
	root := t.Root()
	es.boundary = Boundary(t)
	t.SetAttr(root, ir.BoundaryKey, token.Quote(es.boundary))

	if es.handler != "" {
		h := es.handler
		if !strings.HasPrefix(h, "#") {
			h = "# " + h
		}
		if err := writeLine(w, es, es.color(CommentColor, h)); err != nil {
			return err
		}
	}
	if err := es.embedProperties(t, root); err != nil {
		return err
	}
	if rep, ok := t.Value(root); ok {
		if err := es.writeProperty(w, ir.ValueKey, rep); err != nil {
			return err
		}
	}
	if err := es.writeProperties(t, w, root); err != nil {
		return err
	}
	if err := writeLine(w, es, ""); err != nil {
		return err
	}

	for _, obj := range t.Objects(root) {
		es.enqueue(obj)
	}
	for i := 0; i < len(es.queue); i++ {
		if err := es.writeObject(t, w, es.queue[i]); err != nil {
			return err
		}
	}
	return writeLine(w, es, es.color(BoundaryColor, es.boundary+ir.EOFMarker))
}

func (es *EncState) enqueue(id ir.NodeID) {
	if es.queued[id] {
		return
	}
	es.queued[id] = true
	es.queue = append(es.queue, id)
}

func (es *EncState) embed(t *ir.Tree, id ir.NodeID) error {
	path := t.Path(id)
	ref, err := t.Embed(id)
	if err != nil {
		return err
	}
	target, ok := t.Lookup(ref)
	if !ok {
		return fmt.Errorf("%w: lost embedding %d", ErrEncoding, ref)
	}
	if debug.Encode() {
		debug.Logf("encode: %s embedded as %d\n", path, ref)
	}
	if target != t.Root() {
		es.enqueue(target)
	}
	return nil
}

// embedProperties embeds every complex value held by a property of id or,
// for a non-root object, by its anonymous children.
func (es *EncState) embedProperties(t *ir.Tree, id ir.NodeID) error {
	for _, p := range t.Properties(id) {
		if t.IsComplex(p) {
			if err := es.embed(t, p); err != nil {
				return err
			}
			continue
		}
		for _, g := range t.Objects(p) {
			if t.IsComplex(g) {
				if err := es.embed(t, g); err != nil {
					return err
				}
			}
		}
	}
	if id == t.Root() {
		return nil
	}
	for _, o := range t.Objects(id) {
		if t.IsComplex(o) {
			if err := es.embed(t, o); err != nil {
				return err
			}
		}
	}
	return nil
}

func (es *EncState) writeObject(t *ir.Tree, w io.Writer, id ir.NodeID) error {
	if err := es.embedProperties(t, id); err != nil {
		return err
	}
	if err := writeLine(w, es, es.color(BoundaryColor, es.boundary)); err != nil {
		return err
	}
	if err := es.writeProperties(t, w, id); err != nil {
		return err
	}
	if items := t.Objects(id); len(items) > 0 {
		if err := es.writeProperty(w, ir.ItemsKey, es.groups(t, items)); err != nil {
			return err
		}
	}
	if err := writeLine(w, es, ""); err != nil {
		return err
	}
	rep, ok := t.Value(id)
	if !ok {
		return nil
	}
	for _, ln := range strings.Split(rep, "\n") {
		ln = strings.TrimSuffix(ln, "\r")
		if ln == es.boundary || ln == es.boundary+ir.EOFMarker {
			return fmt.Errorf("%w: %s", ErrContentBoundary, t.Path(id))
		}
		if err := writeLine(w, es, es.color(ContentColor, ln)); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) writeProperties(t *ir.Tree, w io.Writer, id ir.NodeID) error {
	for _, p := range t.Properties(id) {
		var groups string
		if items := t.Objects(p); len(items) > 0 {
			groups = es.groups(t, items)
		} else {
			groups = es.group(t, p)
		}
		if err := es.writeProperty(w, t.Name(p), groups); err != nil {
			return fmt.Errorf("%w at %s", err, t.Path(p))
		}
	}
	return nil
}

func (es *EncState) writeProperty(w io.Writer, name, groups string) error {
	if strings.ContainsAny(groups, "\r\n") {
		return ErrMultiline
	}
	ln := es.color(FieldColor, name) + es.color(SepColor, ":") + " " + groups
	return writeLine(w, es, ln)
}

func (es *EncState) groups(t *ir.Tree, ids []ir.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = es.group(t, id)
	}
	return strings.Join(parts, es.color(SepColor, ",")+" ")
}

// group renders the value and attributes of id as `value; a=b; flag`.
func (es *EncState) group(t *ir.Tree, id ir.NodeID) string {
	var parts []string
	if rep, ok := t.Value(id); ok {
		parts = append(parts, es.color(ValueColor, rep))
	}
	for _, a := range t.Properties(id) {
		name := t.Name(a)
		v, ok := t.Value(a)
		if !ok || v == name || v == "true" {
			parts = append(parts, es.color(AttrColor, name))
			continue
		}
		parts = append(parts, es.color(AttrColor, name+"="+v))
	}
	if len(parts) == 0 {
		return es.color(ValueColor, "null")
	}
	return strings.Join(parts, es.color(SepColor, ";")+" ")
}

func (es *EncState) color(a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(a, s)
}

func writeLine(w io.Writer, es *EncState, s string) error {
	_, err := io.WriteString(w, s+es.lineSep)
	return err
}
