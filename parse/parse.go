package parse

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/lucidj/go-gluon/debug"
	"github.com/lucidj/go-gluon/ir"
	"github.com/lucidj/go-gluon/token"
)

const defaultMaxLine = 16 << 20

type parser struct {
	sc   *bufio.Scanner
	line int
	opts parseOpts
}

// Parse reads one document from r.
func Parse(r io.Reader, opts ...ParseOption) (*ir.Tree, error) {
	p := &parser{opts: parseOpts{lineSep: "\n", maxLine: defaultMaxLine}}
	for _, opt := range opts {
		opt(&p.opts)
	}
	p.sc = bufio.NewScanner(r)
	p.sc.Buffer(make([]byte, 0, 4096), p.opts.maxLine)
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseBytes is Parse over an in memory document.
func ParseBytes(d []byte, opts ...ParseOption) (*ir.Tree, error) {
	return Parse(bytes.NewReader(d), opts...)
}

func (p *parser) errorf(err error, msg string) *Error {
	return &Error{Line: p.line, Msg: msg, Err: err}
}

func (p *parser) next() (string, bool, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", false, p.errorf(err, "read failed")
		}
		return "", false, nil
	}
	p.line++
	return strings.TrimSuffix(p.sc.Text(), "\r"), true, nil
}

func (p *parser) parse() (*ir.Tree, error) {
	t := ir.New()
	root := t.Root()
	if err := p.readProperties(t, root); err != nil {
		return nil, err
	}
	p.foldRootValue(t)

	line, ok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errorf(ErrUnexpectedEOF, "missing boundary")
	}
	if b, found := strings.CutSuffix(line, ir.EOFMarker); found && ir.ValidBoundary(b) {
		if debug.Parse() {
			debug.Logf("parse: properties only document, boundary %q\n", b)
		}
		return t, nil
	}
	if !ir.ValidBoundary(line) {
		return nil, p.errorf(ErrBoundary, "boundary "+token.Quote(line)+" is too short")
	}
	boundary := line
	final := boundary + ir.EOFMarker
	if debug.Parse() {
		debug.Logf("parse: boundary %q\n", boundary)
	}

	for done := false; !done; {
		obj := t.AddObject(root)
		if err := p.readProperties(t, obj); err != nil {
			return nil, err
		}
		var content []string
		for {
			line, ok, err := p.next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, p.errorf(ErrUnexpectedEOF, "missing final boundary")
			}
			if line == boundary {
				break
			}
			if line == final {
				done = true
				break
			}
			content = append(content, line)
		}
		if len(content) > 0 {
			t.SetValue(obj, strings.Join(content, p.opts.lineSep))
		}
		p.foldItems(t, obj)
	}
	if err := t.Reindex(); err != nil {
		return nil, p.errorf(err, "bad object id")
	}
	return t, nil
}

func (p *parser) readProperties(t *ir.Tree, id ir.NodeID) error {
	for {
		line, ok, err := p.next()
		if err != nil {
			return err
		}
		if !ok {
			return p.errorf(ErrUnexpectedEOF, "unterminated properties section")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		if trimmed[0] == '#' {
			continue
		}
		if err := p.readProperty(t, id, line); err != nil {
			return err
		}
	}
}

func (p *parser) readProperty(t *ir.Tree, id ir.NodeID, line string) error {
	name, rest, found := strings.Cut(line, ":")
	if !found {
		return p.errorf(ErrMissingColon, token.Quote(line))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return p.errorf(nil, "empty property name")
	}
	groups, err := token.Split(rest, ',')
	if err != nil {
		return p.errorf(err, "property "+name)
	}
	prop := t.SetProperty(id, name)
	if len(groups) == 1 {
		return p.readGroup(t, prop, groups[0])
	}
	for _, g := range groups {
		if err := p.readGroup(t, t.AddObject(prop), g); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readGroup(t *ir.Tree, id ir.NodeID, group string) error {
	parts, err := token.Split(group, ';')
	if err != nil {
		return p.errorf(err, "attributes "+token.Quote(group))
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		if isValue(part) {
			if _, has := t.Value(id); has {
				return p.errorf(nil, "second value "+token.Quote(part))
			}
			t.SetValue(id, part)
			continue
		}
		name, val, found := token.Cut(part, '=')
		if !found {
			t.SetAttr(id, part, part)
			continue
		}
		if name == "" {
			return p.errorf(nil, "empty attribute name in "+token.Quote(part))
		}
		t.SetAttr(id, name, val)
	}
	return nil
}

// isValue reports whether s starts a literal rather than an attribute.
func isValue(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	c := s[0]
	switch {
	case c >= '0' && c <= '9', token.IsQuote(c):
		return true
	case (c == '-' || c == '+') && len(s) > 1:
		return s[1] >= '0' && s[1] <= '9' || s[1] == '.'
	}
	return false
}

func (p *parser) foldRootValue(t *ir.Tree) {
	root := t.Root()
	v, ok := t.Property(root, ir.ValueKey)
	if !ok {
		return
	}
	if rep, has := t.Value(v); has {
		t.SetValue(root, rep)
	}
	t.RemoveProperty(root, ir.ValueKey)
}

// foldItems turns the Object-Items property of obj back into the anonymous
// children it was written from.
func (p *parser) foldItems(t *ir.Tree, obj ir.NodeID) {
	items, ok := t.Property(obj, ir.ItemsKey)
	if !ok {
		return
	}
	groups := t.Objects(items)
	if len(groups) == 0 {
		t.Adopt(obj, items)
		return
	}
	for _, g := range groups {
		t.Adopt(obj, g)
	}
	t.RemoveProperty(obj, ir.ItemsKey)
}
