package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lucidj/go-gluon/token"
)

// NodeID addresses a node within its Tree.
type NodeID int

const NoNode NodeID = -1

// reserved property and attribute names
const (
	ClassKey    = "Object-Class"
	BoundaryKey = "Content-Boundary"
	ItemsKey    = "Object-Items"
	ValueKey    = "Object-Value"

	IDAttr       = "id"
	RefIDAttr    = "refid"
	EmbeddedAttr = "embedded"

	RootRef = 0
)

type node struct {
	name     string
	value    string
	hasValue bool
	parent   NodeID

	props []NodeID
	index map[string]NodeID
	items []NodeID

	object    any
	hasObject bool
}

// Tree is an arena of instance nodes rooted at NodeID 0.
type Tree struct {
	nodes []node

	nextRef  int
	refs     map[int]NodeID
	refOf    map[NodeID]int
	embedded map[NodeID]bool
}

func New() *Tree {
	return &Tree{
		nodes:    []node{{parent: NoNode}},
		nextRef:  1,
		refs:     map[int]NodeID{},
		refOf:    map[NodeID]int{},
		embedded: map[NodeID]bool{},
	}
}

func (t *Tree) Root() NodeID { return 0 }

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

func (t *Tree) alloc(parent NodeID, name string) NodeID {
	t.nodes = append(t.nodes, node{name: name, parent: parent})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) Name(id NodeID) string { return t.nodes[id].name }

func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// IsAnonymous reports whether id is an unnamed list element.
func (t *Tree) IsAnonymous(id NodeID) bool {
	return id != t.Root() && t.nodes[id].name == ""
}

// SetProperty creates the named child of parent.  An existing child with
// the same name is replaced in place, keeping its position.
func (t *Tree) SetProperty(parent NodeID, name string) NodeID {
	id := t.alloc(parent, name)
	p := &t.nodes[parent]
	if p.index == nil {
		p.index = map[string]NodeID{}
	}
	if old, ok := p.index[name]; ok {
		i := slices.Index(p.props, old)
		p.props[i] = id
		t.nodes[old].parent = NoNode
	} else {
		p.props = append(p.props, id)
	}
	p.index[name] = id
	return id
}

func (t *Tree) Property(parent NodeID, name string) (NodeID, bool) {
	id, ok := t.nodes[parent].index[name]
	return id, ok
}

func (t *Tree) RemoveProperty(parent NodeID, name string) bool {
	p := &t.nodes[parent]
	id, ok := p.index[name]
	if !ok {
		return false
	}
	delete(p.index, name)
	p.props = slices.DeleteFunc(p.props, func(x NodeID) bool { return x == id })
	t.nodes[id].parent = NoNode
	return true
}

// Properties returns the named children of id in insertion order.
func (t *Tree) Properties(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].props)
}

// AddObject appends an anonymous child to parent.
func (t *Tree) AddObject(parent NodeID) NodeID {
	id := t.alloc(parent, "")
	t.nodes[parent].items = append(t.nodes[parent].items, id)
	return id
}

// Objects returns the anonymous children of id in insertion order.
func (t *Tree) Objects(id NodeID) []NodeID {
	return slices.Clone(t.nodes[id].items)
}

func (t *Tree) SetValue(id NodeID, rep string) {
	n := &t.nodes[id]
	n.value = rep
	n.hasValue = true
}

func (t *Tree) ClearValue(id NodeID) {
	n := &t.nodes[id]
	n.value = ""
	n.hasValue = false
}

func (t *Tree) Value(id NodeID) (string, bool) {
	n := &t.nodes[id]
	return n.value, n.hasValue
}

func (t *Tree) SetAttr(id NodeID, name, value string) NodeID {
	a := t.SetProperty(id, name)
	t.SetValue(a, value)
	return a
}

func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	a, ok := t.Property(id, name)
	if !ok {
		return "", false
	}
	v, _ := t.Value(a)
	return v, true
}

// flag reports a boolean shorthand attribute, either `name` or `name=true`.
func (t *Tree) flag(id NodeID, name string) bool {
	v, ok := t.Attr(id, name)
	return ok && (v == "true" || v == name)
}

func (t *Tree) intAttr(id NodeID, name string) (int, bool) {
	v, ok := t.Attr(id, name)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// SetClass sets the Object-Class of id, keeping any reference attributes
// already assigned to the node.
func (t *Tree) SetClass(id NodeID, class string) {
	c := t.SetAttr(id, ClassKey, token.Quote(class))
	if ref, ok := t.refOf[id]; ok {
		t.SetAttr(c, IDAttr, strconv.Itoa(ref))
	}
	if t.embedded[id] {
		t.SetAttr(c, EmbeddedAttr, "true")
	}
}

func (t *Tree) Class(id NodeID) (string, bool) {
	c, ok := t.Property(id, ClassKey)
	if !ok {
		return "", false
	}
	rep, _ := t.Value(c)
	if len(rep) > 0 && (rep[0] == '"' || rep[0] == '\'') {
		if s, err := token.Unquote(rep); err == nil {
			return s, true
		}
	}
	return rep, true
}

func (t *Tree) IsComplex(id NodeID) bool {
	_, ok := t.Property(id, ClassKey)
	return ok
}

// IsReference reports whether id is an embedding placeholder.
func (t *Tree) IsReference(id NodeID) bool {
	_, ok := t.RefID(id)
	return ok
}

// RefID returns the reference id named by the placeholder id.  The root
// and complex nodes are never placeholders, whatever their properties.
func (t *Tree) RefID(id NodeID) (int, bool) {
	if id == t.Root() || t.IsComplex(id) || !t.flag(id, EmbeddedAttr) {
		return 0, false
	}
	return t.intAttr(id, RefIDAttr)
}

// SetReference turns id into a placeholder for ref.
func (t *Tree) SetReference(id NodeID, ref int) {
	n := &t.nodes[id]
	for _, c := range n.props {
		t.nodes[c].parent = NoNode
	}
	for _, c := range n.items {
		t.nodes[c].parent = NoNode
	}
	n.props, n.items, n.index = nil, nil, nil
	n.value, n.hasValue = "", false
	n.object, n.hasObject = nil, false
	t.SetAttr(id, EmbeddedAttr, "true")
	t.SetAttr(id, RefIDAttr, strconv.Itoa(ref))
}

// RefOf returns the reference id of id, assigning the next one from the
// tree's counter on first use.  The root is always RootRef.
func (t *Tree) RefOf(id NodeID) int {
	if id == t.Root() {
		return RootRef
	}
	if ref, ok := t.refOf[id]; ok {
		return ref
	}
	ref := t.nextRef
	t.nextRef++
	t.refOf[id] = ref
	t.refs[ref] = id
	if c, ok := t.Property(id, ClassKey); ok {
		t.SetAttr(c, IDAttr, strconv.Itoa(ref))
	}
	return ref
}

// Ref returns the reference id assigned to id, if any.
func (t *Tree) Ref(id NodeID) (int, bool) {
	ref, ok := t.refOf[id]
	return ref, ok
}

// Embed transmogrifies the complex node id into an embedding: the node is
// moved to the root's anonymous children and its slot is taken by a
// placeholder referencing it.  Embedding an embedding returns its
// reference id unchanged.
func (t *Tree) Embed(id NodeID) (int, error) {
	if id == t.Root() {
		return 0, ErrRootEmbed
	}
	if !t.IsComplex(id) {
		return 0, fmt.Errorf("%w: %s", ErrNotComplex, t.Path(id))
	}
	if t.embedded[id] {
		return t.refOf[id], nil
	}
	parent := t.nodes[id].parent
	if parent == NoNode {
		return 0, fmt.Errorf("%w: embedding detached node %d", errInternal, id)
	}
	if parent == t.Root() && t.nodes[id].name == "" {
		// already a top level object
		return t.RefOf(id), nil
	}
	ref := t.RefOf(id)
	name := t.nodes[id].name
	ph := t.alloc(parent, name)
	p := &t.nodes[parent]
	if name != "" {
		p.props[slices.Index(p.props, id)] = ph
		p.index[name] = ph
	} else {
		p.items[slices.Index(p.items, id)] = ph
	}
	t.SetReference(ph, ref)

	n := &t.nodes[id]
	n.parent = t.Root()
	n.name = ""
	t.nodes[t.Root()].items = append(t.nodes[t.Root()].items, id)
	t.embedded[id] = true
	c, _ := t.Property(id, ClassKey)
	t.SetAttr(c, EmbeddedAttr, "true")
	return ref, nil
}

func (t *Tree) IsEmbedding(id NodeID) bool {
	return t.embedded[id]
}

// Lookup finds the node named by ref in the root namespace.
func (t *Tree) Lookup(ref int) (NodeID, bool) {
	if ref == RootRef {
		return t.Root(), true
	}
	id, ok := t.refs[ref]
	return id, ok
}

// Register records that the top level object id carries reference id ref.
func (t *Tree) Register(ref int, id NodeID, embedded bool) error {
	if ref <= RootRef {
		return fmt.Errorf("%w: %d", ErrBadRef, ref)
	}
	if other, ok := t.refs[ref]; ok && other != id {
		return fmt.Errorf("%w: %d", ErrDuplicateRef, ref)
	}
	t.refs[ref] = id
	t.refOf[id] = ref
	if ref >= t.nextRef {
		t.nextRef = ref + 1
	}
	if embedded {
		t.embedded[id] = true
	}
	return nil
}

// Reindex registers every top level object whose Object-Class carries an
// id attribute.
func (t *Tree) Reindex() error {
	for _, id := range t.nodes[t.Root()].items {
		c, ok := t.Property(id, ClassKey)
		if !ok {
			continue
		}
		ref, ok := t.intAttr(c, IDAttr)
		if !ok {
			continue
		}
		if err := t.Register(ref, id, t.flag(c, EmbeddedAttr)); err != nil {
			return err
		}
	}
	return nil
}

// Sequential returns the top level objects that are not embeddings.
func (t *Tree) Sequential() []NodeID {
	var res []NodeID
	for _, id := range t.nodes[t.Root()].items {
		if !t.embedded[id] {
			res = append(res, id)
		}
	}
	return res
}

func (t *Tree) SetObject(id NodeID, v any) {
	n := &t.nodes[id]
	n.object = v
	n.hasObject = true
}

func (t *Tree) Object(id NodeID) (any, bool) {
	n := &t.nodes[id]
	return n.object, n.hasObject
}

// ResolveObject returns the backing object of id.  For a placeholder it is
// the backing object of the referenced embedding, which is then cached on
// the placeholder.  Repeated calls return the same object.
func (t *Tree) ResolveObject(id NodeID) (any, bool) {
	if v, ok := t.Object(id); ok {
		return v, true
	}
	ref, ok := t.RefID(id)
	if !ok {
		return nil, false
	}
	target, ok := t.Lookup(ref)
	if !ok {
		return nil, false
	}
	v, ok := t.Object(target)
	if !ok {
		return nil, false
	}
	t.SetObject(id, v)
	return v, true
}

func (t *Tree) ObjectRef(id NodeID) ObjectRef {
	class, _ := t.Class(id)
	ref, _ := t.Ref(id)
	return ObjectRef{Class: class, ID: ref}
}

// Path returns a path such as `$.head[1].next` for error reporting.
func (t *Tree) Path(id NodeID) string {
	var parts []string
	for id != t.Root() && id != NoNode {
		n := &t.nodes[id]
		if n.name != "" {
			parts = append(parts, "."+n.name)
		} else if n.parent != NoNode {
			parts = append(parts, "["+strconv.Itoa(slices.Index(t.nodes[n.parent].items, id))+"]")
		}
		id = n.parent
	}
	slices.Reverse(parts)
	return "$" + strings.Join(parts, "")
}

// Adopt detaches id from its current slot and appends it to the anonymous
// children of parent.
func (t *Tree) Adopt(parent, id NodeID) {
	if old := t.nodes[id].parent; old != NoNode {
		p := &t.nodes[old]
		if name := t.nodes[id].name; name != "" && p.index[name] == id {
			delete(p.index, name)
			p.props = slices.DeleteFunc(p.props, func(x NodeID) bool { return x == id })
		} else {
			p.items = slices.DeleteFunc(p.items, func(x NodeID) bool { return x == id })
		}
	}
	n := &t.nodes[id]
	n.name = ""
	n.parent = parent
	t.nodes[parent].items = append(t.nodes[parent].items, id)
}
