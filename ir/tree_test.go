package ir

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(t *Tree, ids []NodeID) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = t.Name(id)
	}
	return res
}

func TestSetPropertyReplacesInPlace(t *testing.T) {
	tree := New()
	root := tree.Root()
	a := tree.SetProperty(root, "a")
	tree.SetValue(a, "1")
	tree.SetAttr(root, "b", "2")
	a2 := tree.SetProperty(root, "a")
	tree.SetValue(a2, "3")

	if diff := cmp.Diff([]string{"a", "b"}, names(tree, tree.Properties(root))); diff != "" {
		t.Errorf("property order (-want +got):\n%s", diff)
	}
	got, ok := tree.Property(root, "a")
	if !ok || got != a2 {
		t.Fatalf("Property(a) = %d, %v; want %d", got, ok, a2)
	}
	if v, _ := tree.Value(got); v != "3" {
		t.Errorf("value = %q, want 3", v)
	}
	if tree.Parent(a) != NoNode {
		t.Errorf("replaced node still attached")
	}
}

func TestEmbedTransmogrifies(t *testing.T) {
	tree := New()
	root := tree.Root()
	head := tree.SetProperty(root, "head")
	tree.SetClass(head, "example.Node")
	tree.SetAttr(head, "name", `"a"`)

	ref, err := tree.Embed(head)
	if err != nil {
		t.Fatal(err)
	}
	if ref != 1 {
		t.Errorf("first ref = %d, want 1", ref)
	}
	ph, _ := tree.Property(root, "head")
	if ph == head {
		t.Fatal("slot was not replaced by a placeholder")
	}
	if !tree.IsReference(ph) {
		t.Fatal("placeholder is not a reference")
	}
	if got, _ := tree.RefID(ph); got != ref {
		t.Errorf("placeholder refid = %d, want %d", got, ref)
	}
	if tree.Parent(head) != root || !tree.IsAnonymous(head) {
		t.Errorf("embedding not relocated to the root")
	}
	if diff := cmp.Diff([]NodeID{head}, tree.Objects(root)); diff != "" {
		t.Errorf("root objects (-want +got):\n%s", diff)
	}
	c, _ := tree.Property(head, ClassKey)
	if v, _ := tree.Attr(c, IDAttr); v != "1" {
		t.Errorf("class id attr = %q", v)
	}
	if !tree.IsEmbedding(head) || len(tree.Sequential()) != 0 {
		t.Errorf("embedding counted as sequential")
	}
	again, err := tree.Embed(head)
	if err != nil || again != ref {
		t.Errorf("re-embed = %d, %v", again, err)
	}
	if id, ok := tree.Lookup(ref); !ok || id != head {
		t.Errorf("Lookup(%d) = %d, %v", ref, id, ok)
	}
}

func TestEmbedListElement(t *testing.T) {
	tree := New()
	list := tree.SetProperty(tree.Root(), "xs")
	tree.SetClass(list, "list")
	elt := tree.AddObject(list)
	tree.SetClass(elt, "example.Node")
	if _, err := tree.Embed(elt); err != nil {
		t.Fatal(err)
	}
	items := tree.Objects(list)
	if len(items) != 1 || items[0] == elt || !tree.IsReference(items[0]) {
		t.Errorf("list element not replaced by placeholder: %v", items)
	}
}

func TestEmbedErrors(t *testing.T) {
	tree := New()
	if _, err := tree.Embed(tree.Root()); !errors.Is(err, ErrRootEmbed) {
		t.Errorf("embed root: %v", err)
	}
	p := tree.SetAttr(tree.Root(), "x", "1")
	if _, err := tree.Embed(p); !errors.Is(err, ErrNotComplex) {
		t.Errorf("embed primitive: %v", err)
	}
}

func TestRefIDsIncrease(t *testing.T) {
	tree := New()
	seen := map[int]bool{}
	last := 0
	for i := 0; i < 10; i++ {
		p := tree.SetProperty(tree.Root(), string(rune('a'+i)))
		tree.SetClass(p, "c")
		ref, err := tree.Embed(p)
		if err != nil {
			t.Fatal(err)
		}
		if seen[ref] || ref <= last {
			t.Fatalf("ref %d after %d", ref, last)
		}
		seen[ref] = true
		last = ref
	}
	if tree.RefOf(tree.Root()) != RootRef {
		t.Errorf("root ref is not RootRef")
	}
}

func TestResolveObjectIdempotent(t *testing.T) {
	tree := New()
	p := tree.SetProperty(tree.Root(), "p")
	tree.SetClass(p, "c")
	ref, _ := tree.Embed(p)
	ph, _ := tree.Property(tree.Root(), "p")

	if _, ok := tree.ResolveObject(ph); ok {
		t.Fatal("resolved before materialization")
	}
	obj := &struct{ N int }{N: 1}
	tree.SetObject(p, obj)
	v1, ok1 := tree.ResolveObject(ph)
	v2, ok2 := tree.ResolveObject(ph)
	if !ok1 || !ok2 || v1 != any(obj) || v2 != any(obj) {
		t.Errorf("ResolveObject = %v/%v, %v/%v", v1, ok1, v2, ok2)
	}
	if target, _ := tree.Lookup(ref); target != p {
		t.Errorf("lookup mismatch")
	}
}

func TestComplexNodeIsNotReference(t *testing.T) {
	tree := New()
	obj := tree.AddObject(tree.Root())
	tree.SetAttr(obj, EmbeddedAttr, "true")
	tree.SetAttr(obj, RefIDAttr, "7")
	if ref, ok := tree.RefID(obj); !ok || ref != 7 {
		t.Fatalf("placeholder RefID = %d, %v", ref, ok)
	}
	tree.SetClass(obj, "map")
	if tree.IsReference(obj) {
		t.Errorf("complex node read as placeholder")
	}
	if _, ok := tree.RefID(obj); ok {
		t.Errorf("complex node has a refid")
	}

	root := tree.Root()
	tree.SetAttr(root, EmbeddedAttr, "true")
	tree.SetAttr(root, RefIDAttr, "3")
	if tree.IsReference(root) {
		t.Errorf("root read as placeholder")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	tree := New()
	a := tree.AddObject(tree.Root())
	b := tree.AddObject(tree.Root())
	if err := tree.Register(4, a, true); err != nil {
		t.Fatal(err)
	}
	if err := tree.Register(4, b, true); !errors.Is(err, ErrDuplicateRef) {
		t.Errorf("duplicate register: %v", err)
	}
	if err := tree.Register(0, b, true); !errors.Is(err, ErrBadRef) {
		t.Errorf("register 0: %v", err)
	}
	c := tree.SetProperty(tree.Root(), "c")
	tree.SetClass(c, "x")
	if ref, _ := tree.Embed(c); ref != 5 {
		t.Errorf("ref after register = %d, want 5", ref)
	}
}

func TestPath(t *testing.T) {
	tree := New()
	a := tree.SetProperty(tree.Root(), "a")
	tree.AddObject(a)
	b := tree.AddObject(a)
	c := tree.SetProperty(b, "c")
	if got := tree.Path(c); got != "$.a[1].c" {
		t.Errorf("Path = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tree := New()
	root := tree.Root()
	tree.SetAttr(root, "count", "42")
	p := tree.SetProperty(root, "head")
	tree.SetClass(p, "example.Node")
	tree.SetAttr(p, "name", `"x"`)
	if _, err := tree.Embed(p); err != nil {
		t.Fatal(err)
	}
	d, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	back := New()
	if err := json.Unmarshal(d, back); err != nil {
		t.Fatal(err)
	}
	d2, err := json.Marshal(back)
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != string(d2) {
		t.Errorf("json round trip:\n%s\n%s", d, d2)
	}
	obj := back.Objects(back.Root())[0]
	if !back.IsEmbedding(obj) {
		t.Errorf("embedding lost in json")
	}
	if id, ok := back.Lookup(1); !ok || id != obj {
		t.Errorf("reference namespace lost in json")
	}
}
