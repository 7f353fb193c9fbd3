package parse

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lucidj/go-gluon/encode"
	"github.com/lucidj/go-gluon/ir"
)

type parseTest struct {
	in string
	e  error
}

func TestParseOK(t *testing.T) {
	pts := []parseTest{
		{
			in: "count: 42\n\n--------//\n",
		},
		{
			in: "# gluon/1\nname: \"test\"\n\n--=_gluon-object-boundary_=--\n\n\"a\"\n--=_gluon-object-boundary_=--//\n",
		},
		{
			in: "xs: 1, 2, 3\n\n--------\nObject-Class: \"list\"; id=1; embedded\nObject-Items: 1, 'c', \"x,y\"\n\n--------//\n",
		},
		{
			in: "a: b=1; c\n\n--------\n\nline 1\n\nline 3\n--------//\n",
		},
		{
			in: "Object-Value: 1.5d\n\n--------//\n",
		},
	}
	for i := range pts {
		pt := &pts[i]
		_, err := ParseBytes([]byte(pt.in))
		if err != nil {
			t.Errorf("%q: %v", pt.in, err)
		}
	}
}

func TestParseFail(t *testing.T) {
	pts := []parseTest{
		{in: "count 42\n\n--------//\n", e: ErrMissingColon},
		{in: "count: 42\n", e: ErrUnexpectedEOF},
		{in: "count: 42\n\n", e: ErrUnexpectedEOF},
		{in: "count: 42\n\n--\n\n--//\n", e: ErrBoundary},
		{in: "\n--------\n\nx\n", e: ErrUnexpectedEOF},
		{in: "s: \"abc\n\n--------//\n", e: ErrParse},
		{in: ": 1\n\n--------//\n", e: ErrParse},
	}
	for i := range pts {
		pt := &pts[i]
		_, err := ParseBytes([]byte(pt.in))
		if err == nil {
			t.Errorf("%q: expected error", pt.in)
			continue
		}
		if !errors.Is(err, pt.e) {
			t.Errorf("%q: got %v, want %v", pt.in, err, pt.e)
		}
		var perr *Error
		if !errors.As(err, &perr) || perr.Line == 0 {
			t.Errorf("%q: error not located: %v", pt.in, err)
		}
	}
}

func TestParseGroups(t *testing.T) {
	tree, err := ParseBytes([]byte("p: 1; a=2; flag, \"x\"\nq: embedded; refid=3\n\n--------//\n"))
	if err != nil {
		t.Fatal(err)
	}
	root := tree.Root()
	p, ok := tree.Property(root, "p")
	if !ok {
		t.Fatal("no p")
	}
	items := tree.Objects(p)
	if len(items) != 2 {
		t.Fatalf("p has %d groups", len(items))
	}
	if v, _ := tree.Value(items[0]); v != "1" {
		t.Errorf("first group value %q", v)
	}
	if v, _ := tree.Attr(items[0], "a"); v != "2" {
		t.Errorf("attr a = %q", v)
	}
	if v, _ := tree.Attr(items[0], "flag"); v != "flag" {
		t.Errorf("flag = %q", v)
	}
	if v, _ := tree.Value(items[1]); v != `"x"` {
		t.Errorf("second group value %q", v)
	}
	q, _ := tree.Property(root, "q")
	if ref, ok := tree.RefID(q); !ok || ref != 3 {
		t.Errorf("RefID(q) = %d, %v", ref, ok)
	}
}

func TestParseContent(t *testing.T) {
	in := "\n--------\nObject-Class: \"blob\"\n\nline 1\n\nline 3\n--------\n\n\"b\"\n--------//\n"
	tree, err := ParseBytes([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	objs := tree.Objects(tree.Root())
	if len(objs) != 2 {
		t.Fatalf("got %d objects", len(objs))
	}
	got := []string{}
	for _, o := range objs {
		v, _ := tree.Value(o)
		got = append(got, v)
	}
	if diff := cmp.Diff([]string{"line 1\n\nline 3", `"b"`}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if c, _ := tree.Class(objs[0]); c != "blob" {
		t.Errorf("class %q", c)
	}
	if len(tree.Sequential()) != 2 {
		t.Errorf("sequential objects lost")
	}
}

func TestParseFoldsItems(t *testing.T) {
	in := "\n--------\nObject-Class: \"list\"\nObject-Items: 1, 2\n\n--------\nObject-Class: \"list\"\nObject-Items: 7\n\n--------//\n"
	tree, err := ParseBytes([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	objs := tree.Objects(tree.Root())
	for i, want := range [][]string{{"1", "2"}, {"7"}} {
		if _, ok := tree.Property(objs[i], ir.ItemsKey); ok {
			t.Errorf("object %d kept %s", i, ir.ItemsKey)
		}
		var got []string
		for _, it := range tree.Objects(objs[i]) {
			v, _ := tree.Value(it)
			got = append(got, v)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("object %d items (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseRootValue(t *testing.T) {
	tree, err := ParseBytes([]byte("Object-Value: 'z'\n\n--------//\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := tree.Value(tree.Root()); !ok || v != "'z'" {
		t.Errorf("root value = %q, %v", v, ok)
	}
	if _, ok := tree.Property(tree.Root(), ir.ValueKey); ok {
		t.Errorf("%s kept as property", ir.ValueKey)
	}
}

func TestParseReindex(t *testing.T) {
	in := "head: embedded; refid=4\n\n--------\nObject-Class: \"n\"; id=4; embedded\n\n--------//\n"
	tree, err := ParseBytes([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	id, ok := tree.Lookup(4)
	if !ok || id != tree.Objects(tree.Root())[0] {
		t.Errorf("Lookup(4) = %d, %v", id, ok)
	}
	if len(tree.Sequential()) != 0 {
		t.Errorf("embedding reported as sequential")
	}

	dup := "\n--------\nObject-Class: \"n\"; id=4\n\n--------\nObject-Class: \"n\"; id=4\n\n--------//\n"
	if _, err := ParseBytes([]byte(dup)); !errors.Is(err, ir.ErrDuplicateRef) {
		t.Errorf("duplicate id: %v", err)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	tree := ir.New()
	root := tree.Root()
	tree.SetAttr(root, "title", `"a, b; c"`)
	head := tree.SetProperty(root, "head")
	tree.SetClass(head, "example.Node")
	tree.SetAttr(head, "n", "1")
	xs := tree.SetProperty(head, "xs")
	tree.SetClass(xs, "list")
	tree.SetValue(tree.AddObject(xs), "'q'")
	tree.SetValue(tree.AddObject(xs), "2.5f")
	blob := tree.AddObject(root)
	tree.SetClass(blob, "blob")
	tree.SetValue(blob, "AAAA\nBBBB")

	first := bytes.NewBuffer(nil)
	if err := encode.Encode(tree, first); err != nil {
		t.Fatal(err)
	}
	back, err := ParseBytes(first.Bytes())
	if err != nil {
		t.Fatalf("parse %q: %v", first.String(), err)
	}
	second := bytes.NewBuffer(nil)
	if err := encode.Encode(back, second); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("round trip (-first +second):\n%s", diff)
	}
}
