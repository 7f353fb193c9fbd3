package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gluon "github.com/lucidj/go-gluon"
	"github.com/lucidj/go-gluon/ir"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/go-cmp/cmp"
)

func TestLineDiff(t *testing.T) {
	d, changed := lineDiff("a\nb\nc\n", "a\nx\nc\n")
	if !changed {
		t.Fatal("expected a difference")
	}
	want := " a\n-b\n+x\n c\n"
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, changed := lineDiff("a\n", "a\n"); changed {
		t.Errorf("identical inputs differ")
	}
}

func TestPatchTree(t *testing.T) {
	tree := ir.New()
	tree.SetValue(tree.SetProperty(tree.Root(), "a"), "1")
	p, err := jsonpatch.DecodePatch([]byte(`[{"op": "replace", "path": "/props/0/value", "value": "2"}]`))
	if err != nil {
		t.Fatal(err)
	}
	res, err := patchTree(tree, p)
	if err != nil {
		t.Fatal(err)
	}
	out, err := encodeTree(&MainConfig{}, res)
	if err != nil {
		t.Fatal(err)
	}
	v, err := gluon.Unmarshal([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": 2}, v); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEvalExpr(t *testing.T) {
	root := map[string]any{"n": 2, "names": []any{"x", "y"}}
	tests := []struct {
		src  string
		want any
	}{
		{"n * 3", 6},
		{"len(names)", 2},
		{`root.names[1] + "!"`, "y!"},
	}
	for _, tt := range tests {
		got, err := evalExpr(tt.src, root)
		if err != nil {
			t.Errorf("%s: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.src, got, tt.want)
		}
	}
	if _, err := evalExpr("n +", root); err == nil {
		t.Errorf("expected compile error, got %v", err)
	}
}

func writeDoc(t *testing.T, dir, name string, v any) string {
	t.Helper()
	d, err := gluon.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, d, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestViewFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.gluon", map[string]any{"a": 1})
	conf := filepath.Join(dir, "gluon.toml")
	if err := os.WriteFile(conf, []byte(`boundary = "==========conf"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdin, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		cfg   *MainConfig
		files []string
		want  string
	}{
		{"default", &MainConfig{}, []string{path}, ir.DefaultBoundary + "//\n"},
		{"stdin", &MainConfig{}, []string{"-"}, ir.DefaultBoundary + "//\n"},
		{"flag", &MainConfig{Boundary: "==========flag"}, []string{path}, "==========flag//\n"},
		{"config", &MainConfig{Config: conf}, []string{path}, "==========conf//\n"},
		{"flag over config", &MainConfig{Config: conf, Boundary: "==========flag"}, []string{path}, "==========flag//\n"},
	}
	for _, tt := range tests {
		buf := bytes.NewBuffer(nil)
		if err := viewFiles(tt.cfg, buf, bytes.NewReader(stdin), tt.files); err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		got := buf.String()
		if !strings.Contains(got, "a: 1\n") || !strings.HasSuffix(got, tt.want) {
			t.Errorf("%s: got\n%s", tt.name, got)
		}
	}
}

func TestDumpFiles(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "a.gluon", map[string]any{"a": 1})

	buf := bytes.NewBuffer(nil)
	if err := dumpFiles(&DumpConfig{MainConfig: &MainConfig{}}, buf, nil, []string{path}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "$\n") || !strings.Contains(got, "\n  a = 1\n") {
		t.Errorf("tree dump:\n%s", got)
	}

	buf.Reset()
	if err := dumpFiles(&DumpConfig{MainConfig: &MainConfig{}, JSON: true}, buf, nil, []string{path}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, `"name": "a"`) || !strings.Contains(got, `"value": "1"`) {
		t.Errorf("json dump:\n%s", got)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.gluon", []any{"x", 1})
	bad := filepath.Join(dir, "bad.gluon")
	if err := os.WriteFile(bad, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &MainConfig{}
	e, err := cfg.engine(bytes.NewBuffer(nil))
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	failed := checkFiles(cfg, e, buf, nil, []string{good, bad, filepath.Join(dir, "missing.gluon")})
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != good+": ok" || !strings.HasPrefix(lines[1], bad+": ") || lines[1] == bad+": ok" {
		t.Errorf("report:\n%s", buf.String())
	}
}
