package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lucidj/go-gluon/ir"

	"github.com/scott-cotton/cli"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	return dumpFiles(cfg, cc.Out, cc.In, inputs(args))
}

func dumpFiles(cfg *DumpConfig, w io.Writer, stdin io.Reader, files []string) error {
	for _, file := range files {
		t, err := getTree(stdin, file, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		if cfg.JSON {
			d, err := json.MarshalIndent(t, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\n", d)
			continue
		}
		dumpTree(w, t, t.Root(), 0)
	}
	return nil
}

func dumpTree(w io.Writer, t *ir.Tree, id ir.NodeID, depth int) {
	indent := strings.Repeat("  ", depth)
	name := t.Name(id)
	switch {
	case id == t.Root():
		name = "$"
	case t.IsAnonymous(id):
		name = "-"
	}
	fmt.Fprintf(w, "%s%s", indent, name)
	if v, ok := t.Value(id); ok {
		fmt.Fprintf(w, " = %s", v)
	}
	if ref, ok := t.Ref(id); ok && t.IsComplex(id) {
		fmt.Fprintf(w, " #%d", ref)
	}
	if ref, ok := t.RefID(id); ok {
		fmt.Fprintf(w, " -> #%d", ref)
	}
	fmt.Fprintln(w)
	for _, p := range t.Properties(id) {
		dumpTree(w, t, p, depth+1)
	}
	for _, o := range t.Objects(id) {
		dumpTree(w, t, o, depth+1)
	}
}
