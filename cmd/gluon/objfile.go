package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lucidj/go-gluon/ir"
	"github.com/lucidj/go-gluon/parse"
)

// readFile reads path, or stdin when path is "-".
func readFile(stdin io.Reader, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = stdin
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getTree(stdin io.Reader, path string, opts ...parse.ParseOption) (*ir.Tree, error) {
	d, err := readFile(stdin, path)
	if err != nil {
		return nil, err
	}
	t, err := parse.ParseBytes(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return t, nil
}

// inputs returns the files named by args, or stdin.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
