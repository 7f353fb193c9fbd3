package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/lucidj/go-gluon/ir"

	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, b := args[0], args[1]
	if cfg.Reverse {
		a, b = b, a
	}
	from, err := normalize(cfg.MainConfig, cc.In, a)
	if err != nil {
		return err
	}
	to, err := normalize(cfg.MainConfig, cc.In, b)
	if err != nil {
		return err
	}
	d, changed := lineDiff(from, to)
	if !changed {
		return nil
	}
	fmt.Fprint(cc.Out, d)
	return cli.ExitCodeErr(1)
}

// normalize re-encodes a document so that formatting differences vanish.
func normalize(cfg *MainConfig, stdin io.Reader, file string) (string, error) {
	t, err := getTree(stdin, file, cfg.parseOpts()...)
	if err != nil {
		return "", err
	}
	return encodeTree(cfg, t)
}

func encodeTree(cfg *MainConfig, t *ir.Tree) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := cfg.encode(t, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// lineDiff renders the lines removed from a prefixed by "-" and the lines
// added in b prefixed by "+".  Unchanged lines are prefixed by a space.
func lineDiff(a, b string) (string, bool) {
	dmp := diffpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)
	var (
		sb      strings.Builder
		changed bool
	)
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
			changed = true
		case diffpatch.DiffInsert:
			prefix = "+"
			changed = true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), changed
}
