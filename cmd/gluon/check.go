package main

import (
	"fmt"
	"io"

	gluon "github.com/lucidj/go-gluon"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	e, err := cfg.engine(cc.Out)
	if err != nil {
		return err
	}
	if checkFiles(cfg.MainConfig, e, cc.Out, cc.In, inputs(args)) > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFiles reports each file as ok or with its first error and returns
// the number of failures.
func checkFiles(cfg *MainConfig, e *gluon.Engine, w io.Writer, stdin io.Reader, files []string) int {
	failed := 0
	for _, file := range files {
		t, err := getTree(stdin, file, cfg.parseOpts()...)
		if err == nil {
			_, err = e.FromTree(t)
		}
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", file, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", file)
	}
	return failed
}
