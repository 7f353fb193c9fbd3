package main

import (
	"io"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	return viewFiles(cfg.MainConfig, cc.Out, cc.In, inputs(args))
}

func viewFiles(cfg *MainConfig, w io.Writer, stdin io.Reader, files []string) error {
	for i, file := range files {
		t, err := getTree(stdin, file, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		if err := cfg.encode(t, w); err != nil {
			return err
		}
		if i < len(files)-1 {
			io.WriteString(w, "\n")
		}
	}
	return nil
}
