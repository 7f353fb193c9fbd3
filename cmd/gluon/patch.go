package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lucidj/go-gluon/ir"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	pd, err := readFile(cc.In, args[0])
	if err != nil {
		return err
	}
	p, err := jsonpatch.DecodePatch(pd)
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	files := inputs(args[1:])
	for i, file := range files {
		t, err := getTree(cc.In, file, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		res, err := patchTree(t, p)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		if err := cfg.encode(res, cc.Out); err != nil {
			return err
		}
		if i < len(files)-1 {
			io.WriteString(cc.Out, "\n")
		}
	}
	return nil
}

// patchTree applies p to the json form of t.
func patchTree(t *ir.Tree, p jsonpatch.Patch) (*ir.Tree, error) {
	d, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	d, err = p.Apply(d)
	if err != nil {
		return nil, err
	}
	res := ir.New()
	if err := json.Unmarshal(d, res); err != nil {
		return nil, err
	}
	return res, nil
}
