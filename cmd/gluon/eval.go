package main

import (
	"fmt"
	"io"

	gluon "github.com/lucidj/go-gluon"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: eval requires an expression", cli.ErrUsage)
	}
	e, err := cfg.engine(cc.Out)
	if err != nil {
		return err
	}
	src := args[0]
	for _, file := range inputs(args[1:]) {
		t, err := getTree(cc.In, file, cfg.parseOpts()...)
		if err != nil {
			return err
		}
		root, err := e.FromTree(t)
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", file, err)
		}
		res, err := evalExpr(src, root)
		if err != nil {
			return fmt.Errorf("error evaluating %q on %s: %w", src, file, err)
		}
		if err := writeResult(cfg, e, cc.Out, res); err != nil {
			return err
		}
	}
	return nil
}

// evalExpr runs src with root bound to "root" and, when root is a map,
// its keys bound at top level.
func evalExpr(src string, root any) (any, error) {
	env := map[string]any{}
	if m, ok := root.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	env["root"] = root
	prg, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, err
	}
	return expr.Run(prg, env)
}

func writeResult(cfg *EvalConfig, e *gluon.Engine, w io.Writer, res any) error {
	if !cfg.Gluon {
		_, err := fmt.Fprintf(w, "%v\n", res)
		return err
	}
	return e.Serialize(w, res)
}
