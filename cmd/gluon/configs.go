package main

import (
	"io"
	"log/slog"
	"os"

	gluon "github.com/lucidj/go-gluon"
	"github.com/lucidj/go-gluon/encode"
	"github.com/lucidj/go-gluon/ir"
	"github.com/lucidj/go-gluon/parse"
	"github.com/lucidj/go-gluon/token"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color    bool   `cli:"name=color desc='encode with color'"`
	Config   string `cli:"name=config desc='toml engine configuration file'"`
	Boundary string `cli:"name=boundary desc='content boundary for output documents'"`
	Verbose  bool   `cli:"name=v desc='log resolution progress'"`

	Out      string
	CloseOut func() error

	Main *cli.Command

	conf *gluon.Config
}

func (cfg *MainConfig) config() (*gluon.Config, error) {
	if cfg.conf != nil {
		return cfg.conf, nil
	}
	if cfg.Config == "" {
		cfg.conf = &gluon.Config{}
		return cfg.conf, nil
	}
	c, err := gluon.LoadConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	cfg.conf = c
	return c, nil
}

func (cfg *MainConfig) engine(w io.Writer) (*gluon.Engine, error) {
	c, err := cfg.config()
	if err != nil {
		return nil, err
	}
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := append(c.Options(), gluon.WithLogger(newLog(level)))
	if cfg.Boundary != "" {
		opts = append(opts, gluon.WithBoundary(cfg.Boundary))
	}
	opts = append(opts, gluon.WithEncodeOptions(cfg.colorOpts(w)...))
	return gluon.New(opts...), nil
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	c, err := cfg.config()
	if err != nil || c.LineSeparator == "" {
		return nil
	}
	return []parse.ParseOption{parse.LineSeparator(c.LineSeparator)}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var res []encode.EncodeOption
	if c, err := cfg.config(); err == nil {
		if c.LineSeparator != "" {
			res = append(res, encode.EncodeLineSeparator(c.LineSeparator))
		}
		if c.Handler != "" {
			res = append(res, encode.EncodeHandler(c.Handler))
		}
	}
	return append(res, cfg.colorOpts(w)...)
}

// boundary is the output boundary: the flag, then the config file.
func (cfg *MainConfig) boundary() string {
	if cfg.Boundary != "" {
		return cfg.Boundary
	}
	if c, err := cfg.config(); err == nil {
		return c.Boundary
	}
	return ""
}

// encode writes t with the output boundary and encoding options.
func (cfg *MainConfig) encode(t *ir.Tree, w io.Writer) error {
	if b := cfg.boundary(); b != "" {
		t.SetAttr(t.Root(), ir.BoundaryKey, token.Quote(b))
	}
	return encode.Encode(t, w, cfg.encOpts(w)...)
}

func (cfg *MainConfig) colorOpts(w io.Writer) []encode.EncodeOption {
	if cfg.Color {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	if cfg.Main == nil {
		return nil
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	return nil
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type DumpConfig struct {
	*MainConfig
	JSON bool `cli:"name=j aliases=json desc='dump the tree as json'"`
	Dump *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Patch *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Gluon bool `cli:"name=g desc='output the result as a gluon document'"`

	Eval *cli.Command
}
