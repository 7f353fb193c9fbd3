package gluon

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lucidj/go-gluon/encode"
	"github.com/lucidj/go-gluon/parse"
)

// Config is the file form of the engine options.
//
//	boundary = "--=_my-boundary_=--"
//	handler = "gluon/1"
//	max-passes = 64
//	line-separator = "\n"
//	log-level = "debug"
type Config struct {
	Boundary      string `toml:"boundary"`
	Handler       string `toml:"handler"`
	MaxPasses     int    `toml:"max-passes"`
	LineSeparator string `toml:"line-separator"`
	LogLevel      string `toml:"log-level"`
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return c, nil
}

func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.MaxPasses < 0 {
		return nil, fmt.Errorf("max-passes must not be negative: %d", c.MaxPasses)
	}
	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("bad log-level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Options returns the engine options c describes.  The log level is left
// to the caller, which owns the logger.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Boundary != "" {
		opts = append(opts, WithBoundary(c.Boundary))
	}
	if c.Handler != "" {
		opts = append(opts, WithHandler(c.Handler))
	}
	if c.MaxPasses > 0 {
		opts = append(opts, WithMaxPasses(c.MaxPasses))
	}
	if c.LineSeparator != "" {
		opts = append(opts,
			WithEncodeOptions(encode.EncodeLineSeparator(c.LineSeparator)),
			WithParseOptions(parse.LineSeparator(c.LineSeparator)))
	}
	return opts
}
