// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/diagnostic"
	"github.com/luthersystems/telan/parser"
)

// Option configures an exported command factory (LintCommand, DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	builtins *telan.OperatorTable
	env      *telan.Env
}

// WithBuiltins injects the operator table of an embedding program so that
// its operators are documented and known to the linter.
func WithBuiltins(t *telan.OperatorTable) Option {
	return func(c *cmdConfig) { c.builtins = t }
}

// WithEnv injects a fully configured Env.  Its built-in operators are
// used by the doc and lint commands.
func WithEnv(env *telan.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolveBuiltins returns the best available operator table from the
// options.  If an env was provided its table is preferred, falling back to
// an explicitly supplied table and then to the default built-ins.
func (c *cmdConfig) resolveBuiltins() *telan.OperatorTable {
	if c.env != nil {
		return c.env.Builtins()
	}
	if c.builtins != nil {
		return c.builtins
	}
	return telan.DefaultBuiltins()
}

const defaultMaxDepth = telan.DefaultMaximumDepth

// settingNames are the persistent flags bound to viper keys.
var settingNames = []string{
	"color",
	"diagnostics",
	"errors",
	"max-depth",
	"lexer",
	"trace",
	"trace-file",
	"stack",
}

// settings are the session options shared by all commands.
type settings struct {
	Color     diagnostic.ColorMode
	Plain     bool
	ErrorMode telan.ErrorMode
	MaxDepth  int
	Tokenizer parser.Tokenizer
	Trace     string
	TraceFile string
	Stack     bool
}

// loadSettings reads and validates settings from viper.
func loadSettings() (*settings, error) {
	s, err := parseSettings(
		viper.GetString("color"),
		viper.GetString("diagnostics"),
		viper.GetString("errors"),
		viper.GetInt("max-depth"),
		viper.GetString("lexer"),
		viper.GetString("trace"),
		viper.GetString("trace-file"),
	)
	if err != nil {
		return nil, err
	}
	s.Stack = viper.GetBool("stack")
	return s, nil
}

func parseSettings(color, diags, errs string, maxDepth int, lexer, trace, traceFile string) (*settings, error) {
	s := &settings{
		Color:     diagnostic.ParseColorMode(color),
		MaxDepth:  maxDepth,
		Trace:     trace,
		TraceFile: traceFile,
	}
	switch color {
	case "", "auto", "always", "never":
	default:
		return nil, fmt.Errorf("unknown color mode: %q", color)
	}
	switch diags {
	case "", "annotated":
	case "plain":
		s.Plain = true
	default:
		return nil, fmt.Errorf("unknown diagnostic style: %q", diags)
	}
	var err error
	s.ErrorMode, err = telan.ParseErrorMode(errs)
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("max-depth must not be negative: %d", maxDepth)
	}
	if lexer == "" {
		lexer = "scanner"
	}
	var ok bool
	s.Tokenizer, ok = parser.NewTokenizer(lexer)
	if !ok {
		return nil, fmt.Errorf("unknown lexer: %q", lexer)
	}
	if trace == "" {
		s.Trace = traceNone
	}
	if _, ok := tracers[s.Trace]; !ok {
		return nil, fmt.Errorf("unknown trace mode: %q", trace)
	}
	return s, nil
}

func (s *settings) reader() telan.Reader {
	return parser.NewReader(parser.WithTokenizer(s.Tokenizer))
}
