// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop for telan.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/diagnostic"
	"github.com/luthersystems/telan/parser"
	"github.com/luthersystems/telan/parser/lexer"
)

// SourceName is the file name given to REPL entries in diagnostics.
const SourceName = "stdin"

type config struct {
	stdin     io.ReadCloser
	stdout    io.Writer
	stderr    io.WriteCloser
	tokenizer parser.Tokenizer
	color     diagnostic.ColorMode
	plain     bool
	history   string
	env       []telan.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		tokenizer: lexer.Tokenizer{},
		history:   historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding the output of the print operator.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithTokenizer selects the tokenizer used to read entries.
func WithTokenizer(t parser.Tokenizer) Option {
	return func(c *config) {
		c.tokenizer = t
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithPlainDiagnostics reports errors in the one-line "Line L Chr C" form
// instead of rendering annotated source.
func WithPlainDiagnostics() Option {
	return func(c *config) {
		c.plain = true
	}
}

// WithHistoryFile sets the file in which entered lines are saved.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithEnvConfig passes additional configuration to the environment created
// by RunRepl.
func WithEnvConfig(envConfig ...telan.Config) Option {
	return func(c *config) {
		c.env = append(c.env, envConfig...)
	}
}

// RunRepl runs a simple repl in a fresh environment.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	envOpts := []telan.Config{
		telan.WithReader(parser.NewReader(parser.WithTokenizer(cfg.tokenizer))),
	}
	if cfg.stdout != nil {
		envOpts = append(envOpts, telan.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, telan.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.env...)

	env, err := telan.NewEnv(envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}

	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl in env.  Entries that leave parentheses open
// continue on the next line, which is prompted with cont.
func RunEnv(env *telan.Env, prompt, cont string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	if cfg.stdout != nil {
		env.Runtime.Stdout = cfg.stdout
	}
	stderr := env.Runtime.Stderr

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            stderr,
		Stderr:            stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	// The input operator reads through readline so it shares the terminal.
	env.Runtime.Stdin = bufio.NewReader(&lineReader{rl: rl})

	renderer := &diagnostic.Renderer{Color: cfg.color}
	if !cfg.plain {
		env.Runtime.Reporter = &diagnostic.Reporter{Renderer: renderer, W: stderr}
	}

	var entry strings.Builder
	for {
		if entry.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			entry.Reset()
			continue
		}
		if err != nil {
			break
		}
		if entry.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		entry.WriteString(line)
		entry.WriteString("\n")

		text := entry.String()
		toks, err := cfg.tokenizer.Tokenize(SourceName, strings.NewReader(text))
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			entry.Reset()
			continue
		}
		if parser.OpenDepth(toks) > 0 {
			continue
		}
		entry.Reset()

		renderer.SourceReader = diagnostic.StringSource(SourceName, text)
		root, err := parser.BuildTokens(SourceName, toks)
		if err != nil {
			reportStructure(env, root)
			continue
		}
		val, err := env.EvalProgram(root)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
			continue
		}
		fmt.Fprintln(stderr, val) //nolint:errcheck // best-effort REPL output
	}
}

// reportStructure sends the structural error of a malformed entry to the
// environment's reporter.
func reportStructure(env *telan.Env, root *telan.Node) {
	env.Runtime.Report(&telan.Diagnostic{
		Kind:    telan.StructuralError,
		Source:  root.Err.Source,
		Message: root.Err.Msg,
	})
}

// lineReader serves lines read by readline, without a prompt, as a stream.
type lineReader struct {
	rl  *readline.Instance
	buf []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		r.rl.SetPrompt("")
		line, err := r.rl.ReadLine()
		if err != nil {
			return 0, io.EOF
		}
		r.buf = append([]byte(line), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// ensureHistoryFilePermissions creates the history file if it does not exist
// and restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".telan_history")
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
