// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/diagnostic"
)

// session is an environment configured from settings for one command
// invocation.
type session struct {
	env      *telan.Env
	settings *settings
	renderer *diagnostic.Renderer
	sources  map[string]string
	errors   int
	endTrace func() error
}

// newSession creates an environment reading stdin and writing to stdout and
// stderr.
func newSession(s *settings, stdin io.Reader, stdout, stderr io.Writer) (*session, error) {
	sess := &session{
		settings: s,
		renderer: &diagnostic.Renderer{Color: s.Color},
		sources:  make(map[string]string),
	}
	sess.renderer.SourceReader = sess.readSource

	var reporter telan.Reporter = &telan.WriterReporter{W: stderr, Stack: s.Stack}
	if !s.Plain {
		reporter = &diagnostic.Reporter{Renderer: sess.renderer, W: stderr}
	}
	counter := telan.ReporterFunc(func(*telan.Diagnostic) { sess.errors++ })

	rt := telan.StandardRuntime()
	config := []telan.Config{
		telan.WithReader(s.reader()),
		telan.WithStdin(stdin),
		telan.WithStdout(stdout),
		telan.WithStderr(stderr),
		telan.WithReporter(telan.MultiReporter(reporter, counter)),
		telan.WithMaximumDepth(s.MaxDepth),
		telan.WithErrorMode(s.ErrorMode),
	}
	if start := tracers[s.Trace]; start != nil {
		p, end, err := start(rt, s.TraceFile, stderr)
		if err != nil {
			return nil, err
		}
		sess.endTrace = end
		config = append(config, telan.WithProfiler(p))
	}

	env, err := telan.NewEnvRuntime(rt, config...)
	if err != nil {
		if sess.endTrace != nil {
			_ = sess.endTrace()
		}
		return nil, err
	}
	sess.env = env
	slog.Debug("session started",
		"errors", s.ErrorMode,
		"max-depth", s.MaxDepth,
		"trace", s.Trace,
		"plain", s.Plain)
	return sess, nil
}

// load evaluates the program text called name.  A structural error is
// reported like a runtime diagnostic and returned.
func (s *session) load(name, text string) (*telan.Value, error) {
	s.sources[name] = text
	root, err := s.env.Runtime.Reader.Read(name, strings.NewReader(text))
	if err != nil {
		if root != nil && root.Err != nil {
			s.env.Runtime.Report(&telan.Diagnostic{
				Kind:    telan.StructuralError,
				Source:  root.Err.Source,
				Message: root.Err.Msg,
			})
		}
		return nil, err
	}
	return s.env.EvalProgram(root)
}

// loadFile evaluates the program in the file at path.
func (s *session) loadFile(path string) (*telan.Value, error) {
	b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("unable to open source file: %w", err)
	}
	return s.load(path, string(b))
}

func (s *session) readSource(file string) ([]byte, error) {
	if text, ok := s.sources[file]; ok {
		return []byte(text), nil
	}
	return os.ReadFile(file) //nolint:gosec // source of a reported diagnostic
}

// close ends any trace attached to the session.
func (s *session) close() error {
	if s.endTrace == nil {
		return nil
	}
	err := s.endTrace()
	s.endTrace = nil
	return err
}
