// Copyright © 2018 The ELPS authors

// Package telantest runs telan programs under go test.
package telantest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser"
)

// TestSequence is a sequence of programs evaluated one after another in a
// single telan.Env.
type TestSequence []struct {
	Expr   string // a telan program
	Result string // the printed value of the program's last top-level form
	Output string // text written to stdout and diagnostics written to stderr
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns an environment for tests.  Output and diagnostics are
// written to w and input is read from stdin.
func NewEnv(w io.Writer, stdin io.Reader, config ...telan.Config) (*telan.Env, error) {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	base := []telan.Config{
		telan.WithReader(parser.NewReader()),
		telan.WithStdin(stdin),
		telan.WithStdout(w),
		telan.WithStderr(w),
	}
	return telan.NewEnv(append(base, config...)...)
}

// RunTestSuite runs each TestSequence in tests on an isolated telan.Env.
func RunTestSuite(t *testing.T, tests TestSuite, config ...telan.Config) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer
			env, err := NewEnv(&out, nil, config...)
			if err != nil {
				t.Fatalf("test %d %q: %v", i, test.Name, err)
			}
			for j, expr := range test.TestSequence {
				out.Reset()
				v, err := env.LoadString("test", expr.Expr)
				if err != nil {
					t.Errorf("test %d %q: expr %d: %v", i, test.Name, j, err)
					continue
				}
				assert.Equal(t, expr.Result, v.String(), "test %d %q: expr %d: result", i, test.Name, j)
				assert.Equal(t, expr.Output, out.String(), "test %d %q: expr %d: output", i, test.Name, j)
			}
		})
	}
}

// GoldenPath returns the path of the expected output for the program at
// path: the same path with its extension replaced by ".out".
func GoldenPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".out"
}

// RunGoldenFile runs the program at path and compares everything it writes
// to the contents of GoldenPath(path).  If a file GoldenPath(path) with the
// extension ".in" exists it is used as the program's input.
func RunGoldenFile(t *testing.T, path string, config ...telan.Config) {
	want, err := os.ReadFile(GoldenPath(path)) //#nosec G304
	if err != nil {
		t.Fatalf("Unable to read expected output: %v", err)
	}
	var stdin io.Reader
	input, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + ".in") //#nosec G304
	if err == nil {
		stdin = bytes.NewReader(input)
	}
	var out bytes.Buffer
	logger := NewLogger(t)
	defer logger.Flush()
	env, err := NewEnv(io.MultiWriter(&out, logger), stdin, config...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(want), out.String())
}

// RunGoldenDir runs RunGoldenFile as a subtest for each file matching
// pattern that has expected output.
func RunGoldenDir(t *testing.T, pattern string, config ...telan.Config) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range paths {
		if _, err := os.Stat(GoldenPath(path)); err != nil {
			continue
		}
		t.Run(filepath.Base(path), func(t *testing.T) {
			RunGoldenFile(t, path, config...)
		})
	}
}

// RunBenchmark evaluates source b.N times, each in a fresh environment.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	root, err := parser.NewReader().Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := NewEnv(io.Discard, nil)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if _, err := env.EvalProgram(root); err != nil {
			b.Fatal(err)
		}
		b.StopTimer()
	}
}
