// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/diagnostic"
	"github.com/luthersystems/telan/lint"
)

func TestLintCommand_DefaultFlags(t *testing.T) {
	cmd := LintCommand()
	assert.Equal(t, "lint [flags] [files...]", cmd.Use)

	for _, name := range []string{"json", "checks", "list", "exclude"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestSelectAnalyzers(t *testing.T) {
	all, err := selectAnalyzers("")
	require.NoError(t, err)
	assert.Len(t, all, len(lint.DefaultAnalyzers()))

	some, err := selectAnalyzers("while-unquoted, setf-shape")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "while-unquoted", some[0].Name)
	assert.Equal(t, "setf-shape", some[1].Name)

	_, err = selectAnalyzers("setf-shape,bogus,also-bogus")
	assert.EqualError(t, err, "unknown check: also-bogus, bogus")
}

func TestLintPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tln"), []byte("(prnt 1)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("(prnt 1)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "c.tln"), []byte("(prnt 1)\n"), 0o600))

	l := &lint.Linter{Analyzers: lint.DefaultAnalyzers()}
	diags, err := lintPaths(l, []string{dir + "/..."}, nil)
	require.NoError(t, err)
	assert.Len(t, diags, 2)

	diags, err = lintPaths(l, []string{dir + "/..."}, []string{"vendor"})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, filepath.Join(dir, "a.tln"), diags[0].Pos.File)

	_, err = lintPaths(l, []string{filepath.Join(dir, "missing.tln")}, nil)
	assert.Error(t, err)
}

func TestLintCommand_WithEnvKnowsOperators(t *testing.T) {
	probe := &telan.Operator{Name: "probe", MinArgs: 1, MaxArgs: 1}
	env, err := telan.NewEnv(telan.WithOperators(probe))
	require.NoError(t, err)

	cfg := newCmdConfig(WithEnv(env))
	l := &lint.Linter{Analyzers: lint.DefaultAnalyzers(), Builtins: cfg.resolveBuiltins()}
	diags, err := l.LintFile([]byte("(probe 1)\n(probe)\n"), "test.tln")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "builtin-arity", diags[0].Analyzer)
	assert.Equal(t, 2, diags[0].Pos.Line)
}

func TestRenderLintDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tln")
	require.NoError(t, os.WriteFile(path, []byte("(while x '(print 1))\n"), 0o600))

	l := &lint.Linter{Analyzers: lint.DefaultAnalyzers()}
	diags, err := lintFile(l, path)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	var buf bytes.Buffer
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	require.NoError(t, renderLintDiagnostics(&buf, r, diags))
	out := buf.String()
	assert.Contains(t, out, "error: while condition must be a quoted form (while-unquoted)")
	assert.Contains(t, out, "(while x '(print 1))")
	assert.Contains(t, out, `note: to suppress: add "# nolint:while-unquoted" on the line above`)
}
