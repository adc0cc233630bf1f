// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/docs"
	"github.com/luthersystems/telan/parser"
)

func TestDocCommand_DefaultFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] [OPERATOR...]", cmd.Use)

	for _, name := range []string{"source-file", "list", "guide"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestDocExec(t *testing.T) {
	env, err := docEnv(newCmdConfig(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, docExec(&buf, env, []string{"get"}))
	assert.Equal(t, "builtin (get NUMBER)\n  Returns argument n of the operator call being evaluated, or NULL.\n", buf.String())

	buf.Reset()
	require.NoError(t, docExec(&buf, env, []string{"setf"}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "builtin (setf ANY NUMBER NUMBER AST AST)", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "), line)
		assert.LessOrEqual(t, len(line), 74, line)
	}

	err = docExec(&buf, env, []string{"nope"})
	assert.EqualError(t, err, "no operator named nope")
}

func TestDocList(t *testing.T) {
	env, err := docEnv(newCmdConfig(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, docList(&buf, env))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(telan.DefaultBuiltins().Names()))
	assert.Contains(t, buf.String(), "(not BOOL)")
}

func TestDocSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.tln")
	src := "(setf square 1 1 '(NUMBER) '(* (get 0) (get 0)))\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	env, err := docEnv(newCmdConfig(), path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, docExec(&buf, env, []string{"square"}))
	assert.Equal(t, "operator (square NUMBER)\n", buf.String())
}

func TestDocCommand_WithEnvInjectsEnv(t *testing.T) {
	probe := &telan.Operator{
		Name:    "probe",
		MinArgs: 0,
		MaxArgs: 0,
		Action: func(env *telan.Env, args []*telan.Value, locals []*telan.Value) *telan.Value {
			return nil
		},
		Doc: "Does nothing.",
	}
	env, err := telan.NewEnv(telan.WithReader(parser.NewReader()), telan.WithOperators(probe))
	require.NoError(t, err)

	cfg := newCmdConfig(WithEnv(env))
	assert.Same(t, env, cfg.env, "WithEnv should store the env in cmdConfig")

	docenv, err := docEnv(cfg, "")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, docExec(&buf, docenv, []string{"probe"}))
	assert.Equal(t, "builtin (probe)\n  Does nothing.\n", buf.String())
}

func TestDocCommand_WithBuiltins(t *testing.T) {
	probe := &telan.Operator{Name: "probe", Doc: "Does nothing."}
	table := telan.DefaultBuiltins().With(probe)

	cfg := newCmdConfig(WithBuiltins(table))
	assert.Same(t, table, cfg.resolveBuiltins())

	env, err := docEnv(cfg, "")
	require.NoError(t, err)
	_, ok := env.Resolve("probe")
	assert.True(t, ok)
}

func TestDocSummary(t *testing.T) {
	assert.Equal(t, "Adds numbers.", docSummary("Adds numbers. The result\n\t\tis a NUMBER."))
	assert.Equal(t, "No period", docSummary("No period"))
}

func TestLangGuide(t *testing.T) {
	assert.True(t, strings.HasPrefix(docs.LangGuide, "# Telan language reference"))
}
