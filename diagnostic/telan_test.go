// Copyright © 2018 The ELPS authors

package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

func TestConvert(t *testing.T) {
	d := &telan.Diagnostic{
		Kind:    telan.ArithmeticError,
		Source:  &token.Location{File: "main.tln", Line: 3, Col: 9},
		Message: "Division by zero",
		Stack: []telan.CallFrame{
			{Name: "exec", Source: &token.Location{File: "main.tln", Line: 2, Col: 2}},
			{Name: "half", Source: &token.Location{File: "main.tln", Line: 1, Col: 8}, User: true},
		},
	}
	out := Convert(d)
	assert.Equal(t, Diagnostic{
		Severity: SeverityError,
		Kind:     "arithmetic-error",
		Message:  "Division by zero",
		Span:     &Span{Loc: d.Source},
		Stack:    d.Stack,
	}, out)

	out = Convert(&telan.Diagnostic{Kind: telan.StructuralError, Message: "Unclosed parenthesis"})
	assert.Nil(t, out.Span)
	assert.Empty(t, out.Stack)
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{
		Renderer: &Renderer{
			Color:        ColorNever,
			SourceReader: StringSource("<expr>", "(print (foo 1))"),
		},
		W:     &buf,
		Notes: []string{"try: telan lint"},
	}
	var log telan.DiagnosticLog
	env, err := telan.NewEnv(telan.WithReporter(telan.MultiReporter(r, &log)))
	require.NoError(t, err)
	env.Errorf(telan.UnknownCommand, &token.Location{File: "<expr>", Line: 1, Col: 9}, "Unknown command: %s", "foo")
	require.Len(t, log.Diagnostics, 1)

	got := buf.String()
	assert.Contains(t, got, "error: unknown-command: Unknown command: foo")
	assert.Contains(t, got, "--> <expr>:1:9")
	assert.Contains(t, got, "(print (foo 1))")
	assert.Contains(t, got, "        ^^^\n")
	assert.Contains(t, got, "= note: try: telan lint")
	assert.NotContains(t, got, "in builtin")
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAuto, ParseColorMode("auto"))
	assert.Equal(t, ColorAuto, ParseColorMode(""))
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
