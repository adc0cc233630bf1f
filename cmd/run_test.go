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
)

func plainSettings(t *testing.T) *settings {
	t.Helper()
	s, err := parseSettings("never", "plain", "continue", defaultMaxDepth, "scanner", "none", "")
	require.NoError(t, err)
	return s
}

func runWith(t *testing.T, s *settings, expr, print bool, stdin string, args ...string) (int, string, string) {
	t.Helper()
	runExpression, runPrint = expr, print
	t.Cleanup(func() { runExpression, runPrint = false, false })
	var stdout, stderr bytes.Buffer
	code := runSources(s, args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunExpressions(t *testing.T) {
	s := plainSettings(t)

	code, out, errs := runWith(t, s, true, true, "", "(set x 2)", "(* (load x) 21)")
	assert.Equal(t, 0, code)
	assert.Equal(t, "NULL\n42\n", out)
	assert.Empty(t, errs)

	code, out, _ = runWith(t, s, true, false, "", `(print "hi")`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hi\n", out)

	code, out, _ = runWith(t, s, true, false, "Ada\n", `(print (concat "hi " (input "STRING" "? ")))`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "? hi Ada\n", out)
}

func TestRunRuntimeError(t *testing.T) {
	s := plainSettings(t)
	code, out, errs := runWith(t, s, true, true, "", `(/ 1 0) (print "after")`)
	assert.Equal(t, 1, code)
	assert.Equal(t, "after\nNULL\n", out)
	assert.Equal(t, "Line 1 Chr 6: Division by zero\n", errs)
}

func TestRunStructuralError(t *testing.T) {
	s := plainSettings(t)
	code, out, errs := runWith(t, s, true, false, "", `(print "a")`, `(print "b"`)
	assert.Equal(t, 1, code)
	assert.Equal(t, "a\n", out)
	assert.Equal(t, "Line 1 Chr 1: Unclosed parenthesis\n", errs)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.tln")
	main := filepath.Join(dir, "main.tln")
	require.NoError(t, os.WriteFile(lib, []byte("(setf double 1 1 '(NUMBER) '(* 2 (get 0)))\n"), 0o600))
	require.NoError(t, os.WriteFile(main, []byte("# uses lib.tln\n(print (double 21))\n"), 0o600))

	code, out, errs := runWith(t, plainSettings(t), false, false, "", lib, main)
	assert.Equal(t, 0, code)
	assert.Equal(t, "42\n", out)
	assert.Empty(t, errs)

	code, _, errs = runWith(t, plainSettings(t), false, false, "", filepath.Join(dir, "missing.tln"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "unable to open source file")
}

func TestRunAnnotated(t *testing.T) {
	s, err := parseSettings("never", "annotated", "continue", defaultMaxDepth, "regex", "none", "")
	require.NoError(t, err)
	code, _, errs := runWith(t, s, true, false, "", "(setf half 1 1 '(NUMBER) '(/ (get 0) 0))\n(half 4)")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "error: arithmetic-error: Division by zero")
	assert.Contains(t, errs, "--> <expr>:1:38")
	assert.Contains(t, errs, "note: in operator half at <expr>:2:2")
}

func TestRunPlainStack(t *testing.T) {
	s := plainSettings(t)
	s.Stack = true
	code, _, errs := runWith(t, s, true, false, "", "(setf half 1 1 '(NUMBER) '(/ (get 0) 0))\n(half 4)")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "Line 1 Chr 38: Division by zero\nStack Trace [2 frames -- entrypoint last]:\n")
	assert.Contains(t, errs, "  height 0: <expr>:2:2: half [user]\n")
}

func TestRunMaxDepth(t *testing.T) {
	s, err := parseSettings("never", "plain", "continue", 5, "scanner", "none", "")
	require.NoError(t, err)
	code, _, errs := runWith(t, s, true, false, "", "(setf loop 0 0 '() '(loop))\n(loop)")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "Maximum call depth exceeded (5)")
}

func TestRunCallgrindTrace(t *testing.T) {
	file := filepath.Join(t.TempDir(), "callgrind.out")
	s, err := parseSettings("never", "plain", "continue", defaultMaxDepth, "scanner", "callgrind", file)
	require.NoError(t, err)
	code, out, _ := runWith(t, s, true, false, "", `(print (+ 1 2))`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "3\n", out)

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "creator: telan")
	assert.Contains(t, string(b), "fn=")
}

func TestRunOtelTrace(t *testing.T) {
	s, err := parseSettings("never", "plain", "continue", defaultMaxDepth, "scanner", "otel", "")
	require.NoError(t, err)
	code, out, errs := runWith(t, s, true, false, "", `(print (+ 1 2))`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "3\n", out)
	assert.Contains(t, errs, "+@<expr>:1")
	assert.Contains(t, errs, "print@<expr>:1")
}
