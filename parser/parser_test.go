// Copyright © 2018 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

func read(t *testing.T, source string, opts ...ReaderOption) (*telan.Node, error) {
	t.Helper()
	return NewReader(opts...).Read("test", strings.NewReader(source))
}

func TestBuild(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{``, `()`},
		{`1`, `(1)`},
		{`()`, `(())`},
		{`(+ 1 2)`, `((+ 1 2))`},
		{`(print "a b")`, `((print "a b"))`},
		{`(set f '(+ 1 (* 2 3)))`, `((set f '(+ 1 (* 2 3))))`},
		{"(a)\n(b)", "((a)\n(b))"},
		{"# comment\n(a)", "((a))"},
	}
	for _, opts := range [][]ReaderOption{nil, {WithRegexLexer()}} {
		for i, test := range tests {
			root, err := read(t, test.source, opts...)
			if assert.NoError(t, err, "test %d", i) {
				assert.Equal(t, test.output, root.String(), "test %d", i)
				assert.False(t, root.Malformed())
			}
		}
	}
}

func TestBuildStructure(t *testing.T) {
	root, err := read(t, "(a (b c) 'd)")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	form := root.Children[0].Node
	require.NotNil(t, form)
	assert.Equal(t, 1, form.Source.Col)
	elems := form.Elements()
	require.Len(t, elems, 4)
	assert.Equal(t, "a", elems[0].Token.Text)
	require.True(t, elems[1].IsNode())
	assert.Equal(t, 4, elems[1].Node.Source.Col)
	assert.Len(t, elems[1].Node.Elements(), 2)
	assert.True(t, elems[2].Token.IsQuote())
	assert.Equal(t, "d", elems[3].Token.Text)
	assert.Len(t, form.Children, 6)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		source string
		line   int
		col    int
		msg    string
	}{
		{`(a`, 1, 1, "Unclosed parenthesis"},
		{"(a\n  (b c)\n  (d", 3, 3, "Unclosed parenthesis"},
		{`(a))`, 1, 4, "Unexpected closing parenthesis"},
		{`)`, 1, 1, "Unexpected closing parenthesis"},
	}
	for i, test := range tests {
		root, err := read(t, test.source)
		var serr *telan.StructureError
		require.ErrorAs(t, err, &serr, "test %d", i)
		assert.Equal(t, test.line, serr.Source.Line, "test %d", i)
		assert.Equal(t, test.col, serr.Source.Col, "test %d", i)
		assert.Equal(t, test.msg, serr.Msg, "test %d", i)
		require.NotNil(t, root)
		assert.True(t, root.Malformed())
	}
}

func TestBuildTokensMalformed(t *testing.T) {
	loc := &token.Location{Line: 1, Col: 1}
	root, err := BuildTokens("test", []*token.Token{{Kind: token.PAREN, Text: "(", Source: loc}})
	require.Error(t, err)
	require.NotNil(t, root)
	assert.True(t, root.Malformed())
	assert.Equal(t, err, root.Err)
}

func TestOpenDepth(t *testing.T) {
	paren := func(s string) *token.Token { return &token.Token{Kind: token.PAREN, Text: s} }
	other := &token.Token{Kind: token.IDENT, Text: "x"}
	assert.Equal(t, 0, OpenDepth(nil))
	assert.Equal(t, 2, OpenDepth([]*token.Token{paren("("), other, paren("(")}))
	assert.Equal(t, 0, OpenDepth([]*token.Token{paren("("), paren(")")}))
	assert.Equal(t, -1, OpenDepth([]*token.Token{paren(")")}))
}

func TestTokenSource(t *testing.T) {
	a := &token.Token{Kind: token.IDENT, Text: "a"}
	b := &token.Token{Kind: token.IDENT, Text: "b"}
	src := NewTokenSource([]*token.Token{a, b})
	assert.Nil(t, src.Token())
	assert.Same(t, a, src.Peek())
	assert.True(t, src.Scan())
	assert.Same(t, a, src.Token())
	assert.Same(t, b, src.Peek())
	assert.True(t, src.Scan())
	assert.Same(t, b, src.Token())
	assert.Nil(t, src.Peek())
	assert.False(t, src.Scan())
	assert.Nil(t, src.Token())
}

func TestNewTokenizer(t *testing.T) {
	_, ok := NewTokenizer("scanner")
	assert.True(t, ok)
	_, ok = NewTokenizer("regex")
	assert.True(t, ok)
	_, ok = NewTokenizer("yacc")
	assert.False(t, ok)
}
