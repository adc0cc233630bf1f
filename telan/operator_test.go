// Copyright © 2018 The ELPS authors

package telan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/telan/parser/token"
)

func TestSignature(t *testing.T) {
	for _, test := range []struct {
		name string
		sig  string
	}{
		{"+", "(+ NUMBER NUMBER [NUMBER...])"},
		{"ifelse", "(ifelse BOOL ANY/AST ANY/AST)"},
		{"input", "(input STRING [STRING])"},
		{"setf", "(setf ANY NUMBER NUMBER AST AST)"},
		{"exec", "(exec AST [AST...])"},
	} {
		op, ok := DefaultBuiltins().Resolve(test.name)
		require.True(t, ok, test.name)
		assert.Equal(t, test.sig, op.Signature())
	}
}

func TestParamType(t *testing.T) {
	op := &Operator{Params: []ParamType{TypeBool, TypeNumber}}
	assert.Equal(t, TypeBool, op.ParamType(0))
	assert.Equal(t, TypeNumber, op.ParamType(1))
	assert.Equal(t, TypeNumber, op.ParamType(5))
	assert.Equal(t, TypeAnyAST, (&Operator{}).ParamType(0))
}

func TestBuiltinNames(t *testing.T) {
	names := DefaultBuiltins().Names()
	assert.Len(t, names, 21)
	for _, op := range langBuiltins {
		assert.NotEmpty(t, op.Doc, op.Name)
		assert.False(t, op.User, op.Name)
	}
}

func TestMatches(t *testing.T) {
	loc := &token.Location{Line: 1, Col: 1}
	num := Number(1, loc)
	node := NodeValue(NewNode(loc))
	null := Null(loc)
	assert.True(t, TypeNumber.Matches(num))
	assert.False(t, TypeString.Matches(num))
	assert.True(t, TypeAny.Matches(num))
	assert.True(t, TypeAny.Matches(null))
	assert.False(t, TypeAny.Matches(node))
	assert.True(t, TypeAST.Matches(node))
	assert.False(t, TypeAST.Matches(num))
	assert.True(t, TypeAnyAST.Matches(node))
	assert.True(t, TypeAnyAST.Matches(num))
	assert.False(t, TypeNumber.Matches(node))
}

func typeListNode(toks ...*token.Token) *Node {
	children := make([]Child, len(toks))
	for i, tok := range toks {
		children[i] = TokenChild(tok)
	}
	return NewNode(&token.Location{Line: 1, Col: 1}, children...)
}

func TestParseTypeList(t *testing.T) {
	ident := func(s string) *token.Token { return &token.Token{Kind: token.IDENT, Text: s} }
	space := &token.Token{Kind: token.WHITESPACE, Text: " "}
	slash := &token.Token{Kind: token.OTHER, Text: "/"}

	types, err := ParseTypeList(typeListNode(ident("NUMBER"), space, ident("ANY"), space, slash, space, ident("AST")))
	require.NoError(t, err)
	assert.Equal(t, []ParamType{TypeNumber, TypeAnyAST}, types)

	types, err = ParseTypeList(typeListNode(&token.Token{Kind: token.STRING, Text: "ANY/AST"}, space, ident("WHITE")))
	require.NoError(t, err)
	assert.Equal(t, []ParamType{TypeAnyAST, TypeWhitespace}, types)

	types, err = ParseTypeList(typeListNode())
	require.NoError(t, err)
	assert.Empty(t, types)

	_, err = ParseTypeList(typeListNode(slash, ident("AST")))
	assert.Error(t, err)
	_, err = ParseTypeList(typeListNode(ident("ANY"), slash))
	assert.Error(t, err)
	_, err = ParseTypeList(typeListNode(ident("FOO")))
	assert.Error(t, err)
}

func TestUserOperatorRecord(t *testing.T) {
	loc := &token.Location{Line: 1, Col: 1}
	num := func(s string) Child { return TokenChild(&token.Token{Kind: token.NUMBER, Text: s, Source: loc}) }
	body := NodeChild(NewNode(loc, TokenChild(&token.Token{Kind: token.IDENT, Text: "get"})))
	types := NodeChild(NewNode(loc))

	op, err := UserOperator("f", NewNode(loc, num("1"), num("-1"), types, body))
	require.NoError(t, err)
	assert.Equal(t, 1, op.MinArgs)
	assert.Equal(t, Unbounded, op.MaxArgs)
	assert.True(t, op.User)

	_, err = UserOperator("f", NewNode(loc, num("1"), num("2"), types))
	assert.Error(t, err)
	_, err = UserOperator("f", NewNode(loc, num("1.5"), num("2"), types, body))
	assert.Error(t, err)
	_, err = UserOperator("f", NewNode(loc, num("1"), num("2"), num("3"), body))
	assert.Error(t, err)
}

func TestCallStack(t *testing.T) {
	s := &CallStack{MaxHeight: 2}
	assert.True(t, s.Push(CallFrame{Name: "a"}))
	assert.True(t, s.Push(CallFrame{Name: "b"}))
	assert.False(t, s.Push(CallFrame{Name: "c"}))
	assert.Equal(t, 2, s.Height())
	snap := s.Snapshot()
	assert.Equal(t, "b", s.Top().Name)
	s.Pop()
	assert.Equal(t, 1, s.Height())
	assert.Len(t, snap, 2)
	s.Pop()
	assert.Nil(t, s.Snapshot())
}

func TestValueText(t *testing.T) {
	loc := &token.Location{Line: 1, Col: 1}
	assert.Equal(t, "1.5", Number(1.5, loc).Text())
	assert.Equal(t, `"x"`, String("x", loc).String())
	assert.Equal(t, "x", String("x", loc).Text())
	assert.True(t, Bool(true, loc).IsTrue())
	assert.False(t, String("true", loc).IsTrue())
	assert.Equal(t, "NULL", Null(loc).String())
	assert.True(t, Number(2, loc).Equal(Number(2, nil)))
	assert.False(t, Number(2, loc).Equal(String("2", loc)))
}

func TestParseNumber(t *testing.T) {
	x, err := ParseNumber("2.50")
	require.NoError(t, err)
	assert.Equal(t, 2.5, x)
	_, err = ParseNumber("abc")
	assert.Error(t, err)
	assert.Equal(t, "100", FormatNumber(100))
	assert.Equal(t, "-0.25", FormatNumber(-0.25))
	i, ok := parseIndex("3")
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	_, ok = parseIndex("1.5")
	assert.False(t, ok)
	_, ok = parseIndex("-1")
	assert.False(t, ok)
}

func TestErrorMode(t *testing.T) {
	m, err := ParseErrorMode("propagate")
	require.NoError(t, err)
	assert.Equal(t, ErrorsPropagate, m)
	assert.Equal(t, "continue", ErrorsContinue.String())
	_, err = ParseErrorMode("abort")
	assert.Error(t, err)
}
