// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	used := make(map[string]bool)
	for k := Kind(0); k < numKinds; k++ {
		str := k.String()
		if str == "" {
			t.Errorf("token kind %x has empty string value", k)
			continue
		}
		if used[str] {
			t.Errorf("token kind string used twice: %v", k)
		}
		used[str] = true
	}
}

func TestParseKind(t *testing.T) {
	for k := NUMBER; k < numKinds; k++ {
		got, ok := ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	k, ok := ParseKind("WHITE")
	assert.True(t, ok)
	assert.Equal(t, WHITESPACE, k)
	_, ok = ParseKind("ANY")
	assert.False(t, ok)
	_, ok = ParseKind("INVALID")
	assert.False(t, ok)
}

func TestSentinels(t *testing.T) {
	loc := &Location{File: "test", Line: 2, Col: 3}
	assert.True(t, Null(loc).IsNull())
	assert.False(t, Null(loc).IsError())
	assert.True(t, Error(loc).IsError())
	assert.True(t, (&Token{Kind: OTHER, Text: "'"}).IsQuote())
	assert.False(t, (&Token{Kind: STRING, Text: "'"}).IsQuote())
	assert.Equal(t, "test:2:3", loc.String())
}
