// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	s := NewScanner("test", strings.NewReader("xx"))
	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.True(t, s.EOF())
	assert.Equal(t, io.EOF, s.ScanRune())
	tok := s.EmitToken(IDENT)
	assert.Equal(t, "xx", tok.Text)
	tok = s.EmitToken(IDENT)
	assert.Equal(t, "", tok.Text)
	assert.NoError(t, s.Err())
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("test", strings.NewReader("123abc  def"))
	assert.Equal(t, 3, s.AcceptSeqDigit())
	assert.Equal(t, "123", s.EmitToken(NUMBER).Text)
	assert.Equal(t, 3, s.AcceptSeq(unicode.IsLetter))
	assert.Equal(t, "abc", s.EmitToken(IDENT).Text)
	assert.Equal(t, 2, s.AcceptSeqSpace())
	s.Ignore()
	assert.False(t, s.AcceptRune('x'))
	assert.True(t, s.AcceptRune('d'))
	assert.True(t, s.AcceptAny("ef"))
	assert.True(t, s.AcceptAny("ef"))
	assert.False(t, s.AcceptAny("ef"))
	assert.Equal(t, "def", s.Text())
}

func TestScannerLocation(t *testing.T) {
	s := NewScanner("test", strings.NewReader("ab\n  cd"))
	s.AcceptSeq(unicode.IsLetter)
	tok := s.EmitToken(IDENT)
	assert.Equal(t, 1, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)

	s.AcceptSeqSpace()
	s.Ignore()
	assert.False(t, s.AtLineStart())
	s.AcceptSeq(unicode.IsLetter)
	tok = s.EmitToken(IDENT)
	assert.Equal(t, "cd", tok.Text)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, 3, tok.Source.Col)
	assert.Equal(t, 5, tok.Source.Pos)
}

func TestScannerAcceptString(t *testing.T) {
	s := NewScanner("test", strings.NewReader("true false"))
	assert.False(t, s.AcceptString("false"))
	assert.Equal(t, "", s.Text())
	assert.True(t, s.AcceptString("true"))
	assert.Equal(t, "true", s.Text())
	s.Backup()
	assert.Equal(t, "", s.Text())
	assert.Equal(t, 1, s.Loc().Col)
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScannerBytes("test", []byte{'a', 0xff})
	require.NoError(t, s.ScanRune())
	assert.Error(t, s.ScanRune())
	assert.Error(t, s.Err())
}
