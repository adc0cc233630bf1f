// Copyright © 2018 The ELPS authors

package parser

import "github.com/luthersystems/telan/parser/token"

// TokenSource implements token.Source over a fixed token sequence.
type TokenSource struct {
	toks []*token.Token
	pos  int // index of the current token plus one
}

var _ token.Source = (*TokenSource)(nil)

// NewTokenSource returns a token.Source that yields toks in order.
func NewTokenSource(toks []*token.Token) *TokenSource {
	return &TokenSource{toks: toks}
}

func (s *TokenSource) Token() *token.Token {
	if s.pos == 0 || s.pos > len(s.toks) {
		return nil
	}
	return s.toks[s.pos-1]
}

func (s *TokenSource) Peek() *token.Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	return s.toks[s.pos]
}

func (s *TokenSource) Scan() bool {
	if s.pos >= len(s.toks) {
		s.pos = len(s.toks) + 1
		return false
	}
	s.pos++
	return true
}
