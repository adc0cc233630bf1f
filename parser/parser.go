// Copyright © 2018 The ELPS authors

// Package parser turns telan source text into the trees evaluated by
// package telan.
package parser

import (
	"io"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/lexer"
	"github.com/luthersystems/telan/parser/regexlexer"
	"github.com/luthersystems/telan/parser/token"
)

// Tokenizer converts a source stream into tokens.
type Tokenizer interface {
	Tokenize(name string, r io.Reader) ([]*token.Token, error)
}

// ReaderOption configures the reader returned by NewReader.
type ReaderOption func(*reader)

// WithTokenizer makes the reader tokenize source with t.
func WithTokenizer(t Tokenizer) ReaderOption {
	return func(r *reader) {
		r.tokenizer = t
	}
}

// WithRegexLexer makes the reader tokenize source with the
// regular-expression lexer instead of the hand-written scanner.
func WithRegexLexer() ReaderOption {
	return WithTokenizer(regexlexer.Tokenizer{})
}

type reader struct {
	tokenizer Tokenizer
}

// NewReader returns a telan.Reader.  By default source is tokenized by
// package lexer.
func NewReader(opts ...ReaderOption) telan.Reader {
	r := &reader{tokenizer: lexer.Tokenizer{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read implements telan.Reader.
func (r *reader) Read(name string, src io.Reader) (*telan.Node, error) {
	toks, err := r.tokenizer.Tokenize(name, src)
	if err != nil {
		return nil, err
	}
	return BuildTokens(name, toks)
}

// tokenizers maps the lexer names accepted by NewTokenizer to tokenizers.
var tokenizers = map[string]Tokenizer{
	"scanner": lexer.Tokenizer{},
	"regex":   regexlexer.Tokenizer{},
}

// NewTokenizer returns the tokenizer called name, either "scanner" or
// "regex".
func NewTokenizer(name string) (Tokenizer, bool) {
	t, ok := tokenizers[name]
	return t, ok
}
