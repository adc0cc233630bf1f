// Copyright © 2018 The ELPS authors

/*
Package regexlexer tokenizes telan source with an ordered table of regular
expressions.  At each position the first pattern producing a non-empty match
wins.

	PAREN      [()]
	NUMBER     [0-9]*(\.[0-9]+)?
	STRING     "[^"\n]*"
	IDENT      [a-zA-Z][0-9_\-a-zA-Z]*   (true and false become BOOL)
	WHITESPACE [ \t\n\r\v\f]+
	OTHER      .

Lines starting with '#' are skipped.  Patterns are anchored at the scanner
cursor.
*/
package regexlexer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/telan/parser/token"
	parsec "github.com/prataprc/goparsec"
)

type rule struct {
	kind  token.Kind
	match parsec.Parser
}

var rules = []rule{
	{token.PAREN, parsec.TokenExact(`[()]`, "PAREN")},
	{token.NUMBER, parsec.TokenExact(`[0-9]*(?:\.[0-9]+)?`, "NUMBER")},
	{token.STRING, parsec.TokenExact(`"[^"\n]*"`, "STRING")},
	{token.IDENT, parsec.TokenExact(`[a-zA-Z][0-9_\-a-zA-Z]*`, "IDENT")},
	{token.WHITESPACE, parsec.TokenExact(`[ \t\n\r\v\f]+`, "WHITESPACE")},
	{token.OTHER, parsec.TokenExact(`(?s:.)`, "OTHER")},
}

var comment = parsec.TokenExact(`#[^\n]*\n?`, "COMMENT")

// Tokenizer implements parser.Tokenizer with a regular expression table.
type Tokenizer struct{}

// Tokenize reads all tokens from r.
func (Tokenizer) Tokenize(name string, r io.Reader) ([]*token.Token, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Lex(name, b)
}

// Lex tokenizes text.
func Lex(name string, text []byte) ([]*token.Token, error) {
	var toks []*token.Token
	var s parsec.Scanner = parsec.NewScanner(text)
	line, col := 1, 1
	advance := func(b string) {
		n := strings.Count(b, "\n")
		if n > 0 {
			line += n
			col = 1 + utf8.RuneCountInString(b[strings.LastIndexByte(b, '\n')+1:])
			return
		}
		col += utf8.RuneCountInString(b)
	}
	for !s.Endof() {
		if col == 1 {
			if t, next := terminal(comment, s); t != nil {
				advance(t.Value)
				s = next
				continue
			}
		}
		tok, raw, next := match(s)
		if tok == nil {
			return nil, &token.LocationError{
				Err:    fmt.Errorf("unable to tokenize input"),
				Source: &token.Location{File: name, Pos: s.GetCursor(), Line: line, Col: col},
			}
		}
		tok.Source = &token.Location{File: name, Pos: s.GetCursor(), Line: line, Col: col}
		toks = append(toks, tok)
		advance(raw)
		s = next
	}
	return toks, nil
}

// terminal runs p at the scanner's cursor and returns its non-empty match.
func terminal(p parsec.Parser, s parsec.Scanner) (*parsec.Terminal, parsec.Scanner) {
	node, next := p(s)
	t, ok := node.(*parsec.Terminal)
	if !ok || t.Value == "" {
		return nil, s
	}
	return t, next
}

// match applies the rule table at the scanner's cursor and returns the
// token, the matched text, and the advanced scanner.
func match(s parsec.Scanner) (*token.Token, string, parsec.Scanner) {
	for _, r := range rules {
		t, next := terminal(r.match, s)
		if t == nil {
			continue
		}
		tok := &token.Token{Kind: r.kind, Text: t.Value}
		switch r.kind {
		case token.STRING:
			tok.Text = tok.Text[1 : len(tok.Text)-1]
		case token.IDENT:
			if tok.Text == "true" || tok.Text == "false" {
				tok.Kind = token.BOOL
			}
		}
		return tok, t.Value, next
	}
	return nil, "", s
}
