// Copyright © 2018 The ELPS authors

// Package lexer converts telan source text into a flat token sequence.
package lexer

import (
	"io"

	"github.com/luthersystems/telan/parser/token"
)

// LexFn scans the next token from the lexer's scanner.
type LexFn func(*Lexer) (*token.Token, error)

// CommentMarker starts a comment line when it is the first character of the
// line.  The whole line is discarded.
const CommentMarker = '#'

// Lexer produces tokens from a token.Scanner.
type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
}

// Tokenizer implements parser.Tokenizer using Lexer.
type Tokenizer struct{}

// Tokenize reads all tokens from r.
func (Tokenizer) Tokenize(name string, r io.Reader) ([]*token.Token, error) {
	return Lex(name, r)
}

// Lex reads all tokens from r.
func Lex(name string, r io.Reader) ([]*token.Token, error) {
	s := token.NewScanner(name, r)
	if err := s.Err(); err != nil {
		return nil, err
	}
	lex := New(s)
	var toks []*token.Token
	for {
		tok, err := lex.ReadToken()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// ReadToken returns the next token in the stream.  At the end of the stream
// ReadToken returns io.EOF.
func (lex *Lexer) ReadToken() (*token.Token, error) {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() (*token.Token, error) {
	s := lex.scanner
	for s.AtLineStart() && lex.peekRune() == CommentMarker {
		lex.skipLine()
	}
	if s.EOF() {
		return nil, io.EOF
	}
	if err := s.ScanRune(); err != nil {
		return nil, &token.LocationError{Err: err, Source: s.Loc()}
	}
	c := s.Rune()
	switch {
	case c == '(' || c == ')':
		return s.EmitToken(token.PAREN), nil
	case isDigit(c):
		return lex.readNumber(), nil
	case c == '.' && isDigit(lex.peekRune()):
		s.AcceptSeqDigit()
		return s.EmitToken(token.NUMBER), nil
	case c == '"':
		return lex.readString(), nil
	case isLetter(c):
		return lex.readWord(), nil
	case isSpace(c):
		lex.acceptSpace()
		return s.EmitToken(token.WHITESPACE), nil
	default:
		return s.EmitToken(token.OTHER), nil
	}
}

// readNumber scans [0-9]*(\.[0-9]+)? following a leading digit.  A trailing
// dot that is not followed by a digit is left for the next token.
func (lex *Lexer) readNumber() *token.Token {
	s := lex.scanner
	s.AcceptSeqDigit()
	digits := len(s.Text())
	if s.AcceptRune('.') && s.AcceptSeqDigit() == 0 {
		s.Backup()
		for i := 0; i < digits; i++ {
			_ = s.ScanRune()
		}
	}
	return s.EmitToken(token.NUMBER)
}

// readString scans a string literal on a single line.  An unterminated
// quote is an OTHER token.
func (lex *Lexer) readString() *token.Token {
	s := lex.scanner
	s.AcceptSeq(func(c rune) bool { return c != '"' && c != '\n' })
	if !s.AcceptRune('"') {
		s.Backup()
		_ = s.ScanRune()
		return s.EmitToken(token.OTHER)
	}
	tok := s.EmitToken(token.STRING)
	tok.Text = tok.Text[1 : len(tok.Text)-1]
	return tok
}

func (lex *Lexer) readWord() *token.Token {
	s := lex.scanner
	s.AcceptSeq(isWord)
	switch s.Text() {
	case "true", "false":
		return s.EmitToken(token.BOOL)
	}
	return s.EmitToken(token.IDENT)
}

// acceptSpace scans a run of whitespace.  A newline followed by a comment
// line ends the run so the comment is recognized.
func (lex *Lexer) acceptSpace() {
	s := lex.scanner
	for !(s.AtLineStart() && lex.peekRune() == CommentMarker) {
		if !s.Accept(isSpace) {
			return
		}
	}
}

func (lex *Lexer) skipLine() {
	s := lex.scanner
	s.AcceptSeq(func(c rune) bool { return c != '\n' })
	s.AcceptRune('\n')
	s.Ignore()
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isLetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isWord(c rune) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
