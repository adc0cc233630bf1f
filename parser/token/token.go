// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"strings"
)

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek returns nil.
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

// Token is an immutable lexical unit.  STRING tokens never include their
// surrounding quote characters.
type Token struct {
	Kind   Kind
	Text   string
	Source *Location
}

// Kind is the lexical class of a Token.
type Kind uint

// Kind constants produced by the tokenizers.  OTHER also tags the runtime
// sentinels NULL and ERROR which never come out of a tokenizer.
const (
	INVALID Kind = iota
	NUMBER
	STRING
	BOOL
	IDENT
	PAREN
	WHITESPACE
	OTHER

	numKinds
)

var kindStrings = [numKinds]string{
	INVALID:    "INVALID",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	BOOL:       "BOOL",
	IDENT:      "IDENT",
	PAREN:      "PAREN",
	WHITESPACE: "WHITESPACE",
	OTHER:      "OTHER",
}

func (k Kind) String() string {
	if k >= numKinds {
		return kindStrings[INVALID]
	}
	return kindStrings[k]
}

// ParseKind returns the Kind named by s.  The name "WHITE" used by older
// programs is accepted as WHITESPACE.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	if s == "WHITE" {
		return WHITESPACE, true
	}
	for k := NUMBER; k < numKinds; k++ {
		if kindStrings[k] == s {
			return k, true
		}
	}
	return INVALID, false
}

// Text values of the runtime sentinel tokens and the quote marker.
const (
	NullText  = "NULL"
	ErrorText = "ERROR"
	QuoteText = "'"
)

// Null returns the sentinel token representing the absence of a value.
func Null(loc *Location) *Token {
	return &Token{Kind: OTHER, Text: NullText, Source: loc}
}

// Error returns the sentinel token representing a failed computation.
func Error(loc *Location) *Token {
	return &Token{Kind: OTHER, Text: ErrorText, Source: loc}
}

// IsQuote returns true if tok is the quote marker.
func (tok *Token) IsQuote() bool {
	return tok.Kind == OTHER && tok.Text == QuoteText
}

// IsNull returns true if tok is the NULL sentinel.
func (tok *Token) IsNull() bool {
	return tok.Kind == OTHER && tok.Text == NullText
}

// IsError returns true if tok is the ERROR sentinel.
func (tok *Token) IsError() bool {
	return tok.Kind == OTHER && tok.Text == ErrorText
}

func (tok *Token) String() string {
	if tok == nil {
		return "<nil>"
	}
	if tok.Kind == STRING {
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	}
	return fmt.Sprintf("%s %s", tok.Kind, tok.Text)
}

// Location is a position in a source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error attached to a position in a source stream.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
