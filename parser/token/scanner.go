// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The stream is read in full when the Scanner is created.
type Scanner struct {
	file string
	buf  []byte

	start     int // byte offset of the current token
	startLine int
	startCol  int

	next int // byte offset of the next rune to scan
	line int // line of the next rune
	col  int // column of the next rune

	c       rune // last scanned rune
	readErr error
}

// NewScanner initializes and returns a new Scanner.  Read errors are
// reported by Err.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := NewScannerBytes(file, buf)
	s.readErr = err
	return s
}

// NewScannerBytes initializes a Scanner over buf.
func NewScannerBytes(file string, buf []byte) *Scanner {
	s := &Scanner{
		file: file,
		buf:  buf,
		line: 1,
		col:  1,
	}
	s.Ignore()
	return s
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(kind Kind) *Token {
	tok := &Token{
		Kind:   kind,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// AtLineStart returns true if no rune of the current line has been scanned.
func (s *Scanner) AtLineStart() bool {
	return s.col == 1
}

// Peek returns the next rune to be scanned.  Peek returns a false second
// value at EOF or when the input holds an invalid utf-8 sequence.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n == 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune scans the next rune into the current token.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.buf) {
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	s.c = c
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered reading the input stream or decoding the
// rune at the scanner's position.
func (s *Scanner) Err() error {
	if s.readErr != nil {
		return s.readErr
	}
	if _, ok := s.Peek(); !ok && !s.EOF() {
		return fmt.Errorf("%s: invalid utf-8 sequence in source text", s.Loc())
	}
	return nil
}

// EOF returns true when all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(isDigit)
}

func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

// AcceptString scans literal if the input continues with it.  The scanner
// does not advance when literal is not matched in full.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(string(s.buf[s.next:min(len(s.buf), s.next+len(literal))]), literal) {
		return false
	}
	for range literal {
		if s.ScanRune() != nil {
			return false
		}
	}
	return true
}

// Backup rewinds the scanner to the start of the current token.
func (s *Scanner) Backup() {
	s.next = s.start
	s.line = s.startLine
	s.col = s.startCol
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
