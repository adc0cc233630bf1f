// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/telan/parser/lexer"
	"github.com/luthersystems/telan/parser/token"
	"github.com/luthersystems/telan/telan"
)

// tabWidth is the number of columns a tab occupies in a rendered snippet.
const tabWidth = 4

// Renderer formats diagnostics as annotated source snippets:
//
//	error: unknown-command: Unknown command: foo
//	  --> main.tln:1:9
//	   |
//	 1 | (print (foo 1))
//	   |        ^^^
//	   = note: in builtin print at main.tln:1:2
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader returns the contents of a named source.  If nil the
	// name is read from the file system.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, w)
	var b strings.Builder
	msg := d.Message
	if d.Kind != "" {
		msg = d.Kind + ": " + msg
	}
	fmt.Fprintf(&b, "%s%s:%s %s%s%s\n", p.forSeverity(d.Severity), d.Severity, p.reset, p.message, msg, p.reset)

	gutter := 1
	if d.Span != nil && d.Span.Loc != nil {
		gutter = r.writeSnippet(&b, d.Span, p)
	}
	pad := strings.Repeat(" ", gutter)
	for i := len(d.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, " %s %s=%s note: %s\n", pad, p.gutter, p.reset, frameNote(&d.Stack[i]))
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, " %s %s=%s note: %s\n", pad, p.gutter, p.reset, note)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet writes the location arrow and, when the source line can be
// read, the line with its underline.  It returns the gutter width used.
func (r *Renderer) writeSnippet(b *strings.Builder, span *Span, p palette) int {
	loc := span.Loc
	fmt.Fprintf(b, "  %s-->%s %s\n", p.gutter, p.reset, loc)
	line, ok := r.sourceLine(loc)
	if !ok {
		return 1
	}
	num := strconv.Itoa(loc.Line)
	pad := strings.Repeat(" ", len(num))
	width := span.Width
	if width <= 0 {
		width = extent(line, loc.Col)
	}
	lead, marks := underline(line, loc.Col, width)

	fmt.Fprintf(b, " %s %s|%s\n", pad, p.gutter, p.reset)
	fmt.Fprintf(b, " %s%s |%s %s\n", p.gutter, num, p.reset, strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth)))
	fmt.Fprintf(b, " %s %s|%s %s%s%s%s", pad, p.gutter, p.reset, strings.Repeat(" ", lead), p.marker, strings.Repeat("^", marks), p.reset)
	if span.Label != "" {
		fmt.Fprintf(b, " %s%s%s", p.marker, span.Label, p.reset)
	}
	b.WriteString("\n")
	return len(num)
}

func (r *Renderer) sourceLine(loc *token.Location) (string, bool) {
	if loc.Line <= 0 || loc.File == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(loc.File)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if loc.Line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[loc.Line-1], "\r"), true
}

// extent returns the number of runes occupied by the telan token starting
// at col.  An open parenthesis extends to its matching close parenthesis,
// or to the last token of the line when the form continues past it.
func extent(line string, col int) int {
	toks, err := lexer.Lex("", strings.NewReader(line))
	if err != nil {
		return 1
	}
	for i, tok := range toks {
		if tok.Source.Col != col {
			continue
		}
		if tok.Kind == token.PAREN && tok.Text == "(" {
			return formExtent(toks[i:], col)
		}
		return tokenWidth(tok)
	}
	return 1
}

func formExtent(toks []*token.Token, col int) int {
	depth := 0
	var last *token.Token
	for _, tok := range toks {
		if tok.Kind == token.WHITESPACE {
			continue
		}
		last = tok
		if tok.Kind != token.PAREN {
			continue
		}
		if tok.Text == "(" {
			depth++
		} else {
			depth--
		}
		if depth == 0 {
			break
		}
	}
	return last.Source.Col + tokenWidth(last) - col
}

func tokenWidth(tok *token.Token) int {
	switch tok.Kind {
	case token.WHITESPACE:
		return 1
	case token.STRING:
		return utf8.RuneCountInString(tok.Text) + 2
	}
	return utf8.RuneCountInString(tok.Text)
}

// underline returns the display columns preceding col and the number of
// markers covering width runes, with tabs expanded.
func underline(line string, col, width int) (lead, marks int) {
	runes := []rune(line)
	start := min(max(col-1, 0), len(runes))
	end := min(start+width, len(runes))
	lead = displayWidth(runes[:start])
	marks = max(displayWidth(runes[start:end]), 1)
	return lead, marks
}

func displayWidth(runes []rune) int {
	w := 0
	for _, c := range runes {
		if c == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

func frameNote(f *telan.CallFrame) string {
	kind := "builtin"
	if f.User {
		kind = "operator"
	}
	if f.Source == nil {
		return fmt.Sprintf("in %s %s", kind, f.Name)
	}
	return fmt.Sprintf("in %s %s at %s", kind, f.Name, f.Source)
}
