// Copyright © 2024 The ELPS authors

// Package diagnostic renders telan runtime errors and lint findings as
// annotated source snippets.  Runtime diagnostics from package telan are
// converted by Convert and can be rendered as they are reported with a
// Reporter.
package diagnostic

import (
	"github.com/luthersystems/telan/parser/token"
	"github.com/luthersystems/telan/telan"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

var severityStrings = []string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityNote:    "note",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityStrings) {
		return "unknown"
	}
	return severityStrings[s]
}

// Span marks the source text a diagnostic refers to.  Width counts runes to
// underline starting at Loc.Col.  When Width is zero the renderer underlines
// the token at Loc, or the whole form when Loc is an open parenthesis.
type Span struct {
	Loc   *token.Location
	Width int
	Label string
}

// Diagnostic is an error or warning prepared for rendering.
type Diagnostic struct {
	Severity Severity
	// Kind prefixes Message in the header when set.
	Kind    string
	Message string
	Span    *Span
	// Stack holds the active calls, entry point first.  Frames are rendered
	// innermost first.
	Stack []telan.CallFrame
	Notes []string
}
