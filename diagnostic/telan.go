// Copyright © 2018 The ELPS authors

package diagnostic

import (
	"fmt"
	"io"

	"github.com/luthersystems/telan/telan"
)

// Convert returns the renderable form of a runtime diagnostic.  The call
// stack active when d was reported is carried over and rendered as notes.
func Convert(d *telan.Diagnostic) Diagnostic {
	out := Diagnostic{
		Severity: SeverityError,
		Kind:     d.Kind.String(),
		Message:  d.Message,
		Stack:    d.Stack,
	}
	if d.Source != nil && d.Source.Line > 0 {
		out.Span = &Span{Loc: d.Source}
	}
	return out
}

// Reporter renders runtime diagnostics to W as they are reported.
type Reporter struct {
	Renderer *Renderer
	W        io.Writer
	// Notes are appended to every rendered diagnostic.
	Notes []string
}

var _ telan.Reporter = (*Reporter)(nil)

// Report implements telan.Reporter.
func (r *Reporter) Report(d *telan.Diagnostic) {
	out := Convert(d)
	out.Notes = append(out.Notes, r.Notes...)
	_ = r.Renderer.Render(r.W, out)
}

// StringSource returns a source reader for Renderer.SourceReader that serves
// text for the file called name.
func StringSource(name, text string) func(string) ([]byte, error) {
	return func(file string) ([]byte, error) {
		if file != name {
			return nil, fmt.Errorf("no source for %s", file)
		}
		return []byte(text), nil
	}
}
