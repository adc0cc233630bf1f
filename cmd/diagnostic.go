// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/telan/diagnostic"
	lintpkg "github.com/luthersystems/telan/lint"
	"github.com/luthersystems/telan/parser/token"
)

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lintpkg.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	if ld.Severity == lintpkg.SeverityError {
		d.Severity = diagnostic.SeverityError
	}
	if ld.Pos.Line > 0 {
		d.Span = &diagnostic.Span{
			Loc: &token.Location{File: ld.Pos.File, Line: ld.Pos.Line, Col: ld.Pos.Col},
		}
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, "to suppress: add \"# nolint:"+ld.Analyzer+"\" on the line above")
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, r *diagnostic.Renderer, diags []lintpkg.Diagnostic) error {
	var ds []diagnostic.Diagnostic
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	return r.RenderAll(w, ds)
}
