// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode returns the ColorMode named by s: "auto", "always" or
// "never".  Unrecognized names select ColorAuto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// palette maps the parts of a rendered diagnostic to escape sequences.
type palette struct {
	severity [3]string // indexed by Severity
	message  string
	gutter   string
	marker   string
	reset    string
}

var ansiPalette = palette{
	severity: [3]string{
		SeverityError:   "\033[1;31m",
		SeverityWarning: "\033[1;33m",
		SeverityNote:    "\033[1;36m",
	},
	message: "\033[1m",
	gutter:  "\033[1;34m",
	marker:  "\033[1;31m",
	reset:   "\033[0m",
}

func (p palette) forSeverity(s Severity) string {
	if s < 0 || int(s) >= len(p.severity) {
		return ""
	}
	return p.severity[s]
}

func choosePalette(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		return palette{}
	}
	return ansiPalette
}

// IsTerminal reports whether w is a file connected to a terminal.
func IsTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
