// Copyright © 2018 The ELPS authors

package telan

import (
	"fmt"
	"io"

	"github.com/luthersystems/telan/parser/token"
)

// ErrorKind classifies a runtime diagnostic.
type ErrorKind uint8

// ErrorKind constants.
const (
	ErrorUnknown ErrorKind = iota
	// ArityError is an argument count outside an operator's bounds.
	ArityError
	// TypeError is an argument that fails its positional type constraint.
	TypeError
	// UnknownCommand is a command name that resolves to no operator.
	UnknownCommand
	// ArithmeticError is a division by zero or unparsable numeric text.
	ArithmeticError
	// InputError is a failure reading from the input stream.
	InputError
	// DepthError is a call exceeding the maximum call depth.
	DepthError
	// DefinitionError is an operator definition that cannot be invoked.
	DefinitionError
	// StructuralError is an attempt to evaluate a malformed tree.
	StructuralError
)

var errorKindStrings = []string{
	ErrorUnknown:    "error",
	ArityError:      "arity-error",
	TypeError:       "type-error",
	UnknownCommand:  "unknown-command",
	ArithmeticError: "arithmetic-error",
	InputError:      "input-error",
	DepthError:      "depth-error",
	DefinitionError: "definition-error",
	StructuralError: "structural-error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return errorKindStrings[ErrorUnknown]
	}
	return errorKindStrings[k]
}

// Diagnostic is a runtime error report.
type Diagnostic struct {
	Kind    ErrorKind
	Source  *token.Location
	Message string
	// Stack is a copy of the call stack at the time of the report, entry
	// point first.
	Stack []CallFrame
}

// String formats d as "Line <L> Chr <C>: <message>".
func (d *Diagnostic) String() string {
	line, col := 0, 0
	if d.Source != nil {
		line, col = d.Source.Line, d.Source.Col
	}
	return fmt.Sprintf("Line %d Chr %d: %s", line, col, d.Message)
}

func (d *Diagnostic) Error() string {
	return d.String()
}

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d *Diagnostic)

// Report implements Reporter.
func (fn ReporterFunc) Report(d *Diagnostic) {
	fn(d)
}

// WriterReporter writes one line per diagnostic to W.
type WriterReporter struct {
	W io.Writer
	// Stack follows each line with the call stack active when the
	// diagnostic was reported.
	Stack bool
}

// Report implements Reporter.
func (r *WriterReporter) Report(d *Diagnostic) {
	fmt.Fprintln(r.W, d.String()) //nolint:errcheck // best-effort diagnostic output
	if r.Stack && len(d.Stack) > 0 {
		(&CallStack{Frames: d.Stack}).WriteTo(r.W) //nolint:errcheck
	}
}

// DiagnosticLog records diagnostics in the order they are reported.
type DiagnosticLog struct {
	Diagnostics []*Diagnostic
}

// Report implements Reporter.
func (log *DiagnosticLog) Report(d *Diagnostic) {
	log.Diagnostics = append(log.Diagnostics, d)
}

// Messages returns the formatted diagnostics.
func (log *DiagnosticLog) Messages() []string {
	msgs := make([]string, len(log.Diagnostics))
	for i, d := range log.Diagnostics {
		msgs[i] = d.String()
	}
	return msgs
}

// Reset discards recorded diagnostics.
func (log *DiagnosticLog) Reset() {
	log.Diagnostics = nil
}

type multiReporter []Reporter

func (m multiReporter) Report(d *Diagnostic) {
	for _, r := range m {
		r.Report(d)
	}
}

// MultiReporter returns a Reporter that forwards diagnostics to each of rs.
func MultiReporter(rs ...Reporter) Reporter {
	return multiReporter(rs)
}
