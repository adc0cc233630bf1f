// Copyright © 2018 The ELPS authors

package telan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaximumDepth is the call depth limit of a StandardRuntime.
const DefaultMaximumDepth = 10000

// ErrorMode selects how operators treat ERROR arguments.
type ErrorMode uint8

const (
	// ErrorsContinue passes ERROR values to operators like any other token.
	// A failure deep in an expression may then cause further diagnostics in
	// the expressions that consume it.
	ErrorsContinue ErrorMode = iota
	// ErrorsPropagate makes an operator that receives an ERROR argument
	// return that value without checking arguments or running its action.
	ErrorsPropagate
)

func (m ErrorMode) String() string {
	if m == ErrorsPropagate {
		return "propagate"
	}
	return "continue"
}

// ParseErrorMode returns the ErrorMode named by s.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ErrorsContinue, nil
	case "propagate":
		return ErrorsPropagate, nil
	}
	return ErrorsContinue, fmt.Errorf("unknown error mode: %q", s)
}

// Reader parses a source stream into a program root.
type Reader interface {
	Read(name string, r io.Reader) (*Node, error)
}

// Runtime holds the state shared by evaluation: standard streams, the
// diagnostic reporter, and the call stack.
type Runtime struct {
	Stdin     *bufio.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Reporter  Reporter // when nil diagnostics are written to Stderr
	Stack     *CallStack
	ErrorMode ErrorMode
	Profiler  Profiler
	Reader    Reader
}

// StandardRuntime returns a Runtime using the process's standard streams.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdin:  bufio.NewReader(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stack:  &CallStack{MaxHeight: DefaultMaximumDepth},
	}
}

// Report sends d to the runtime's reporter.
func (r *Runtime) Report(d *Diagnostic) {
	if r.Reporter != nil {
		r.Reporter.Report(d)
		return
	}
	(&WriterReporter{W: r.Stderr}).Report(d)
}
