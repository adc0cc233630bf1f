// Copyright © 2018 The ELPS authors

package telan

import "github.com/luthersystems/telan/parser/token"

// Version identifies the interpreter in profiler output.
const Version = "1.0"

// Profiler observes operator calls.
type Profiler interface {
	// IsEnabled returns true if the profiler should receive calls.
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// Complete ends the profiling session.
	Complete() error
	// Start marks the beginning of a call to op named by cmd.  The returned
	// function marks the end of the call.
	Start(op *Operator, cmd *token.Token) func()
}
