// Copyright © 2018 The ELPS authors

package telan

import (
	"bufio"
	"io"
)

// Config is a function that configures an environment or its runtime.
type Config func(env *Env) error

// WithStdin returns a Config that makes the input operator read from r.
func WithStdin(r io.Reader) Config {
	return func(env *Env) error {
		env.Runtime.Stdin = bufio.NewReader(r)
		return nil
	}
}

// WithStdout returns a Config that makes the print operator write to w.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write diagnostics to
// w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithReporter returns a Config that sends diagnostics to r instead of
// writing them to the runtime's Stderr.
func WithReporter(r Reporter) Config {
	return func(env *Env) error {
		env.Runtime.Reporter = r
		return nil
	}
}

// WithMaximumDepth returns a Config that limits the call stack to n frames.
// A value of zero or less removes the limit.
func WithMaximumDepth(n int) Config {
	return func(env *Env) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithErrorMode returns a Config that sets how ERROR arguments are handled.
func WithErrorMode(m ErrorMode) Config {
	return func(env *Env) error {
		env.Runtime.ErrorMode = m
		return nil
	}
}

// WithProfiler returns a Config that enables p and attaches it to the
// runtime.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithOperators returns a Config that adds ops to the built-in operator
// table.  Added operators replace built-ins of the same name.
func WithOperators(ops ...*Operator) Config {
	return func(env *Env) error {
		env.builtins = env.builtins.With(ops...)
		env.resolver = layeredResolver{env.builtins, userOperators{env}}
		return nil
	}
}
