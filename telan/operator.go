// Copyright © 2018 The ELPS authors

package telan

import (
	"bytes"
	"fmt"

	"github.com/luthersystems/telan/parser/token"
)

// Action runs an operator on checked arguments.  locals holds the arguments
// of the user-defined operator call being evaluated.  An Action returning
// nil is a void operator and yields NULL.
type Action func(env *Env, args []*Value, locals []*Value) *Value

// Unbounded is the MaxArgs of a variadic operator.
const Unbounded = -1

// Operator describes a callable operator: its arity bounds, positional type
// signature, and action.
type Operator struct {
	Name    string
	MinArgs int
	MaxArgs int // Unbounded for no limit
	// Params constrains arguments positionally.  Arguments beyond the end of
	// Params are constrained by its last element.
	Params []ParamType
	Action Action
	Doc    string
	// User is true for operators defined with setf.
	User bool
}

// ParamType returns the constraint on argument i.
func (op *Operator) ParamType(i int) ParamType {
	if len(op.Params) == 0 {
		return TypeAnyAST
	}
	if i < len(op.Params) {
		return op.Params[i]
	}
	return op.Params[len(op.Params)-1]
}

// Call checks args against the operator's arity and types and, if they are
// acceptable, runs the action.  Failures are reported through env and
// returned as ERROR values.  cmd is the token naming the operator.
func (op *Operator) Call(env *Env, cmd *token.Token, args []*Value, locals []*Value) *Value {
	if env.Runtime.ErrorMode == ErrorsPropagate {
		for _, arg := range args {
			if arg.IsError() {
				return arg
			}
		}
	}
	if len(args) < op.MinArgs {
		loc := cmd.Source
		if len(args) > 0 {
			loc = args[len(args)-1].Source()
		}
		return env.Errorf(ArityError, loc, "Expected at least %d arguments", op.MinArgs)
	}
	if op.MaxArgs != Unbounded && len(args) > op.MaxArgs {
		return env.Errorf(ArityError, args[op.MaxArgs].Source(), "Expected at most %d arguments", op.MaxArgs)
	}
	for i, arg := range args {
		t := op.ParamType(i)
		if !t.Matches(arg) {
			return env.Errorf(TypeError, arg.Source(), "Expected argument of type %s", t)
		}
	}

	stack := env.Runtime.Stack
	if !stack.Push(CallFrame{Name: op.Name, Source: cmd.Source, User: op.User}) {
		return env.Errorf(DepthError, cmd.Source, "Maximum call depth exceeded (%d)", stack.MaxHeight)
	}
	defer stack.Pop()
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(op, cmd)()
	}

	result := op.Action(env, args, locals)
	if result == nil {
		loc := cmd.Source
		if len(args) > 0 {
			loc = args[0].Source()
		}
		return Null(loc)
	}
	return result
}

// Signature returns a one line description of the operator's arguments,
// e.g. "(+ NUMBER NUMBER [NUMBER...])".
func (op *Operator) Signature() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(op.Name)
	n := op.MinArgs
	if op.MaxArgs > n {
		n = op.MaxArgs
	}
	for i := 0; i < n; i++ {
		t := op.ParamType(i)
		if i >= op.MinArgs {
			fmt.Fprintf(&buf, " [%s]", t)
		} else {
			fmt.Fprintf(&buf, " %s", t)
		}
	}
	if op.MaxArgs == Unbounded {
		fmt.Fprintf(&buf, " [%s...]", op.ParamType(n))
	}
	buf.WriteString(")")
	return buf.String()
}
