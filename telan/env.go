// Copyright © 2018 The ELPS authors

package telan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/luthersystems/telan/parser/token"
)

// Env is an evaluation environment: the global bindings of a program and
// the operators it can call.  An Env is not safe for concurrent use.
type Env struct {
	Runtime  *Runtime
	globals  map[string]*Value
	builtins *OperatorTable
	resolver Resolver
}

// NewEnv returns an environment with the default built-in operators and an
// empty set of globals.  Configs are applied in order.
func NewEnv(config ...Config) (*Env, error) {
	return NewEnvRuntime(StandardRuntime(), config...)
}

// NewEnvRuntime is like NewEnv but uses the given runtime.  When rt is nil
// StandardRuntime is called to create one.
func NewEnvRuntime(rt *Runtime, config ...Config) (*Env, error) {
	if rt == nil {
		rt = StandardRuntime()
	}
	if rt.Stack == nil {
		rt.Stack = &CallStack{}
	}
	env := &Env{
		Runtime:  rt,
		globals:  make(map[string]*Value),
		builtins: DefaultBuiltins(),
	}
	env.resolver = layeredResolver{env.builtins, userOperators{env}}
	for _, fn := range config {
		if err := fn(env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// Get returns the global value bound to name.
func (env *Env) Get(name string) (*Value, bool) {
	v, ok := env.globals[name]
	return v, ok
}

// Put binds name to v, replacing any existing binding.
func (env *Env) Put(name string, v *Value) {
	env.globals[name] = v
}

// Names returns the sorted names of all global bindings.
func (env *Env) Names() []string {
	names := make([]string, 0, len(env.globals))
	for name := range env.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns the built-in operator table of env.
func (env *Env) Builtins() *OperatorTable {
	return env.builtins
}

// Resolve returns the operator called by name.  Built-in operators take
// priority over user definitions.
func (env *Env) Resolve(name string) (*Operator, bool) {
	return env.resolver.Resolve(name)
}

// Errorf reports a diagnostic at loc and returns the corresponding ERROR
// value.
func (env *Env) Errorf(kind ErrorKind, loc *token.Location, format string, v ...interface{}) *Value {
	d := &Diagnostic{
		Kind:    kind,
		Source:  loc,
		Message: fmt.Sprintf(format, v...),
		Stack:   env.Runtime.Stack.Snapshot(),
	}
	env.Runtime.Report(d)
	return ErrorValue(d)
}

// Eval evaluates node.  locals are the arguments of the user-defined
// operator call in progress, read by the get operator.
func (env *Env) Eval(node *Node, locals []*Value) *Value {
	if node.Malformed() {
		return env.Errorf(StructuralError, node.Err.Source, "%s", node.Err.Msg)
	}
	rest := node.Children
	for len(rest) > 0 && rest[0].IsSpace() {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return env.Errorf(UnknownCommand, node.Source, "Missing command")
	}

	var cmd *token.Token
	if rest[0].IsNode() {
		v := env.Eval(rest[0].Node, locals)
		cmd = v.Scalar()
		if cmd == nil {
			return env.Errorf(UnknownCommand, v.Source(), "Unknown command: %s", v.Text())
		}
	} else {
		cmd = rest[0].Token
	}

	args := env.evalArgs(rest[1:], locals)

	op, ok := env.Resolve(cmd.Text)
	if !ok {
		return env.Errorf(UnknownCommand, cmd.Source, "Unknown command: %s", cmd.Text)
	}
	return op.Call(env, cmd, args, locals)
}

// evalArgs builds the argument list of a form.  Whitespace is dropped, a
// quote marker leaves the next form unevaluated, other tokens are literal
// values and forms are evaluated.
func (env *Env) evalArgs(children []Child, locals []*Value) []*Value {
	args := make([]*Value, 0, len(children))
	quoted := false
	for _, c := range children {
		switch {
		case c.IsNode():
			if quoted {
				args = append(args, NodeValue(c.Node))
				quoted = false
				continue
			}
			args = append(args, env.Eval(c.Node, locals))
		case c.Token.Kind == token.WHITESPACE:
		case c.Token.IsQuote():
			quoted = true
		default:
			args = append(args, TokenValue(c.Token))
			quoted = false
		}
	}
	return args
}

// EvalProgram evaluates the top-level forms of root in order with empty
// locals and returns the value of the last one.  Top-level tokens are
// returned as literal values and quote markers apply as they do to
// arguments.  A malformed root is not evaluated and its StructureError is
// returned.
func (env *Env) EvalProgram(root *Node) (*Value, error) {
	if root.Malformed() {
		return nil, root.Err
	}
	result := Null(root.Source)
	for _, v := range env.evalArgs(root.Children, nil) {
		result = v
	}
	return result, nil
}

// Load reads a program from r using the runtime's Reader and evaluates it.
func (env *Env) Load(name string, r io.Reader) (*Value, error) {
	if env.Runtime.Reader == nil {
		return nil, errors.New("no reader for environment runtime")
	}
	root, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	return env.EvalProgram(root)
}

// LoadString evaluates the program in source.
func (env *Env) LoadString(name, source string) (*Value, error) {
	return env.Load(name, strings.NewReader(source))
}

// LoadFile evaluates the program in the file at path.
func (env *Env) LoadFile(path string) (*Value, error) {
	f, err := os.Open(path) //nolint:gosec // loads user-specified source files
	if err != nil {
		return nil, fmt.Errorf("unable to open source file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	return env.Load(path, f)
}
