// Copyright © 2018 The ELPS authors

package telan

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/telan/parser/token"
)

func types(ts ...ParamType) []ParamType {
	return ts
}

var langBuiltins = []*Operator{
	{"+", 2, Unbounded, types(TypeNumber), builtinAdd,
		`Returns the sum of its arguments.`, false},
	{"-", 2, Unbounded, types(TypeNumber), builtinSub,
		`Subtracts each argument after the first from the first, left to
		right.`, false},
	{"*", 2, Unbounded, types(TypeNumber), builtinMul,
		`Returns the product of its arguments.`, false},
	{"/", 2, Unbounded, types(TypeNumber), builtinDiv,
		`Divides the first argument by each following argument, left to
		right. Dividing by zero is an arithmetic error.`, false},
	{"ifelse", 3, 3, types(TypeBool, TypeAnyAST, TypeAnyAST), builtinIfElse,
		`Returns the second argument if the condition is true and the third
		otherwise. The chosen value is returned as is; quote both branches
		and pass the result to exec to evaluate only the taken branch.`, false},
	{"last", 1, Unbounded, types(TypeAnyAST), builtinLast,
		`Returns its final argument.`, false},
	{"eq", 2, 2, types(TypeAny), builtinEq,
		`Returns true if both arguments have the same kind and value.
		Numbers compare numerically, everything else compares as text.`, false},
	{"gt", 2, 2, types(TypeNumber), builtinGt,
		`Returns true if the first number is greater than the second.`, false},
	{"lt", 2, 2, types(TypeNumber), builtinLt,
		`Returns true if the first number is less than the second.`, false},
	{"not", 1, 1, types(TypeBool), builtinNot,
		`Returns the boolean negation of its argument.`, false},
	{"and", 2, Unbounded, types(TypeBool), builtinAnd,
		`Returns true if every argument is true. All arguments are evaluated
		before and runs.`, false},
	{"or", 2, Unbounded, types(TypeBool), builtinOr,
		`Returns true if any argument is true. All arguments are evaluated
		before or runs.`, false},
	{"input", 1, 2, types(TypeString), builtinInput,
		`Reads a line from standard input after writing the optional prompt.
		The first argument names the kind of the returned token, e.g.
		"NUMBER" or "STRING".`, false},
	{"print", 1, Unbounded, types(TypeAny), builtinPrint,
		`Writes its arguments to standard output separated by spaces and
		followed by a newline.`, false},
	{"set", 2, 2, types(TypeAny, TypeAnyAST), builtinSet,
		`Binds the global name given by the first argument to the second
		argument. A quoted form is bound unevaluated.`, false},
	{"setf", 5, 5, types(TypeAny, TypeNumber, TypeNumber, TypeAST, TypeAST), builtinSetf,
		`Defines an operator: name, minimum and maximum argument counts (a
		negative maximum is unbounded), a quoted list of argument types, and
		a quoted body. Inside the body (get n) returns argument n.`, false},
	{"get", 1, 1, types(TypeNumber), builtinGet,
		`Returns argument n of the operator call being evaluated, or NULL.`, false},
	{"load", 1, 1, types(TypeAny), builtinLoad,
		`Returns the value bound to a global name, or NULL.`, false},
	{"while", 2, Unbounded, types(TypeAST), builtinWhile,
		`Evaluates the quoted condition and, while it is true, evaluates the
		quoted body forms in order.`, false},
	{"exec", 1, Unbounded, types(TypeAST), builtinExec,
		`Evaluates the quoted forms in order and returns the value of the
		last.`, false},
	{"concat", 1, Unbounded, types(TypeAny), builtinConcat,
		`Returns a string joining the text of its arguments.`, false},
}

var defaultBuiltins = NewOperatorTable(langBuiltins...)

// DefaultBuiltins returns the built-in operator table.  The table is shared
// and never modified.
func DefaultBuiltins() *OperatorTable {
	return defaultBuiltins
}

func (env *Env) number(v *Value) (float64, *Value) {
	x, err := ParseNumber(v.Text())
	if err != nil {
		return 0, env.Errorf(ArithmeticError, v.Source(), "%v", err)
	}
	return x, nil
}

// fold applies fn left to right over the numeric arguments.
func fold(env *Env, args []*Value, fn func(acc, x float64, arg *Value) (float64, *Value)) *Value {
	acc, lerr := env.number(args[0])
	if lerr != nil {
		return lerr
	}
	for _, arg := range args[1:] {
		x, lerr := env.number(arg)
		if lerr != nil {
			return lerr
		}
		acc, lerr = fn(acc, x, arg)
		if lerr != nil {
			return lerr
		}
	}
	return Number(acc, args[0].Source())
}

func builtinAdd(env *Env, args []*Value, _ []*Value) *Value {
	return fold(env, args, func(acc, x float64, _ *Value) (float64, *Value) {
		return acc + x, nil
	})
}

func builtinSub(env *Env, args []*Value, _ []*Value) *Value {
	return fold(env, args, func(acc, x float64, _ *Value) (float64, *Value) {
		return acc - x, nil
	})
}

func builtinMul(env *Env, args []*Value, _ []*Value) *Value {
	return fold(env, args, func(acc, x float64, _ *Value) (float64, *Value) {
		return acc * x, nil
	})
}

func builtinDiv(env *Env, args []*Value, _ []*Value) *Value {
	return fold(env, args, func(acc, x float64, arg *Value) (float64, *Value) {
		if x == 0 {
			return 0, env.Errorf(ArithmeticError, arg.Source(), "Division by zero")
		}
		return acc / x, nil
	})
}

func builtinIfElse(env *Env, args []*Value, _ []*Value) *Value {
	if args[0].IsTrue() {
		return args[1]
	}
	return args[2]
}

func builtinLast(env *Env, args []*Value, _ []*Value) *Value {
	return args[len(args)-1]
}

func builtinEq(env *Env, args []*Value, _ []*Value) *Value {
	a, b := args[0], args[1]
	loc := a.Source()
	if a.Kind() != b.Kind() {
		return Bool(false, loc)
	}
	if a.Kind() == token.NUMBER {
		x, errx := ParseNumber(a.Text())
		y, erry := ParseNumber(b.Text())
		if errx == nil && erry == nil {
			return Bool(x == y, loc)
		}
	}
	return Bool(a.Text() == b.Text(), loc)
}

func compare(env *Env, args []*Value, fn func(x, y float64) bool) *Value {
	x, lerr := env.number(args[0])
	if lerr != nil {
		return lerr
	}
	y, lerr := env.number(args[1])
	if lerr != nil {
		return lerr
	}
	return Bool(fn(x, y), args[0].Source())
}

func builtinGt(env *Env, args []*Value, _ []*Value) *Value {
	return compare(env, args, func(x, y float64) bool { return x > y })
}

func builtinLt(env *Env, args []*Value, _ []*Value) *Value {
	return compare(env, args, func(x, y float64) bool { return x < y })
}

func builtinNot(env *Env, args []*Value, _ []*Value) *Value {
	return Bool(!args[0].IsTrue(), args[0].Source())
}

func builtinAnd(env *Env, args []*Value, _ []*Value) *Value {
	for _, arg := range args {
		if !arg.IsTrue() {
			return Bool(false, arg.Source())
		}
	}
	return Bool(true, args[0].Source())
}

func builtinOr(env *Env, args []*Value, _ []*Value) *Value {
	for _, arg := range args {
		if arg.IsTrue() {
			return Bool(true, arg.Source())
		}
	}
	return Bool(false, args[0].Source())
}

func builtinInput(env *Env, args []*Value, _ []*Value) *Value {
	kind, ok := token.ParseKind(args[0].Text())
	if !ok {
		return env.Errorf(InputError, args[0].Source(), "Unknown token kind: %s", args[0].Text())
	}
	if len(args) > 1 {
		fmt.Fprint(env.Runtime.Stdout, args[1].Text()) //nolint:errcheck // best-effort prompt
	}
	line, err := env.Runtime.Stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return env.Errorf(InputError, args[0].Source(), "Unexpected end of input")
		}
		return env.Errorf(InputError, args[0].Source(), "Unable to read input: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return TokenValue(&token.Token{Kind: kind, Text: line, Source: args[0].Source()})
}

func builtinPrint(env *Env, args []*Value, _ []*Value) *Value {
	texts := make([]string, len(args))
	for i, arg := range args {
		texts[i] = arg.Text()
	}
	fmt.Fprintln(env.Runtime.Stdout, strings.Join(texts, " ")) //nolint:errcheck // best-effort output
	return nil
}

func builtinSet(env *Env, args []*Value, _ []*Value) *Value {
	env.Put(args[0].Text(), args[1])
	return nil
}

func builtinSetf(env *Env, args []*Value, _ []*Value) *Value {
	name := args[0]
	record := NewNode(name.Source(),
		TokenChild(args[1].Token),
		TokenChild(args[2].Token),
		NodeChild(args[3].Node),
		NodeChild(args[4].Node),
	)
	op, err := UserOperator(name.Text(), record)
	if err != nil {
		loc := args[3].Source()
		var lerr *token.LocationError
		if errors.As(err, &lerr) {
			loc, err = lerr.Source, lerr.Err
		}
		return env.Errorf(DefinitionError, loc, "Invalid definition of %s: %v", name.Text(), err)
	}
	if op.MaxArgs != Unbounded && op.MaxArgs < op.MinArgs {
		return env.Errorf(DefinitionError, args[2].Source(), "Invalid definition of %s: maximum argument count is less than minimum", name.Text())
	}
	env.Put(name.Text(), NodeValue(record))
	return nil
}

func builtinGet(env *Env, args []*Value, locals []*Value) *Value {
	i, ok := parseIndex(args[0].Text())
	if !ok || i >= len(locals) {
		return Null(args[0].Source())
	}
	return locals[i]
}

func builtinLoad(env *Env, args []*Value, _ []*Value) *Value {
	v, ok := env.Get(args[0].Text())
	if !ok {
		return Null(args[0].Source())
	}
	return v
}

func builtinWhile(env *Env, args []*Value, locals []*Value) *Value {
	for env.Eval(args[0].Node, locals).IsTrue() {
		for _, body := range args[1:] {
			env.Eval(body.Node, locals)
		}
	}
	return nil
}

func builtinExec(env *Env, args []*Value, locals []*Value) *Value {
	var result *Value
	for _, arg := range args {
		result = env.Eval(arg.Node, locals)
	}
	return result
}

func builtinConcat(env *Env, args []*Value, _ []*Value) *Value {
	var buf strings.Builder
	for _, arg := range args {
		buf.WriteString(arg.Text())
	}
	return String(buf.String(), args[0].Source())
}
