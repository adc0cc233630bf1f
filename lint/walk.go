// Copyright © 2024 The ELPS authors

package lint

import (
	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

// Arg is an argument of a form as the evaluator sees it.  Quote markers are
// not arguments; they set Quoted on the form that follows them.
type Arg struct {
	telan.Child
	Quoted bool
}

func foldQuotes(children []telan.Child) []Arg {
	var args []Arg
	quoted := false
	for _, c := range children {
		switch {
		case c.IsSpace():
		case !c.IsNode() && c.Token.IsQuote():
			quoted = true
		case c.IsNode():
			args = append(args, Arg{Child: c, Quoted: quoted})
			quoted = false
		default:
			args = append(args, Arg{Child: c})
			quoted = false
		}
	}
	return args
}

// Head returns the token in command position of form, or nil when the form
// is empty or its command is itself a form.
func Head(form *telan.Node) *token.Token {
	elems := form.Elements()
	if len(elems) == 0 || elems[0].IsNode() {
		return nil
	}
	return elems[0].Token
}

// HeadName returns the command name of form, or "".
func HeadName(form *telan.Node) string {
	if tok := Head(form); tok != nil {
		return tok.Text
	}
	return ""
}

// Args returns the arguments of form, everything after its command.
func Args(form *telan.Node) []Arg {
	elems := form.Elements()
	if len(elems) == 0 {
		return nil
	}
	return foldQuotes(elems[1:])
}

// TopLevel returns the top-level values of a program root.
func TopLevel(root *telan.Node) []Arg {
	return foldQuotes(root.Children)
}

// Walk calls fn for every form in the tree, depth-first.  parent is nil for
// top-level forms.
func Walk(root *telan.Node, fn func(form, parent *telan.Node, depth int)) {
	for _, c := range root.Children {
		if c.IsNode() {
			walkNode(c.Node, nil, 0, fn)
		}
	}
}

func walkNode(form, parent *telan.Node, depth int, fn func(*telan.Node, *telan.Node, int)) {
	fn(form, parent, depth)
	for _, c := range form.Children {
		if c.IsNode() {
			walkNode(c.Node, form, depth+1, fn)
		}
	}
}

// WalkCode calls fn for every form that is evaluated as code: unquoted
// forms, and quoted forms passed where an operator evaluates them (exec and
// while arguments, ifelse branches, setf bodies).  Quoted data such as setf
// type lists is skipped.
func WalkCode(root *telan.Node, fn func(form *telan.Node, depth int)) {
	for _, arg := range TopLevel(root) {
		if arg.IsNode() && !arg.Quoted {
			walkCode(arg.Node, 0, fn)
		}
	}
}

func walkCode(form *telan.Node, depth int, fn func(*telan.Node, int)) {
	fn(form, depth)
	elems := form.Elements()
	if len(elems) > 0 && elems[0].IsNode() {
		walkCode(elems[0].Node, depth+1, fn)
	}
	head := HeadName(form)
	for i, arg := range Args(form) {
		if !arg.IsNode() {
			continue
		}
		if !arg.Quoted || quotedCode(head, i) {
			walkCode(arg.Node, depth+1, fn)
		}
	}
}

// quotedCode returns true if argument i of the named built-in is a quoted
// form the operator evaluates.
func quotedCode(head string, i int) bool {
	switch head {
	case "exec", "while":
		return true
	case "ifelse":
		return i == 1 || i == 2
	case "setf":
		return i == 4
	}
	return false
}

// UserDefined returns the names defined with setf anywhere in the program.
func UserDefined(root *telan.Node) map[string]bool {
	defs := make(map[string]bool)
	WalkCode(root, func(form *telan.Node, depth int) {
		if HeadName(form) != "setf" {
			return
		}
		args := Args(form)
		if len(args) > 0 && !args[0].IsNode() {
			defs[args[0].Token.Text] = true
		}
	})
	return defs
}
