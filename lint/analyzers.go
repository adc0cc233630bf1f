// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"math"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

// AnalyzerIfElseUnquoted warns when an ifelse branch is an unquoted form.
var AnalyzerIfElseUnquoted = &Analyzer{
	Name:     "ifelse-unquoted",
	Severity: SeverityWarning,
	Doc:      "Warn when an ifelse branch is an unquoted form.\n\nArguments are evaluated before ifelse runs, so both branches of (ifelse c (a) (b)) are evaluated whatever the condition. Quote the branches and evaluate the chosen one with exec: (exec (ifelse c '(a) '(b))).",
	Run: func(pass *Pass) error {
		WalkCode(pass.Root, func(form *telan.Node, depth int) {
			if HeadName(form) != "ifelse" {
				return
			}
			for i, arg := range Args(form) {
				if i == 0 || i > 2 || !arg.IsNode() || arg.Quoted {
					continue
				}
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(arg.Node.Source),
					Message: "ifelse branch is evaluated whether or not it is taken",
				}, "quote the branches and wrap the ifelse in exec")
			}
		})
		return nil
	},
}

// AnalyzerWhileUnquoted reports while arguments that are not quoted forms.
var AnalyzerWhileUnquoted = &Analyzer{
	Name:     "while-unquoted",
	Severity: SeverityError,
	Doc:      "Check that every while argument is a quoted form.\n\nwhile re-evaluates its condition and body forms on each iteration, so each must be passed unevaluated. An unquoted form is evaluated once, before the loop starts, and its value fails the AST type check.",
	Run: func(pass *Pass) error {
		WalkCode(pass.Root, func(form *telan.Node, depth int) {
			if HeadName(form) != "while" {
				return
			}
			for i, arg := range Args(form) {
				if arg.IsNode() && arg.Quoted {
					continue
				}
				what := "body form"
				if i == 0 {
					what = "condition"
				}
				pass.Reportf(arg.Source(), "while %s must be a quoted form", what)
			}
		})
		return nil
	},
}

// AnalyzerUnknownCommand reports commands that are neither built-in nor
// defined with setf in the same file.
var AnalyzerUnknownCommand = &Analyzer{
	Name:     "unknown-command",
	Severity: SeverityWarning,
	Doc:      "Warn about commands that are not built-in and not defined in the file.\n\nOperators defined with setf anywhere in the file are considered known. Operators defined by other files loaded into the same environment are not visible to this check.",
	Run: func(pass *Pass) error {
		userDefs := UserDefined(pass.Root)
		WalkCode(pass.Root, func(form *telan.Node, depth int) {
			head := Head(form)
			if head == nil {
				return
			}
			if _, ok := pass.Builtins.Resolve(head.Text); ok || userDefs[head.Text] {
				return
			}
			pass.Reportf(head.Source, "unknown command: %s", head.Text)
		})
		return nil
	},
}

// AnalyzerBuiltinArity checks argument counts of built-in operator calls.
var AnalyzerBuiltinArity = &Analyzer{
	Name:     "builtin-arity",
	Severity: SeverityError,
	Doc:      "Check argument counts for calls to built-in operators.\n\nBuilt-in operators always take precedence over definitions of the same name, so their argument bounds are known before the program runs.",
	Run: func(pass *Pass) error {
		WalkCode(pass.Root, func(form *telan.Node, depth int) {
			head := Head(form)
			if head == nil {
				return
			}
			op, ok := pass.Builtins.Resolve(head.Text)
			if !ok {
				return
			}
			argc := len(Args(form))
			if argc < op.MinArgs {
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(head.Source),
					Message: fmt.Sprintf("%s requires at least %d argument(s), got %d", op.Name, op.MinArgs, argc),
				}, "usage: "+op.Signature())
			}
			if op.MaxArgs != telan.Unbounded && argc > op.MaxArgs {
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(head.Source),
					Message: fmt.Sprintf("%s accepts at most %d argument(s), got %d", op.Name, op.MaxArgs, argc),
				}, "usage: "+op.Signature())
			}
		})
		return nil
	},
}

// AnalyzerSetfShape checks the structure of operator definitions.
var AnalyzerSetfShape = &Analyzer{
	Name:     "setf-shape",
	Severity: SeverityError,
	Doc:      "Check the structure of setf definitions.\n\nA definition needs a name token, integer argument bounds, a quoted list of argument types, and a quoted body. Definitions that reuse a built-in name are never called.",
	Run: func(pass *Pass) error {
		WalkCode(pass.Root, func(form *telan.Node, depth int) {
			if HeadName(form) != "setf" {
				return
			}
			args := Args(form)
			if len(args) != 5 {
				return
			}
			checkSetfName(pass, args[0])
			checkSetfBounds(pass, args[1], args[2])
			if checkQuoted(pass, args[3], "type list") {
				if _, err := telan.ParseTypeList(args[3].Node); err != nil {
					pass.Reportf(args[3].Source(), "invalid type list: %v", unwrapLocation(err))
				}
			}
			checkQuoted(pass, args[4], "body")
		})
		return nil
	},
}

func checkSetfName(pass *Pass, name Arg) {
	switch {
	case name.IsNode() && name.Quoted:
		pass.Reportf(name.Source(), "setf name must be a token")
	case name.IsNode():
		// computed at runtime
	default:
		if _, ok := pass.Builtins.Resolve(name.Token.Text); ok {
			pass.Reportf(name.Source(), "setf of built-in %s has no effect; calls always reach the built-in", name.Token.Text)
		}
	}
}

func checkSetfBounds(pass *Pass, minArg, maxArg Arg) {
	lo, okLo := setfBound(pass, minArg)
	hi, okHi := setfBound(pass, maxArg)
	if okLo && lo < 0 {
		pass.Reportf(minArg.Source(), "minimum argument count must not be negative")
	}
	if okLo && okHi && hi >= 0 && hi < lo {
		pass.Reportf(maxArg.Source(), "maximum argument count %s is less than minimum %s",
			telan.FormatNumber(hi), telan.FormatNumber(lo))
	}
}

// setfBound returns the literal value of an argument count.  Computed counts
// are not checked.
func setfBound(pass *Pass, arg Arg) (float64, bool) {
	if arg.IsNode() {
		if arg.Quoted {
			pass.Reportf(arg.Source(), "argument count must be a number")
		}
		return 0, false
	}
	if arg.Token.Kind != token.NUMBER {
		pass.Reportf(arg.Source(), "argument count must be a number, found %s", arg.Token.Kind)
		return 0, false
	}
	x, err := telan.ParseNumber(arg.Token.Text)
	if err != nil {
		pass.Reportf(arg.Source(), "%v", err)
		return 0, false
	}
	if x != math.Trunc(x) {
		pass.Reportf(arg.Source(), "argument count %s is not an integer", arg.Token.Text)
		return 0, false
	}
	return x, true
}

func checkQuoted(pass *Pass, arg Arg, what string) bool {
	if arg.IsNode() && arg.Quoted {
		return true
	}
	pass.Reportf(arg.Source(), "setf %s must be a quoted form", what)
	return false
}

func unwrapLocation(err error) error {
	if lerr, ok := err.(*token.LocationError); ok {
		return lerr.Err
	}
	return err
}
