// Copyright © 2018 The ELPS authors

/*
Package telan implements the evaluator for the telan scripting language.

A program is a tree of Node values produced by the parser package.  Each
parenthesized form names an operator in its first child and supplies
arguments in the remaining children.  Arguments are evaluated before the
operator runs unless they are preceded by the quote marker ', in which case
the syntax node itself is passed along.  Quoting is the only source of
laziness in the language: control flow operators like while and exec
receive quoted code and evaluate it themselves.

Runtime errors never stop evaluation.  They are reported to the runtime's
Reporter as a Diagnostic and an ERROR value takes the place of the failed
computation.
*/
package telan
