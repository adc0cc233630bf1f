// Copyright © 2018 The ELPS authors

package parser

import (
	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

// Build arranges the tokens of src into a tree.  Each "(" opens a node that
// the matching ")" closes; the parentheses themselves are not kept.  All
// other tokens, whitespace included, become children of the innermost open
// node, in order.
//
// When the parentheses do not balance Build still returns the root, marked
// malformed, along with the *telan.StructureError describing the problem.
func Build(name string, src token.Source) (*telan.Node, error) {
	root := telan.NewNode(&token.Location{File: name, Line: 1, Col: 1})
	stack := []*telan.Node{root}
	for src.Scan() {
		tok := src.Token()
		if tok.Kind != token.PAREN {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, telan.TokenChild(tok))
			continue
		}
		switch tok.Text {
		case "(":
			n := telan.NewNode(tok.Source)
			top := stack[len(stack)-1]
			top.Children = append(top.Children, telan.NodeChild(n))
			stack = append(stack, n)
		case ")":
			if len(stack) == 1 {
				return malformed(root, tok.Source, "Unexpected closing parenthesis")
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return malformed(root, open.Source, "Unclosed parenthesis")
	}
	return root, nil
}

func malformed(root *telan.Node, loc *token.Location, msg string) (*telan.Node, error) {
	root.Err = &telan.StructureError{Source: loc, Msg: msg}
	return root, root.Err
}

// BuildTokens is like Build but reads from a token slice.
func BuildTokens(name string, toks []*token.Token) (*telan.Node, error) {
	return Build(name, NewTokenSource(toks))
}

// OpenDepth returns the number of parentheses in toks that are opened and
// not closed.  The result is negative when there are stray closing
// parentheses.
func OpenDepth(toks []*token.Token) int {
	depth := 0
	for _, tok := range toks {
		if tok.Kind != token.PAREN {
			continue
		}
		switch tok.Text {
		case "(":
			depth++
		case ")":
			depth--
		}
	}
	return depth
}
