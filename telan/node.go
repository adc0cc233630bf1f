// Copyright © 2018 The ELPS authors

package telan

import (
	"fmt"
	"strings"

	"github.com/luthersystems/telan/parser/token"
)

// Child is an element of a Node.  Exactly one of Token and Node is non-nil.
type Child struct {
	Token *token.Token
	Node  *Node
}

// TokenChild returns a Child holding tok.
func TokenChild(tok *token.Token) Child {
	return Child{Token: tok}
}

// NodeChild returns a Child holding n.
func NodeChild(n *Node) Child {
	return Child{Node: n}
}

// IsNode returns true if c holds a Node.
func (c Child) IsNode() bool {
	return c.Node != nil
}

// IsSpace returns true if c is a whitespace token.
func (c Child) IsSpace() bool {
	return c.Token != nil && c.Token.Kind == token.WHITESPACE
}

// Source returns the position of c.
func (c Child) Source() *token.Location {
	if c.Node != nil {
		return c.Node.Source
	}
	return c.Token.Source
}

// Node is one parenthesized form.  Nodes are never modified after they are
// built.
type Node struct {
	Children []Child
	Source   *token.Location

	// Err is set on a program root that could not be built.  A node with a
	// non-nil Err must not be evaluated.
	Err *StructureError
}

// NewNode returns a Node at loc with the given children.
func NewNode(loc *token.Location, children ...Child) *Node {
	return &Node{Children: children, Source: loc}
}

// Malformed returns true if n is the result of a failed tree build.
func (n *Node) Malformed() bool {
	return n.Err != nil
}

// Elements returns the children of n that are not whitespace.
func (n *Node) Elements() []Child {
	elems := make([]Child, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsSpace() {
			elems = append(elems, c)
		}
	}
	return elems
}

func (n *Node) String() string {
	var buf strings.Builder
	n.write(&buf)
	return buf.String()
}

// write renders n as source text.  Adjacent elements that are not separated
// by whitespace in the tree are separated by a single space, except after a
// quote marker.
func (n *Node) write(buf *strings.Builder) {
	buf.WriteByte('(')
	sep := false
	for _, c := range n.Children {
		switch {
		case c.IsSpace():
			buf.WriteString(c.Token.Text)
			sep = false
			continue
		case sep:
			buf.WriteByte(' ')
		}
		if c.Node != nil {
			c.Node.write(buf)
			sep = true
			continue
		}
		buf.WriteString(tokenSource(c.Token))
		sep = !c.Token.IsQuote()
	}
	buf.WriteByte(')')
}

func tokenSource(tok *token.Token) string {
	if tok.Kind == token.STRING {
		return `"` + tok.Text + `"`
	}
	return tok.Text
}

// StructureError is returned when a token sequence does not form a tree.
type StructureError struct {
	Source *token.Location
	Msg    string
}

func (err *StructureError) Error() string {
	if err.Source == nil {
		return err.Msg
	}
	return fmt.Sprintf("Line %d Chr %d: %s", err.Source.Line, err.Source.Col, err.Msg)
}
