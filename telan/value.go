// Copyright © 2018 The ELPS authors

package telan

import (
	"github.com/luthersystems/telan/parser/token"
)

// VType is the variant tag of a Value.
type VType uint8

// Possible VType values
const (
	// VInvalid (0) is not a valid value type.
	VInvalid VType = iota
	// VToken values hold a scalar token in Value.Token.
	VToken
	// VNode values hold an unevaluated syntax node in Value.Node.  They are
	// produced only for quoted arguments and by operators which pass their
	// quoted arguments through.
	VNode
	// VNull values stand in for an absent value.  Value.Token holds the
	// OTHER/NULL sentinel token.
	VNull
	// VError values stand in for a failed computation.  Value.Token holds the
	// OTHER/ERROR sentinel token and Value.Cause the diagnostic that was
	// reported.
	VError
)

var vtypeStrings = []string{
	VInvalid: "INVALID",
	VToken:   "token",
	VNode:    "node",
	VNull:    "null",
	VError:   "error",
}

func (t VType) String() string {
	if int(t) >= len(vtypeStrings) {
		return vtypeStrings[VInvalid]
	}
	return vtypeStrings[t]
}

// Value is the result of evaluating a form.
type Value struct {
	Type  VType
	Token *token.Token
	Node  *Node
	Cause *Diagnostic
}

// TokenValue returns a VToken value holding tok.
func TokenValue(tok *token.Token) *Value {
	return &Value{Type: VToken, Token: tok}
}

// NodeValue returns a VNode value holding n.
func NodeValue(n *Node) *Value {
	return &Value{Type: VNode, Node: n}
}

// Null returns a VNull value at loc.
func Null(loc *token.Location) *Value {
	return &Value{Type: VNull, Token: token.Null(loc)}
}

// ErrorValue returns a VError value for the reported diagnostic d.
func ErrorValue(d *Diagnostic) *Value {
	return &Value{Type: VError, Token: token.Error(d.Source), Cause: d}
}

// Number returns a NUMBER value at loc.
func Number(x float64, loc *token.Location) *Value {
	return TokenValue(&token.Token{Kind: token.NUMBER, Text: FormatNumber(x), Source: loc})
}

// String returns a STRING value at loc.
func String(s string, loc *token.Location) *Value {
	return TokenValue(&token.Token{Kind: token.STRING, Text: s, Source: loc})
}

// Bool returns a BOOL value at loc.
func Bool(b bool, loc *token.Location) *Value {
	text := "false"
	if b {
		text = "true"
	}
	return TokenValue(&token.Token{Kind: token.BOOL, Text: text, Source: loc})
}

// IsNull returns true if v is VNull.
func (v *Value) IsNull() bool {
	return v.Type == VNull
}

// IsError returns true if v is VError.
func (v *Value) IsError() bool {
	return v.Type == VError
}

// IsTrue returns true if v is the BOOL token true.
func (v *Value) IsTrue() bool {
	return v.Type == VToken && v.Token.Kind == token.BOOL && v.Token.Text == "true"
}

// Scalar returns the token carried by v, including the sentinel tokens of
// VNull and VError.  Scalar returns nil for VNode values.
func (v *Value) Scalar() *token.Token {
	switch v.Type {
	case VToken, VNull, VError:
		return v.Token
	default:
		return nil
	}
}

// Kind returns the token kind of a scalar value and INVALID for a node.
func (v *Value) Kind() token.Kind {
	if tok := v.Scalar(); tok != nil {
		return tok.Kind
	}
	return token.INVALID
}

// Text returns the literal text of a scalar value or the source text of a
// node.
func (v *Value) Text() string {
	switch v.Type {
	case VToken, VNull, VError:
		return v.Token.Text
	case VNode:
		return v.Node.String()
	default:
		return ""
	}
}

// Source returns the position associated with v.
func (v *Value) Source() *token.Location {
	switch v.Type {
	case VToken, VNull, VError:
		return v.Token.Source
	case VNode:
		return v.Node.Source
	default:
		return nil
	}
}

// Equal returns true if v and other are the same variant with the same
// kind and text.  Positions are ignored.
func (v *Value) Equal(other *Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case VNode:
		return v.Node.String() == other.Node.String()
	default:
		return v.Kind() == other.Kind() && v.Text() == other.Text()
	}
}

// String returns a readable representation of v.  STRING tokens are quoted
// and nodes are prefixed with the quote marker.
func (v *Value) String() string {
	switch v.Type {
	case VToken:
		return tokenSource(v.Token)
	case VNull, VError:
		return v.Token.Text
	case VNode:
		return token.QuoteText + v.Node.String()
	default:
		return VInvalid.String()
	}
}
