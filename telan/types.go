// Copyright © 2018 The ELPS authors

package telan

import (
	"fmt"
	"strings"

	"github.com/luthersystems/telan/parser/token"
)

// ParamType constrains one positional operator argument.
type ParamType uint8

// The concrete ParamType values match tokens of the corresponding kind.
const (
	TypeInvalid ParamType = iota
	TypeNumber
	TypeString
	TypeBool
	TypeIdent
	TypeParen
	TypeWhitespace
	TypeOther
	// TypeAny matches any scalar value including the NULL and ERROR
	// sentinels, but not a syntax node.
	TypeAny
	// TypeAST matches only an unevaluated syntax node.
	TypeAST
	// TypeAnyAST matches every value.
	TypeAnyAST

	numParamTypes
)

var paramTypeKinds = map[ParamType]token.Kind{
	TypeNumber:     token.NUMBER,
	TypeString:     token.STRING,
	TypeBool:       token.BOOL,
	TypeIdent:      token.IDENT,
	TypeParen:      token.PAREN,
	TypeWhitespace: token.WHITESPACE,
	TypeOther:      token.OTHER,
}

func (t ParamType) String() string {
	switch t {
	case TypeAny:
		return "ANY"
	case TypeAST:
		return "AST"
	case TypeAnyAST:
		return "ANY/AST"
	}
	if k, ok := paramTypeKinds[t]; ok {
		return k.String()
	}
	return "INVALID"
}

// KindType returns the ParamType matching tokens of kind k.
func KindType(k token.Kind) ParamType {
	for t, kind := range paramTypeKinds {
		if kind == k {
			return t
		}
	}
	return TypeInvalid
}

// ParseParamType returns the ParamType named by s.
func ParseParamType(s string) (ParamType, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "ANY":
		return TypeAny, nil
	case "AST":
		return TypeAST, nil
	case "ANY/AST":
		return TypeAnyAST, nil
	}
	if k, ok := token.ParseKind(s); ok {
		return KindType(k), nil
	}
	return TypeInvalid, fmt.Errorf("unknown argument type: %s", s)
}

// Matches returns true if v satisfies t.
func (t ParamType) Matches(v *Value) bool {
	switch t {
	case TypeAnyAST:
		return true
	case TypeAST:
		return v.Type == VNode
	case TypeAny:
		return v.Type != VNode
	}
	kind, ok := paramTypeKinds[t]
	return ok && v.Type != VNode && v.Kind() == kind
}

// ParseTypeList reads the parameter types of a user-defined operator from
// the children of n.  Type names are IDENT or STRING tokens; whitespace is
// ignored and a '/' token joins its neighbors, so both ANY/AST and "ANY/AST"
// name TypeAnyAST.
func ParseTypeList(n *Node) ([]ParamType, error) {
	var names []string
	join := false
	for _, c := range n.Elements() {
		if c.IsNode() {
			return nil, &token.LocationError{Err: fmt.Errorf("nested form in type list"), Source: c.Source()}
		}
		tok := c.Token
		if tok.Kind == token.OTHER && tok.Text == "/" {
			if len(names) == 0 || join {
				return nil, &token.LocationError{Err: fmt.Errorf("misplaced / in type list"), Source: tok.Source}
			}
			join = true
			continue
		}
		if join {
			names[len(names)-1] += "/" + tok.Text
			join = false
			continue
		}
		names = append(names, tok.Text)
	}
	if join {
		return nil, &token.LocationError{Err: fmt.Errorf("misplaced / in type list"), Source: n.Source}
	}
	types := make([]ParamType, len(names))
	for i, name := range names {
		t, err := ParseParamType(name)
		if err != nil {
			return nil, &token.LocationError{Err: err, Source: n.Source}
		}
		types[i] = t
	}
	return types, nil
}
