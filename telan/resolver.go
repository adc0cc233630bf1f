// Copyright © 2018 The ELPS authors

package telan

import (
	"fmt"
	"math"
	"sort"

	"github.com/luthersystems/telan/parser/token"
)

// Resolver finds the operator for a command name.
type Resolver interface {
	Resolve(name string) (*Operator, bool)
}

// layeredResolver consults each layer in order.
type layeredResolver []Resolver

func (r layeredResolver) Resolve(name string) (*Operator, bool) {
	for _, layer := range r {
		if op, ok := layer.Resolve(name); ok {
			return op, true
		}
	}
	return nil, false
}

// OperatorTable is an immutable set of operators indexed by name.
type OperatorTable struct {
	ops map[string]*Operator
}

// NewOperatorTable returns a table holding ops.  Later operators replace
// earlier ones with the same name.
func NewOperatorTable(ops ...*Operator) *OperatorTable {
	t := &OperatorTable{ops: make(map[string]*Operator, len(ops))}
	for _, op := range ops {
		t.ops[op.Name] = op
	}
	return t
}

// With returns a new table holding the operators of t and ops.
func (t *OperatorTable) With(ops ...*Operator) *OperatorTable {
	return NewOperatorTable(append(t.Operators(), ops...)...)
}

// Resolve implements Resolver.
func (t *OperatorTable) Resolve(name string) (*Operator, bool) {
	op, ok := t.ops[name]
	return op, ok
}

// Names returns the sorted operator names in t.
func (t *OperatorTable) Names() []string {
	names := make([]string, 0, len(t.ops))
	for name := range t.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operators returns the operators in t ordered by name.
func (t *OperatorTable) Operators() []*Operator {
	ops := make([]*Operator, 0, len(t.ops))
	for _, name := range t.Names() {
		ops = append(ops, t.ops[name])
	}
	return ops
}

// userOperators resolves names bound in the environment's globals to
// operator records.
type userOperators struct {
	env *Env
}

func (u userOperators) Resolve(name string) (*Operator, bool) {
	v, ok := u.env.globals[name]
	if !ok || v.Type != VNode {
		return nil, false
	}
	op, err := UserOperator(name, v.Node)
	if err != nil {
		return nil, false
	}
	return op, true
}

// UserOperator builds the operator described by a definition record, a node
// whose four non-whitespace children are the minimum argument count, the
// maximum argument count, the type list, and the body.  The operator's
// action evaluates the body with the call's arguments as locals.
func UserOperator(name string, record *Node) (*Operator, error) {
	elems := record.Elements()
	if len(elems) != 4 {
		return nil, fmt.Errorf("operator record has %d elements", len(elems))
	}
	minArgs, err := recordCount(elems[0])
	if err != nil {
		return nil, err
	}
	maxArgs, err := recordCount(elems[1])
	if err != nil {
		return nil, err
	}
	if !elems[2].IsNode() || !elems[3].IsNode() {
		return nil, fmt.Errorf("operator record type list and body must be forms")
	}
	params, err := ParseTypeList(elems[2].Node)
	if err != nil {
		return nil, err
	}
	body := elems[3].Node
	return &Operator{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Params:  params,
		User:    true,
		Action: func(env *Env, args []*Value, _ []*Value) *Value {
			return env.Eval(body, args)
		},
	}, nil
}

// recordCount reads an arity bound.  Negative bounds mean Unbounded.
func recordCount(c Child) (int, error) {
	if c.IsNode() || c.Token.Kind != token.NUMBER {
		return 0, fmt.Errorf("operator record arity is not a number")
	}
	x, err := ParseNumber(c.Token.Text)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) || x > math.MaxInt32 {
		return 0, fmt.Errorf("operator record arity is not an integer: %s", c.Token.Text)
	}
	if x < 0 {
		return Unbounded, nil
	}
	return int(x), nil
}
