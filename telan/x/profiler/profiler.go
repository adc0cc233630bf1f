// Package profiler provides telan.Profiler implementations that trace or
// time operator calls.
package profiler

import (
	"fmt"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

// profiler is a minimal telan.Profiler
type profiler struct {
	runtime    *telan.Runtime
	enabled    bool
	skipFilter SkipFilter
	labeler    Labeler
}

var _ telan.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(op *telan.Operator, cmd *token.Token) func() {
	return func() {}
}

// label returns the span label for a call to op.
func (p *profiler) label(op *telan.Operator, cmd *token.Token) string {
	if p.labeler != nil {
		if label := p.labeler(op, cmd); label != "" {
			return label
		}
	}
	return op.Name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(op *telan.Operator) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(op)
}

// SkipFilter returns true for operators whose calls are not traced.
type SkipFilter func(op *telan.Operator) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithUserOperatorFilter restricts tracing to operators defined with setf.
func WithUserOperatorFilter() Option {
	return WithSkipFilter(func(op *telan.Operator) bool { return !op.User })
}

// Labeler provides an alternative name for an operator call in the trace.
type Labeler func(op *telan.Operator, cmd *token.Token) string

// WithLabeler sets the labeler for tracing spans.
func WithLabeler(labeler Labeler) Option {
	return func(p *profiler) {
		p.labeler = labeler
	}
}

// WithLocationLabeler labels spans with the operator name and the position
// of the call, e.g. "print@main.tln:3".
func WithLocationLabeler() Option {
	return WithLabeler(func(op *telan.Operator, cmd *token.Token) string {
		if cmd == nil || cmd.Source == nil {
			return ""
		}
		return fmt.Sprintf("%s@%s:%d", op.Name, cmd.Source.File, cmd.Source.Line)
	})
}

func callSource(cmd *token.Token) *token.Location {
	if cmd == nil {
		return nil
	}
	return cmd.Source
}
