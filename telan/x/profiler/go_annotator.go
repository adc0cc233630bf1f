package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/telan/telan"
	"github.com/luthersystems/telan/parser/token"
)

// This profiler type appends labels to pprof output if pprof is enabled.
// It does not start pprof itself.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ telan.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that labels the current goroutine with
// the operator being called.
func NewPprofAnnotator(runtime *telan.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(op *telan.Operator, cmd *token.Token) func() {
	if p.skipTrace(op) {
		return func() {}
	}
	oldContext := p.currentContext
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("operator", p.label(op, cmd)))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// Labels returns the pprof labels currently applied by p.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	pprof.ForLabels(p.currentContext, func(k, v string) bool {
		labels[k] = v
		return true
	})
	return labels
}
