// Package step defines the two step capability kinds and the per-invocation
// key-value contexts they execute against.
//
// A [ReadStep] observes state; a [WriteStep] may additionally perform side
// effects and record events on its [WriteContext]. Steps must be stateless
// and reentrant: one step value may serve many concurrent invocations.
//
// Write pipelines mix both kinds in one ordered list via [Entry], which is
// an explicit discriminated union built by [ReadEntry] and [WriteEntry].
// A read step running inside a write pipeline sees the write context
// through the facade returned by [WriteContext.ReadView].
package step

import (
	"context"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// ReadStep is one read-only unit of logic.
type ReadStep interface {
	// Name identifies the step in logs and metrics.
	Name() string
	// Execute runs the step against the shared context. A failed outcome
	// short-circuits the pipeline.
	Execute(ctx context.Context, rc *ReadContext) flowstep.Outcome
}

// WriteStep is one side-effecting unit of logic.
type WriteStep interface {
	Name() string
	Execute(ctx context.Context, wc *WriteContext) flowstep.Outcome
}

type readFunc struct {
	name string
	fn   func(ctx context.Context, rc *ReadContext) flowstep.Outcome
}

func (s readFunc) Name() string { return s.name }

func (s readFunc) Execute(ctx context.Context, rc *ReadContext) flowstep.Outcome {
	return s.fn(ctx, rc)
}

// ReadFunc adapts a plain function into a named ReadStep.
func ReadFunc(name string, fn func(ctx context.Context, rc *ReadContext) flowstep.Outcome) ReadStep {
	return readFunc{name: name, fn: fn}
}

type writeFunc struct {
	name string
	fn   func(ctx context.Context, wc *WriteContext) flowstep.Outcome
}

func (s writeFunc) Name() string { return s.name }

func (s writeFunc) Execute(ctx context.Context, wc *WriteContext) flowstep.Outcome {
	return s.fn(ctx, wc)
}

// WriteFunc adapts a plain function into a named WriteStep.
func WriteFunc(name string, fn func(ctx context.Context, wc *WriteContext) flowstep.Outcome) WriteStep {
	return writeFunc{name: name, fn: fn}
}
