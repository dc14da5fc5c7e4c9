package engine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
	"github.com/kayufok/flowstep-framework-sub000/middleware"
	"github.com/kayufok/flowstep-framework-sub000/step"
)

// ReadPipeline executes a read-only lifecycle for queries of type Q and
// responses of type R. Build one with NewReadPipeline and functional
// options; a pipeline value is immutable after construction and safe for
// concurrent Execute calls; every invocation gets its own fresh context.
type ReadPipeline[Q, R any] struct {
	name     string
	validate func(Q) flowstep.Outcome
	steps    func(Q, *step.ReadContext) []step.ReadStep
	build    func(*step.ReadContext) R
	emitter  StepEmitter
	chain    middleware.Middleware[Q, R]
	logger   *slog.Logger
}

// ReadOption configures a ReadPipeline.
type ReadOption[Q, R any] func(*ReadPipeline[Q, R])

// WithReadValidation sets the validation predicate invoked before any step
// runs. The default always succeeds.
func WithReadValidation[Q, R any](fn func(Q) flowstep.Outcome) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.validate = fn }
}

// WithReadSteps sets the step-selection function. It is called exactly
// once per invocation, before any step runs, so it may branch only on the
// query's own fields.
func WithReadSteps[Q, R any](fn func(Q, *step.ReadContext) []step.ReadStep) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.steps = fn }
}

// WithReadResponse sets the response builder invoked after every step
// succeeded. The default returns the zero value of R.
func WithReadResponse[Q, R any](fn func(*step.ReadContext) R) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.build = fn }
}

// WithReadEmitter sets the step-boundary emitter, typically a hook.Registry.
func WithReadEmitter[Q, R any](em StepEmitter) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.emitter = em }
}

// WithReadInterceptors composes the given middleware around every Execute
// call, first middleware outermost.
func WithReadInterceptors[Q, R any](mws ...middleware.Middleware[Q, R]) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.chain = middleware.Chain(mws...) }
}

// WithReadLogger sets the logger used for internal fault detail.
func WithReadLogger[Q, R any](l *slog.Logger) ReadOption[Q, R] {
	return func(p *ReadPipeline[Q, R]) { p.logger = l }
}

// NewReadPipeline creates a read pipeline. The name identifies the
// pipeline in logs, metrics, and the logger cache; a step-selection
// function is required.
func NewReadPipeline[Q, R any](name string, opts ...ReadOption[Q, R]) (*ReadPipeline[Q, R], error) {
	if name == "" {
		return nil, errors.New("engine: pipeline name is required")
	}

	p := &ReadPipeline[Q, R]{
		name:     name,
		validate: func(Q) flowstep.Outcome { return flowstep.Continue() },
		build:    func(*step.ReadContext) R { var zero R; return zero },
		emitter:  nopEmitter{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.steps == nil {
		return nil, errors.New("engine: step selection function is required")
	}

	return p, nil
}

// Name returns the pipeline identifier.
func (p *ReadPipeline[Q, R]) Name() string { return p.name }

// Execute runs one invocation end-to-end. It returns the built response,
// or a *flowstep.Error when validation fails, a step fails, or an
// unexpected fault is caught at the boundary.
func (p *ReadPipeline[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	if p.chain == nil {
		return p.run(ctx, query)
	}

	info := middleware.Info{Pipeline: p.name, Kind: middleware.KindRead}
	return p.chain(ctx, info, query, p.run)
}

func (p *ReadPipeline[Q, R]) run(ctx context.Context, query Q) (resp R, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panicked",
				slog.String("pipeline", p.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			var zero R
			resp = zero
			err = flowstep.Internal()
		}
	}()

	// VALIDATE
	if o := p.validate(query); !o.Success {
		return resp, o.Err()
	}

	// CONTEXT_INIT
	rc := step.NewReadContext(query)

	// STEP_LOOP. The list is fixed before the first step runs.
	for _, st := range p.steps(query, rc) {
		p.emitter.EmitStepStarted(ctx, p.name, st.Name())

		start := time.Now()
		o := st.Execute(ctx, rc)
		elapsed := time.Since(start)

		if !o.Success {
			p.emitter.EmitStepFailed(ctx, p.name, st.Name(), o)
			return resp, o.Err()
		}
		p.emitter.EmitStepCompleted(ctx, p.name, st.Name(), elapsed)
	}

	// BUILD_RESPONSE
	return p.build(rc), nil
}
