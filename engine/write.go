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

// WritePipeline executes a side-effecting lifecycle for commands of type C
// and responses of type R. Its step list mixes write steps and read steps
// via step.Entry; read steps see the shared context through the read
// facade. Safe for concurrent Execute calls.
type WritePipeline[C, R any] struct {
	name        string
	validate    func(C) flowstep.Outcome
	initContext func(*step.WriteContext, C)
	steps       func(C, *step.WriteContext) []step.Entry
	build       func(*step.WriteContext) R
	postExecute func(context.Context, *step.WriteContext) error
	strictPost  bool
	emitter     StepEmitter
	chain       middleware.Middleware[C, R]
	logger      *slog.Logger
}

// WriteOption configures a WritePipeline.
type WriteOption[C, R any] func(*WritePipeline[C, R])

// WithWriteValidation sets the validation predicate invoked before any
// step runs. The default always succeeds.
func WithWriteValidation[C, R any](fn func(C) flowstep.Outcome) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.validate = fn }
}

// WithContextInit sets the hook that attaches audit metadata (user ID,
// free-form attributes) to the fresh context. The default is a no-op.
func WithContextInit[C, R any](fn func(*step.WriteContext, C)) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.initContext = fn }
}

// WithWriteSteps sets the step-selection function. It is called exactly
// once per invocation, before any step runs, so it may branch only on the
// command's own fields.
func WithWriteSteps[C, R any](fn func(C, *step.WriteContext) []step.Entry) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.steps = fn }
}

// WithWriteResponse sets the response builder invoked after every step
// succeeded. The default returns the zero value of R.
func WithWriteResponse[C, R any](fn func(*step.WriteContext) R) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.build = fn }
}

// WithPostExecution sets the hook that runs after the response has been
// built, intended to drain the context's events to an external dispatcher.
// By default its failure is logged through the emitter and not propagated;
// see WithStrictPostExecution.
func WithPostExecution[C, R any](fn func(context.Context, *step.WriteContext) error) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.postExecute = fn }
}

// WithStrictPostExecution makes a post-execution failure fail the whole
// invocation. A *flowstep.Error from the hook propagates unchanged; any
// other error collapses into the generic System error. Side effects
// committed by the steps are not rolled back either way.
func WithStrictPostExecution[C, R any]() WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.strictPost = true }
}

// WithWriteEmitter sets the step-boundary emitter, typically a hook.Registry.
func WithWriteEmitter[C, R any](em StepEmitter) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.emitter = em }
}

// WithWriteInterceptors composes the given middleware around every Execute
// call, first middleware outermost.
func WithWriteInterceptors[C, R any](mws ...middleware.Middleware[C, R]) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.chain = middleware.Chain(mws...) }
}

// WithWriteLogger sets the logger used for internal fault detail.
func WithWriteLogger[C, R any](l *slog.Logger) WriteOption[C, R] {
	return func(p *WritePipeline[C, R]) { p.logger = l }
}

// NewWritePipeline creates a write pipeline. The name identifies the
// pipeline in logs, metrics, and the logger cache; a step-selection
// function is required.
func NewWritePipeline[C, R any](name string, opts ...WriteOption[C, R]) (*WritePipeline[C, R], error) {
	if name == "" {
		return nil, errors.New("engine: pipeline name is required")
	}

	p := &WritePipeline[C, R]{
		name:        name,
		validate:    func(C) flowstep.Outcome { return flowstep.Continue() },
		initContext: func(*step.WriteContext, C) {},
		build:       func(*step.WriteContext) R { var zero R; return zero },
		emitter:     nopEmitter{},
		logger:      slog.Default(),
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
func (p *WritePipeline[C, R]) Name() string { return p.name }

// Execute runs one invocation end-to-end. It returns the built response,
// or a *flowstep.Error when validation fails, a step fails, or an
// unexpected fault is caught at the boundary.
func (p *WritePipeline[C, R]) Execute(ctx context.Context, cmd C) (R, error) {
	if p.chain == nil {
		return p.run(ctx, cmd)
	}

	info := middleware.Info{Pipeline: p.name, Kind: middleware.KindWrite}
	return p.chain(ctx, info, cmd, p.run)
}

func (p *WritePipeline[C, R]) run(ctx context.Context, cmd C) (resp R, err error) {
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
	if o := p.validate(cmd); !o.Success {
		return resp, o.Err()
	}

	// CONTEXT_INIT
	wc := step.NewWriteContext(cmd)
	p.initContext(wc, cmd)

	// STEP_LOOP. The list is fixed before the first step runs. Each
	// entry dispatches by its declared capability; read steps share the
	// same scratchpad through the facade.
	for _, e := range p.steps(cmd, wc) {
		p.emitter.EmitStepStarted(ctx, p.name, e.Name())

		start := time.Now()
		o := e.Execute(ctx, wc)
		elapsed := time.Since(start)

		if !o.Success {
			p.emitter.EmitStepFailed(ctx, p.name, e.Name(), o)
			return resp, o.Err()
		}
		p.emitter.EmitStepCompleted(ctx, p.name, e.Name(), elapsed)
	}

	// BUILD_RESPONSE
	resp = p.build(wc)

	// POST_EXECUTION. The response is already computed; step side
	// effects are already committed and are not rolled back here.
	if p.postExecute != nil {
		p.emitter.EmitPostExecutionStarted(ctx, p.name)

		start := time.Now()
		if hookErr := p.postExecute(ctx, wc); hookErr != nil {
			p.emitter.EmitPostExecutionFailed(ctx, p.name, hookErr)

			if p.strictPost {
				var zero R
				var raised *flowstep.Error
				if errors.As(hookErr, &raised) {
					return zero, raised
				}
				p.logger.Error("post-execution hook failed",
					slog.String("pipeline", p.name),
					slog.String("error", hookErr.Error()),
				)
				return zero, flowstep.Internal()
			}
		} else {
			p.emitter.EmitPostExecutionCompleted(ctx, p.name, time.Since(start))
		}
	}

	return resp, nil
}
