package engine

import (
	"context"
	"time"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// StepEmitter receives step and post-execution boundary events. The engine
// emits through this interface so the observability layers (audit logging,
// metrics) can watch step boundaries without the lifecycle importing them.
// hook.Registry satisfies it.
type StepEmitter interface {
	EmitStepStarted(ctx context.Context, pipeline, step string)
	EmitStepCompleted(ctx context.Context, pipeline, step string, elapsed time.Duration)
	EmitStepFailed(ctx context.Context, pipeline, step string, outcome flowstep.Outcome)
	EmitPostExecutionStarted(ctx context.Context, pipeline string)
	EmitPostExecutionCompleted(ctx context.Context, pipeline string, elapsed time.Duration)
	EmitPostExecutionFailed(ctx context.Context, pipeline string, err error)
}

// nopEmitter is the default emitter when none is configured.
type nopEmitter struct{}

func (nopEmitter) EmitStepStarted(context.Context, string, string)                   {}
func (nopEmitter) EmitStepCompleted(context.Context, string, string, time.Duration)  {}
func (nopEmitter) EmitStepFailed(context.Context, string, string, flowstep.Outcome)  {}
func (nopEmitter) EmitPostExecutionStarted(context.Context, string)                  {}
func (nopEmitter) EmitPostExecutionCompleted(context.Context, string, time.Duration) {}
func (nopEmitter) EmitPostExecutionFailed(context.Context, string, error)            {}
