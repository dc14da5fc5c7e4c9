// Package hook defines the observer system for pipeline lifecycle events.
// Observers are notified of step and post-execution boundaries and can
// react to them: audit logging, metrics, tracing.
//
// Each lifecycle hook is a separate interface so observers opt in only to
// the events they care about.
package hook

import (
	"context"
	"time"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// Observer is the base interface all observers must implement.
type Observer interface {
	// Name returns a unique human-readable name for the observer.
	Name() string
}

// StepStarted is called just before a step executes.
type StepStarted interface {
	OnStepStarted(ctx context.Context, pipeline, step string)
}

// StepCompleted is called after a step returns a successful outcome.
type StepCompleted interface {
	OnStepCompleted(ctx context.Context, pipeline, step string, elapsed time.Duration)
}

// StepFailed is called when a step returns a failed outcome, just before
// the pipeline short-circuits.
type StepFailed interface {
	OnStepFailed(ctx context.Context, pipeline, step string, outcome flowstep.Outcome)
}

// PostExecutionStarted is called before a write pipeline's post-execution
// hook runs.
type PostExecutionStarted interface {
	OnPostExecutionStarted(ctx context.Context, pipeline string)
}

// PostExecutionCompleted is called after the post-execution hook returns.
type PostExecutionCompleted interface {
	OnPostExecutionCompleted(ctx context.Context, pipeline string, elapsed time.Duration)
}

// PostExecutionFailed is called when the post-execution hook fails.
type PostExecutionFailed interface {
	OnPostExecutionFailed(ctx context.Context, pipeline string, err error)
}
