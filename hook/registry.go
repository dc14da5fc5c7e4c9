package hook

import (
	"context"
	"time"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// Named entry types pair a hook implementation with the observer name
// captured at registration time. This avoids type-asserting back to
// Observer inside the emit methods.
type stepStartedEntry struct {
	name string
	hook StepStarted
}

type stepCompletedEntry struct {
	name string
	hook StepCompleted
}

type stepFailedEntry struct {
	name string
	hook StepFailed
}

type postStartedEntry struct {
	name string
	hook PostExecutionStarted
}

type postCompletedEntry struct {
	name string
	hook PostExecutionCompleted
}

type postFailedEntry struct {
	name string
	hook PostExecutionFailed
}

// Registry holds registered observers and dispatches lifecycle events to
// them. It type-caches observers at registration time so emit calls iterate
// only over observers that implement the relevant hook. Register everything
// before the first execution; the Registry takes no locks while emitting.
type Registry struct {
	observers []Observer

	// Type-cached slices for each lifecycle hook.
	stepStarted   []stepStartedEntry
	stepCompleted []stepCompletedEntry
	stepFailed    []stepFailedEntry
	postStarted   []postStartedEntry
	postCompleted []postCompletedEntry
	postFailed    []postFailedEntry
}

// NewRegistry creates an empty observer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an observer and type-asserts it into all applicable hook
// caches. Observers are notified in registration order.
func (r *Registry) Register(o Observer) {
	r.observers = append(r.observers, o)
	name := o.Name()

	if h, ok := o.(StepStarted); ok {
		r.stepStarted = append(r.stepStarted, stepStartedEntry{name, h})
	}
	if h, ok := o.(StepCompleted); ok {
		r.stepCompleted = append(r.stepCompleted, stepCompletedEntry{name, h})
	}
	if h, ok := o.(StepFailed); ok {
		r.stepFailed = append(r.stepFailed, stepFailedEntry{name, h})
	}
	if h, ok := o.(PostExecutionStarted); ok {
		r.postStarted = append(r.postStarted, postStartedEntry{name, h})
	}
	if h, ok := o.(PostExecutionCompleted); ok {
		r.postCompleted = append(r.postCompleted, postCompletedEntry{name, h})
	}
	if h, ok := o.(PostExecutionFailed); ok {
		r.postFailed = append(r.postFailed, postFailedEntry{name, h})
	}
}

// Observers returns the registered observers in registration order.
func (r *Registry) Observers() []Observer { return r.observers }

// EmitStepStarted notifies all StepStarted observers.
func (r *Registry) EmitStepStarted(ctx context.Context, pipeline, step string) {
	for _, e := range r.stepStarted {
		e.hook.OnStepStarted(ctx, pipeline, step)
	}
}

// EmitStepCompleted notifies all StepCompleted observers.
func (r *Registry) EmitStepCompleted(ctx context.Context, pipeline, step string, elapsed time.Duration) {
	for _, e := range r.stepCompleted {
		e.hook.OnStepCompleted(ctx, pipeline, step, elapsed)
	}
}

// EmitStepFailed notifies all StepFailed observers.
func (r *Registry) EmitStepFailed(ctx context.Context, pipeline, step string, outcome flowstep.Outcome) {
	for _, e := range r.stepFailed {
		e.hook.OnStepFailed(ctx, pipeline, step, outcome)
	}
}

// EmitPostExecutionStarted notifies all PostExecutionStarted observers.
func (r *Registry) EmitPostExecutionStarted(ctx context.Context, pipeline string) {
	for _, e := range r.postStarted {
		e.hook.OnPostExecutionStarted(ctx, pipeline)
	}
}

// EmitPostExecutionCompleted notifies all PostExecutionCompleted observers.
func (r *Registry) EmitPostExecutionCompleted(ctx context.Context, pipeline string, elapsed time.Duration) {
	for _, e := range r.postCompleted {
		e.hook.OnPostExecutionCompleted(ctx, pipeline, elapsed)
	}
}

// EmitPostExecutionFailed notifies all PostExecutionFailed observers.
func (r *Registry) EmitPostExecutionFailed(ctx context.Context, pipeline string, err error) {
	for _, e := range r.postFailed {
		e.hook.OnPostExecutionFailed(ctx, pipeline, err)
	}
}
