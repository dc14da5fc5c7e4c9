// Package scope carries per-invocation execution identity through
// context.Context. The logging interceptor assigns a fresh execution ID at
// the start of an invocation and every event emitted underneath reads it
// back; concurrent invocations never observe each other's ID.
package scope

import (
	"context"

	"github.com/kayufok/flowstep-framework-sub000/id"
)

type ctxKey int

const (
	executionIDKey ctxKey = iota
	tagsKey
)

// WithExecutionID attaches an execution ID to the context.
func WithExecutionID(ctx context.Context, execID id.ID) context.Context {
	return context.WithValue(ctx, executionIDKey, execID)
}

// ExecutionID extracts the execution ID from the context.
// Returns id.Nil and false if none is present.
func ExecutionID(ctx context.Context) (id.ID, bool) {
	execID, ok := ctx.Value(executionIDKey).(id.ID)
	return execID, ok
}

// WithTags attaches free-form labels to the context. They are stamped onto
// every event of the invocation for downstream filtering.
func WithTags(ctx context.Context, tags []string) context.Context {
	if len(tags) == 0 {
		return ctx
	}
	return context.WithValue(ctx, tagsKey, tags)
}

// Tags extracts the invocation labels from the context. Returns nil if
// none are present.
func Tags(ctx context.Context) []string {
	tags, _ := ctx.Value(tagsKey).([]string)
	return tags
}
