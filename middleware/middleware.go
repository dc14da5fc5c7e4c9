// Package middleware provides composable interceptors for pipeline
// execution. An interceptor wraps one engine invocation synchronously and
// can observe or act on it (log, trace, record metrics) without the
// pipeline lifecycle knowing it is wrapped.
package middleware

import "context"

// Pipeline kinds carried on Info.
const (
	KindRead  = "read"
	KindWrite = "write"
)

// Info identifies the pipeline an interceptor is wrapping.
type Info struct {
	// Pipeline is the pipeline identifier, e.g. "user.get".
	Pipeline string
	// Kind is KindRead or KindWrite.
	Kind string
}

// Handler is the terminal function that executes the pipeline lifecycle.
type Handler[Q, R any] func(ctx context.Context, req Q) (R, error)

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, pipeline info, the request, and the next handler to
// call. Middleware MUST call next to continue the chain and MUST return
// next's error unchanged unless intentionally short-circuiting.
type Middleware[Q, R any] func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error)

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, tracing, metrics) executes as:
//
//	logging → tracing → metrics → handler
func Chain[Q, R any](mws ...Middleware[Q, R]) Middleware[Q, R] {
	return func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error) {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context, req Q) (R, error) {
				return mw(ctx, info, req, prev)
			}
		}
		return h(ctx, req)
	}
}
