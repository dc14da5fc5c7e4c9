// Package middleware provides composable interceptors for pipeline execution.
//
// A [Middleware] is a generic function that wraps a pipeline invocation.
// Interceptors are composed into a chain using [Chain] and applied around
// every Execute call. They are applied right-to-left: the first middleware
// in the slice is the outermost wrapper.
//
//	// logging → metrics → lifecycle
//	chain := middleware.Chain(middleware.Logging[Q, R](svc), middleware.Metrics[Q, R]())
//
// # Built-in Middleware
//
//   - [Logging]: assigns the execution ID and emits sanitized start,
//     success, and failure events through the audit service
//   - [Tracing]: wraps execution in an OpenTelemetry span
//   - [Metrics]: records per-pipeline duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware[Q, R any]() middleware.Middleware[Q, R] {
//	    return func(ctx context.Context, info middleware.Info, req Q, next middleware.Handler[Q, R]) (R, error) {
//	        // pre-processing
//	        resp, err := next(ctx, req)
//	        // post-processing
//	        return resp, err
//	    }
//	}
//
// Middleware MUST call next to continue the chain and MUST return the
// pipeline's error unchanged; interceptors have no authority to alter a
// raised error's code, message, or kind.
package middleware
