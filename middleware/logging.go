package middleware

import (
	"context"
	"time"

	"github.com/kayufok/flowstep-framework-sub000/audit"
	"github.com/kayufok/flowstep-framework-sub000/id"
	"github.com/kayufok/flowstep-framework-sub000/scope"
)

// Logging returns middleware that records one invocation end-to-end
// through the audit service: it assigns a fresh execution ID, emits the
// start event with the sanitized request, delegates, and emits the success
// or failure event with the elapsed time.
//
// Whatever error the pipeline raises is returned bit-for-bit; this
// middleware never swallows, wraps, or alters it.
func Logging[Q, R any](svc *audit.Service) Middleware[Q, R] {
	return func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error) {
		ctx = scope.WithExecutionID(ctx, id.NewExecutionID())

		svc.ExecutionStarted(ctx, info.Pipeline, info.Kind, req)

		start := time.Now()
		resp, err := next(ctx, req)
		elapsed := time.Since(start)

		if err != nil {
			svc.ExecutionFailed(ctx, info.Pipeline, err, elapsed)
			return resp, err
		}

		svc.ExecutionCompleted(ctx, info.Pipeline, resp, elapsed)
		return resp, nil
	}
}

// LoggingWithTags is like Logging but additionally stamps the given labels
// onto every event of the invocation.
func LoggingWithTags[Q, R any](svc *audit.Service, tags ...string) Middleware[Q, R] {
	base := Logging[Q, R](svc)
	return func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error) {
		return base(scope.WithTags(ctx, tags), info, req, next)
	}
}
