package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kayufok/flowstep-framework-sub000/scope"
)

// tracerName is the instrumentation scope name for flowstep tracing.
const tracerName = "github.com/kayufok/flowstep-framework-sub000"

// Tracing returns middleware that wraps pipeline execution in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a pass-through
// with zero overhead.
//
// Span attributes include: flowstep.pipeline, flowstep.kind, and
// flowstep.execution_id when the logging middleware runs outside this one.
// On error, the span status is set to codes.Error with the error message.
func Tracing[Q, R any]() Middleware[Q, R] {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer[Q, R](tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer[Q, R any](tracer trace.Tracer) Middleware[Q, R] {
	return func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error) {
		attrs := []attribute.KeyValue{
			attribute.String("flowstep.pipeline", info.Pipeline),
			attribute.String("flowstep.kind", info.Kind),
		}
		if execID, ok := scope.ExecutionID(ctx); ok {
			attrs = append(attrs, attribute.String("flowstep.execution_id", execID.String()))
		}

		ctx, span := tracer.Start(ctx, "flowstep.pipeline.execute",
			trace.WithAttributes(attrs...),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		resp, err := next(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return resp, err
	}
}
