package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for flowstep metrics.
const meterName = "github.com/kayufok/flowstep-framework-sub000"

// Metrics returns middleware that records per-pipeline execution metrics
// using the global OTel MeterProvider. If no MeterProvider is configured,
// noop instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - flowstep.pipeline.duration (Float64Histogram): execution time in
//     seconds, with attributes: pipeline, kind, status ("ok" or "error")
//   - flowstep.pipeline.executions (Int64Counter): total executions,
//     with attributes: pipeline, kind, status ("ok" or "error")
func Metrics[Q, R any]() Middleware[Q, R] {
	meter := otel.Meter(meterName)
	return MetricsWithMeter[Q, R](meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter[Q, R any](meter metric.Meter) Middleware[Q, R] {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"flowstep.pipeline.duration",
		metric.WithDescription("Duration of pipeline execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	executions, eErr := meter.Int64Counter(
		"flowstep.pipeline.executions",
		metric.WithDescription("Total number of pipeline executions"),
		metric.WithUnit("{execution}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, info Info, req Q, next Handler[Q, R]) (R, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("pipeline", info.Pipeline),
			attribute.String("kind", info.Kind),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)

		return resp, err
	}
}
