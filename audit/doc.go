// Package audit emits structured, sanitized lifecycle events for pipeline
// executions.
//
// A [Service] owns a process-wide cache of per-pipeline loggers and writes
// slog events for execution start, step start/stop, execution success
// (with elapsed time and memory metrics), and execution failure (with the
// fault's type, message, and cause chain). Request and response payloads
// are passed through the sanitize package so sensitive fields never reach
// the sink.
//
// The Service is driven exclusively by the middleware layer and the hook
// registry; pipeline engines never call it directly.
package audit
