package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
	"github.com/kayufok/flowstep-framework-sub000/sanitize"
	"github.com/kayufok/flowstep-framework-sub000/scope"
)

// maxCauseDepth bounds the unwrap walk when logging a failure's cause chain.
const maxCauseDepth = 8

// Service emits structured lifecycle events for pipeline executions.
// Request and response payloads pass through the sanitizer before they are
// logged; severity gating happens before sanitization so disabled levels
// cost nothing. A Service is safe for concurrent use.
type Service struct {
	base      *slog.Logger
	cfg       flowstep.Config
	sanitizer *sanitize.Sanitizer

	// loggers caches one derived logger per pipeline identifier.
	// Populated lazily; LoadOrStore keeps first concurrent access safe.
	loggers sync.Map // pipeline string → *slog.Logger
}

// New creates a Service writing through base with the given configuration.
// A nil base falls back to slog.Default.
func New(base *slog.Logger, cfg flowstep.Config) *Service {
	if base == nil {
		base = slog.Default()
	}
	return &Service{
		base:      base,
		cfg:       cfg,
		sanitizer: sanitize.New(cfg),
	}
}

// Name implements hook.Observer.
func (s *Service) Name() string { return "audit" }

// Sanitizer returns the sanitizer this service logs through.
func (s *Service) Sanitizer() *sanitize.Sanitizer { return s.sanitizer }

// Logger returns the cached logger for a pipeline identifier, creating it
// on first use.
func (s *Service) Logger(pipeline string) *slog.Logger {
	if l, ok := s.loggers.Load(pipeline); ok {
		return l.(*slog.Logger)
	}

	l, _ := s.loggers.LoadOrStore(pipeline, s.base.With(slog.String("pipeline", pipeline)))
	return l.(*slog.Logger)
}

// ── Execution lifecycle ─────────────────────────────

// ExecutionStarted emits the start event with the sanitized request.
func (s *Service) ExecutionStarted(ctx context.Context, pipeline, kind string, payload any) {
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelInfo) {
		return
	}

	l.LogAttrs(ctx, slog.LevelInfo, "pipeline execution started",
		append(s.common(ctx),
			slog.String("action", ActionExecutionStarted),
			slog.String("kind", kind),
			slog.Any("request", s.sanitizer.Clean(payload)),
		)...)
}

// ExecutionCompleted emits the success event with the sanitized response
// and performance metrics.
func (s *Service) ExecutionCompleted(ctx context.Context, pipeline string, response any, elapsed time.Duration) {
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelInfo) {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	l.LogAttrs(ctx, slog.LevelInfo, "pipeline execution completed",
		append(s.common(ctx),
			slog.String("action", ActionExecutionCompleted),
			slog.Duration("elapsed", elapsed),
			slog.Uint64("heap_alloc_bytes", mem.HeapAlloc),
			slog.String("goroutine", goroutineID()),
			slog.Any("response", s.sanitizer.Clean(response)),
		)...)
}

// ExecutionFailed emits the failure event with the fault type name, its
// message, the truncated cause chain, and the root cause. The fault itself
// is logged in full here and nowhere else. A nil execErr emits nothing.
func (s *Service) ExecutionFailed(ctx context.Context, pipeline string, execErr error, elapsed time.Duration) {
	if execErr == nil {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelError) {
		return
	}

	chain := causeChain(execErr)

	l.LogAttrs(ctx, slog.LevelError, "pipeline execution failed",
		append(s.common(ctx),
			slog.String("action", ActionExecutionFailed),
			slog.Duration("elapsed", elapsed),
			slog.String("fault_type", fmt.Sprintf("%T", execErr)),
			slog.String("message", execErr.Error()),
			slog.Any("cause_chain", chain),
			slog.String("root_cause", chain[len(chain)-1]),
		)...)
}

// ── Step lifecycle (hook observer) ──────────────────

// OnStepStarted implements hook.StepStarted.
func (s *Service) OnStepStarted(ctx context.Context, pipeline, step string) {
	if !s.cfg.StepLogging {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}

	l.LogAttrs(ctx, slog.LevelDebug, "step started",
		append(s.common(ctx),
			slog.String("action", ActionStepStarted),
			slog.String("step", step),
		)...)
}

// OnStepCompleted implements hook.StepCompleted.
func (s *Service) OnStepCompleted(ctx context.Context, pipeline, step string, elapsed time.Duration) {
	if !s.cfg.StepLogging {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}

	l.LogAttrs(ctx, slog.LevelDebug, "step completed",
		append(s.common(ctx),
			slog.String("action", ActionStepCompleted),
			slog.String("step", step),
			slog.Duration("elapsed", elapsed),
		)...)
}

// OnStepFailed implements hook.StepFailed.
func (s *Service) OnStepFailed(ctx context.Context, pipeline, step string, o flowstep.Outcome) {
	if !s.cfg.StepLogging {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelWarn) {
		return
	}

	l.LogAttrs(ctx, slog.LevelWarn, "step failed",
		append(s.common(ctx),
			slog.String("action", ActionStepFailed),
			slog.String("step", step),
			slog.String("code", o.Code),
			slog.String("message", o.Message),
			slog.String("error_kind", o.Kind.String()),
		)...)
}

// ── Post-execution lifecycle (hook observer) ────────

// OnPostExecutionStarted implements hook.PostExecutionStarted.
func (s *Service) OnPostExecutionStarted(ctx context.Context, pipeline string) {
	if !s.cfg.StepLogging {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}

	l.LogAttrs(ctx, slog.LevelDebug, "post-execution started",
		append(s.common(ctx),
			slog.String("action", ActionPostExecStarted),
		)...)
}

// OnPostExecutionCompleted implements hook.PostExecutionCompleted.
func (s *Service) OnPostExecutionCompleted(ctx context.Context, pipeline string, elapsed time.Duration) {
	if !s.cfg.StepLogging {
		return
	}
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}

	l.LogAttrs(ctx, slog.LevelDebug, "post-execution completed",
		append(s.common(ctx),
			slog.String("action", ActionPostExecCompleted),
			slog.Duration("elapsed", elapsed),
		)...)
}

// OnPostExecutionFailed implements hook.PostExecutionFailed.
func (s *Service) OnPostExecutionFailed(ctx context.Context, pipeline string, hookErr error) {
	l := s.Logger(pipeline)
	if !l.Enabled(ctx, slog.LevelError) {
		return
	}

	l.LogAttrs(ctx, slog.LevelError, "post-execution failed",
		append(s.common(ctx),
			slog.String("action", ActionPostExecFailed),
			slog.String("error", hookErr.Error()),
		)...)
}

// common builds the attributes stamped onto every event of an invocation:
// the ambient execution ID plus configured and per-invocation tags.
func (s *Service) common(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)

	if execID, ok := scope.ExecutionID(ctx); ok {
		attrs = append(attrs, slog.String("execution_id", execID.String()))
	}

	tags := s.cfg.Tags
	if invTags := scope.Tags(ctx); len(invTags) > 0 {
		tags = append(append([]string(nil), tags...), invTags...)
	}
	if len(tags) > 0 {
		attrs = append(attrs, slog.Any("tags", tags))
	}

	return attrs
}

// causeChain walks the error's unwrap chain, most recent first, stopping
// at maxCauseDepth links. The last element is the root cause.
func causeChain(err error) []string {
	chain := make([]string, 0, 4)
	for err != nil && len(chain) < maxCauseDepth {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

// goroutineID extracts the current goroutine's numeric identifier from the
// stack header. It identifies the executing goroutine in success events;
// the runtime offers no direct accessor.
func goroutineID() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	fields := bytes.Fields(buf[:n])
	if len(fields) >= 2 {
		return string(fields[1])
	}
	return ""
}
