package flowstep

import "log/slog"

// Config holds process-wide configuration for pipeline observability.
// It is read-only after startup; concurrent invocations share one value.
type Config struct {
	// LogLevel is the minimum severity emitted by the audit service.
	LogLevel slog.Level

	// Tags are free-form labels attached to every logged event of every
	// invocation, for downstream filtering.
	Tags []string

	// Mask is the fixed string substituted for sensitive field values.
	Mask string

	// SensitivePatterns are matched case-insensitively as substrings of
	// field names during sanitization.
	SensitivePatterns []string

	// MaxDepth bounds the sanitizer's recursion into nested values.
	MaxDepth int

	// MaxBytes bounds the serialized size of a value the sanitizer will
	// walk. Larger values are replaced by a truncation marker.
	MaxBytes int

	// StepLogging enables per-step start/stop events on write pipelines.
	StepLogging bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: slog.LevelInfo,
		Mask:     "******",
		SensitivePatterns: []string{
			"password", "token", "secret", "key", "auth",
			"credential", "ssn", "credit-card", "creditcard",
			"cvv", "pin",
		},
		MaxDepth:    32,
		MaxBytes:    64 * 1024,
		StepLogging: true,
	}
}
