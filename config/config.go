// Package config loads the process-wide flowstep configuration from a YAML
// file with environment variable overrides (prefix "FLOWSTEP_"). Values not
// present in either source keep the defaults from flowstep.DefaultConfig.
//
// Environment keys separate key segments with a double underscore so that
// single underscores survive inside a segment: FLOWSTEP_LOGGING__LEVEL
// overrides "logging.level", FLOWSTEP_SANITIZER__MAX_BYTES overrides
// "sanitizer.max_bytes".
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// LevelTrace extends slog's levels downward. The audit service emits
// nothing below debug, so selecting trace keeps every audit event and
// additionally widens the sink for the host application's own loggers
// sharing the handler.
const LevelTrace = slog.LevelDebug - 4

type fileConfig struct {
	Logging   loggingConfig   `koanf:"logging"`
	Sanitizer sanitizerConfig `koanf:"sanitizer"`
}

type loggingConfig struct {
	Level       string   `koanf:"level"`
	Tags        []string `koanf:"tags"`
	StepLogging bool     `koanf:"step_logging"`
}

type sanitizerConfig struct {
	Mask     string   `koanf:"mask"`
	Patterns []string `koanf:"patterns"`
	MaxDepth int      `koanf:"max_depth"`
	MaxBytes int      `koanf:"max_bytes"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// FLOWSTEP_* environment overrides, and returns the resulting Config.
//
// Environment keys map double underscores to dots, e.g.
// FLOWSTEP_LOGGING__LEVEL overrides "logging.level" and
// FLOWSTEP_SANITIZER__MAX_DEPTH overrides "sanitizer.max_depth".
func Load(path string) (flowstep.Config, error) {
	cfg := flowstep.DefaultConfig()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FLOWSTEP_", ".", func(s string) string {
		// Double underscore separates segments; a single underscore stays
		// part of the key ("sanitizer.max_bytes").
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FLOWSTEP_")), "__", ".")
	}), nil); err != nil {
		return cfg, fmt.Errorf("config: load environment: %w", err)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	if fc.Logging.Level != "" {
		level, err := parseLevel(fc.Logging.Level)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}
	if len(fc.Logging.Tags) > 0 {
		cfg.Tags = fc.Logging.Tags
	}
	if k.Exists("logging.step_logging") {
		cfg.StepLogging = fc.Logging.StepLogging
	}
	if fc.Sanitizer.Mask != "" {
		cfg.Mask = fc.Sanitizer.Mask
	}
	if len(fc.Sanitizer.Patterns) > 0 {
		cfg.SensitivePatterns = fc.Sanitizer.Patterns
	}
	if fc.Sanitizer.MaxDepth > 0 {
		cfg.MaxDepth = fc.Sanitizer.MaxDepth
	}
	if fc.Sanitizer.MaxBytes > 0 {
		cfg.MaxBytes = fc.Sanitizer.MaxBytes
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
}
