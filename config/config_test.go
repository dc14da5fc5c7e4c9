package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
	"github.com/kayufok/flowstep-framework-sub000/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flowstep.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := flowstep.DefaultConfig()
	if cfg.LogLevel != want.LogLevel {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, want.LogLevel)
	}
	if cfg.Mask != want.Mask {
		t.Errorf("Mask = %q, want %q", cfg.Mask, want.Mask)
	}
	if cfg.MaxDepth != want.MaxDepth || cfg.MaxBytes != want.MaxBytes {
		t.Errorf("limits = (%d, %d), want (%d, %d)", cfg.MaxDepth, cfg.MaxBytes, want.MaxDepth, want.MaxBytes)
	}
	if !cfg.StepLogging {
		t.Error("StepLogging should default to true")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  tags: [core, payments]
  step_logging: false
sanitizer:
  mask: "[redacted]"
  patterns: [password, iban]
  max_depth: 8
  max_bytes: 1024
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0] != "core" || cfg.Tags[1] != "payments" {
		t.Errorf("Tags = %v", cfg.Tags)
	}
	if cfg.StepLogging {
		t.Error("StepLogging should be off")
	}
	if cfg.Mask != "[redacted]" {
		t.Errorf("Mask = %q", cfg.Mask)
	}
	if len(cfg.SensitivePatterns) != 2 || cfg.SensitivePatterns[1] != "iban" {
		t.Errorf("SensitivePatterns = %v", cfg.SensitivePatterns)
	}
	if cfg.MaxDepth != 8 || cfg.MaxBytes != 1024 {
		t.Errorf("limits = (%d, %d)", cfg.MaxDepth, cfg.MaxBytes)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
`)
	t.Setenv("FLOWSTEP_LOGGING__LEVEL", "error")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != slog.LevelError {
		t.Errorf("LogLevel = %v, want error (env wins over file)", cfg.LogLevel)
	}
}

func TestLoad_EnvReachesUnderscoreKeys(t *testing.T) {
	// Keys with an underscore inside a segment must stay overridable:
	// the double-underscore delimiter maps to a dot, a single one does not.
	t.Setenv("FLOWSTEP_SANITIZER__MAX_BYTES", "1024")
	t.Setenv("FLOWSTEP_SANITIZER__MAX_DEPTH", "4")
	t.Setenv("FLOWSTEP_LOGGING__STEP_LOGGING", "false")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxBytes != 1024 {
		t.Errorf("MaxBytes = %d, want 1024 from env", cfg.MaxBytes)
	}
	if cfg.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4 from env", cfg.MaxDepth)
	}
	if cfg.StepLogging {
		t.Error("StepLogging should be off via env")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := flowstep.DefaultConfig()
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.Mask != want.Mask {
		t.Errorf("Mask = %q, defaults should survive a partial file", cfg.Mask)
	}
	if len(cfg.SensitivePatterns) != len(want.SensitivePatterns) {
		t.Errorf("SensitivePatterns = %v", cfg.SensitivePatterns)
	}
	if !cfg.StepLogging {
		t.Error("StepLogging should keep its default when unset")
	}
}

func TestLoad_TraceLevel(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: trace\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != config.LevelTrace {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, config.LevelTrace)
	}
	if config.LevelTrace >= slog.LevelDebug {
		t.Error("trace must sit below debug")
	}
}

func TestLoad_UnknownLevel(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
	if !strings.Contains(err.Error(), "loud") {
		t.Errorf("error %q should name the bad level", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
