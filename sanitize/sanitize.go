// Package sanitize masks sensitive fields in arbitrary values before they
// are logged. Values are projected onto a generic tree (objects become
// field→value maps, lists become value sequences, everything else is a
// scalar leaf) and any field whose name matches a configured pattern,
// case-insensitively, has its value replaced by a fixed mask string at any
// nesting depth. The walk is bounded in both depth and serialized size so
// pathological inputs cannot stall an invocation.
package sanitize

import (
	"encoding/json"
	"fmt"
	"strings"

	flowstep "github.com/kayufok/flowstep-framework-sub000"
)

// Markers substituted for values the sanitizer refuses to walk.
const (
	markerUnserializable = "[unserializable]"
	markerDepthExceeded  = "[truncated: depth]"
)

// Sanitizer masks sensitive fields in a value tree. It is immutable after
// construction and safe for concurrent use.
type Sanitizer struct {
	patterns []string // lowercased, separator-stripped
	mask     string
	maxDepth int
	maxBytes int
}

// New creates a Sanitizer from the process configuration. Zero-valued
// limits fall back to the defaults in flowstep.DefaultConfig.
func New(cfg flowstep.Config) *Sanitizer {
	def := flowstep.DefaultConfig()
	if cfg.Mask == "" {
		cfg.Mask = def.Mask
	}
	if len(cfg.SensitivePatterns) == 0 {
		cfg.SensitivePatterns = def.SensitivePatterns
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}

	patterns := make([]string, 0, len(cfg.SensitivePatterns))
	for _, p := range cfg.SensitivePatterns {
		patterns = append(patterns, normalize(p))
	}

	return &Sanitizer{
		patterns: patterns,
		mask:     cfg.Mask,
		maxDepth: cfg.MaxDepth,
		maxBytes: cfg.MaxBytes,
	}
}

// Clean returns a sanitized copy of v. The input value is never mutated.
// Sanitizing an already-sanitized tree produces an identical tree.
func (s *Sanitizer) Clean(v any) any {
	if v == nil {
		return nil
	}

	// Project onto the generic tree via a JSON round-trip. This both
	// copies the input and collapses structs, maps, and slices into the
	// three shapes the walk understands.
	raw, err := json.Marshal(v)
	if err != nil {
		return markerUnserializable
	}
	if len(raw) > s.maxBytes {
		return fmt.Sprintf("[truncated: %d bytes exceeds limit %d]", len(raw), s.maxBytes)
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return markerUnserializable
	}

	return s.walk(tree, 0)
}

// Mask returns the configured mask string.
func (s *Sanitizer) Mask() string { return s.mask }

func (s *Sanitizer) walk(v any, depth int) any {
	if depth >= s.maxDepth {
		return markerDepthExceeded
	}

	switch node := v.(type) {
	case map[string]any:
		for field, val := range node {
			if s.sensitive(field) {
				node[field] = s.mask
			} else {
				node[field] = s.walk(val, depth+1)
			}
		}
		return node
	case []any:
		for i, val := range node {
			node[i] = s.walk(val, depth+1)
		}
		return node
	default:
		return node
	}
}

func (s *Sanitizer) sensitive(field string) bool {
	name := normalize(field)
	for _, p := range s.patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// normalize lowercases and strips word separators so that "credit-card",
// "creditCard", and "CREDIT_CARD" all compare equal.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
