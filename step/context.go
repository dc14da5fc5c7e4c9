package step

import (
	"fmt"
	"time"
)

// Scratch is the key-value contract shared by both context kinds.
// Put overwrites; Get reports absence explicitly. A context belongs to
// exactly one invocation and is never touched concurrently, so none of
// the methods synchronize.
type Scratch interface {
	Put(key string, value any)
	Get(key string) (any, bool)
	Has(key string) bool
	GetOrDefault(key string, def any) any
}

// scratch is the single map backing one invocation's context. Both the
// write context and any read facade over it point at the same instance.
type scratch struct {
	entries map[string]any
}

func newScratch() *scratch {
	return &scratch{entries: make(map[string]any)}
}

func (s *scratch) Put(key string, value any) {
	s.entries[key] = value
}

func (s *scratch) Get(key string) (any, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *scratch) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

func (s *scratch) GetOrDefault(key string, def any) any {
	if v, ok := s.entries[key]; ok {
		return v
	}
	return def
}

// ReadContext is the scratchpad handed to read steps. It holds the
// original request and the invocation start time. When produced by
// WriteContext.ReadView it shares the underlying scratchpad with the
// write context, so writes are visible in both directions.
type ReadContext struct {
	*scratch
	request   any
	startedAt time.Time
}

// NewReadContext creates a fresh context for one read pipeline invocation.
func NewReadContext(request any) *ReadContext {
	return &ReadContext{
		scratch:   newScratch(),
		request:   request,
		startedAt: time.Now().UTC(),
	}
}

// Request returns the original request value.
func (rc *ReadContext) Request() any { return rc.request }

// StartedAt returns the invocation start time.
func (rc *ReadContext) StartedAt() time.Time { return rc.startedAt }

// WriteContext is the scratchpad handed to write steps. Beyond the
// key-value store it accumulates events for post-execution dispatch and
// carries optional audit fields.
type WriteContext struct {
	*scratch
	command   any
	startedAt time.Time
	events    []any
	userID    string
	metadata  map[string]any

	readView *ReadContext // lazily built facade, shares scratch
}

// NewWriteContext creates a fresh context for one write pipeline invocation.
func NewWriteContext(command any) *WriteContext {
	return &WriteContext{
		scratch:   newScratch(),
		command:   command,
		startedAt: time.Now().UTC(),
	}
}

// Command returns the original command value.
func (wc *WriteContext) Command() any { return wc.command }

// StartedAt returns the invocation start time.
func (wc *WriteContext) StartedAt() time.Time { return wc.startedAt }

// AddEvent appends an event for later dispatch by the post-execution hook.
func (wc *WriteContext) AddEvent(evt any) {
	wc.events = append(wc.events, evt)
}

// Events returns the accumulated events in insertion order.
func (wc *WriteContext) Events() []any { return wc.events }

// DrainEvents returns the accumulated events and clears the list.
func (wc *WriteContext) DrainEvents() []any {
	evts := wc.events
	wc.events = nil
	return evts
}

// SetUserID records the acting user for audit purposes.
func (wc *WriteContext) SetUserID(userID string) { wc.userID = userID }

// UserID returns the acting user, or "" if none was recorded.
func (wc *WriteContext) UserID() string { return wc.userID }

// SetMeta attaches a free-form audit attribute.
func (wc *WriteContext) SetMeta(key string, value any) {
	if wc.metadata == nil {
		wc.metadata = make(map[string]any)
	}
	wc.metadata[key] = value
}

// Meta returns the audit attributes. May be nil.
func (wc *WriteContext) Meta() map[string]any { return wc.metadata }

// ReadView returns a read-context facade over this write context. The
// facade shares the same scratchpad (no copying), and its Request accessor
// returns the command, so read steps placed in a write pipeline observe and
// mutate exactly the entries that write steps do.
func (wc *WriteContext) ReadView() *ReadContext {
	if wc.readView == nil {
		wc.readView = &ReadContext{
			scratch:   wc.scratch,
			request:   wc.command,
			startedAt: wc.startedAt,
		}
	}
	return wc.readView
}

// Value retrieves a typed entry from a context. It fails with a distinct
// error for an absent key and for a value of the wrong type.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func Value[T any](s Scratch, key string) (T, error) {
	var zero T

	v, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("step: context key %q not set", key)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("step: context key %q holds %T, want %T", key, v, zero)
	}

	return typed, nil
}
