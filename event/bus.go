// Package event provides an in-memory publish/subscribe bus for the events
// a write pipeline accumulates on its context. The pipeline core only
// collects events; dispatching them is the post-execution hook's job, and
// [Drain] builds that hook for a Bus.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kayufok/flowstep-framework-sub000/id"
	"github.com/kayufok/flowstep-framework-sub000/step"
)

// Event is one dispatched payload with its envelope.
type Event struct {
	ID        id.ID     `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Handler consumes one event. Handlers for the same event run concurrently;
// a handler error fails the whole Publish call.
type Handler func(ctx context.Context, evt Event) error

// Namer lets a payload choose its event name. Payloads that do not
// implement it are named by their Go type.
type Namer interface {
	EventName() string
}

// Bus fans events out to subscribed handlers. Subscription is expected
// during wiring; Publish may be called from any number of concurrent
// invocations afterwards.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers a handler for events with the given name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], h)
}

// Publish wraps the payload in an envelope and delivers it to every
// handler subscribed to its name. Handlers run concurrently; the first
// handler error is returned. Publishing with no subscribers is a no-op.
func (b *Bus) Publish(ctx context.Context, payload any) (Event, error) {
	evt := Event{
		ID:        id.NewEventID(),
		Name:      NameOf(payload),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	b.mu.RLock()
	handlers := b.subs[evt.Name]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return evt, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handlers {
		handler := h
		g.Go(func() error {
			return handler(gctx, evt)
		})
	}

	if err := g.Wait(); err != nil {
		return evt, fmt.Errorf("event: dispatch %q: %w", evt.Name, err)
	}
	return evt, nil
}

// NameOf returns the event name for a payload: its Namer name when it
// implements the interface, its Go type otherwise.
func NameOf(payload any) string {
	if n, ok := payload.(Namer); ok {
		return n.EventName()
	}
	return fmt.Sprintf("%T", payload)
}

// Drain returns a post-execution hook that publishes every event the
// write context accumulated, in insertion order, stopping at the first
// dispatch error.
func Drain(bus *Bus) func(ctx context.Context, wc *step.WriteContext) error {
	return func(ctx context.Context, wc *step.WriteContext) error {
		for _, payload := range wc.DrainEvents() {
			if _, err := bus.Publish(ctx, payload); err != nil {
				return err
			}
		}
		return nil
	}
}
