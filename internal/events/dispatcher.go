package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler reacts to one published change.
type EventHandler func(context.Context, Event) error

// Dispatcher fans change events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// syncDispatcher runs subscribers on the publishing goroutine, in subscription
// order, so a mutation's side effects are done before its response is written.
type syncDispatcher struct {
	mu     sync.RWMutex
	byType map[EventType][]EventHandler
}

func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{byType: map[EventType][]EventHandler{}}
}

// Publish runs every subscriber even when an earlier one fails. Failures are
// labelled with the event type and joined.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for i, handle := range d.subscribers(event.Type) {
		if err := handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s subscriber %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	d.byType[eventType] = append(d.byType[eventType], handler)
	d.mu.Unlock()
}

// subscribers returns a copy so handlers may subscribe while being run.
func (d *syncDispatcher) subscribers(eventType EventType) []EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]EventHandler(nil), d.byType[eventType]...)
}

// SubscribeAll registers handler for every change event.
func SubscribeAll(d Dispatcher, handler EventHandler) {
	for _, t := range AllEventTypes {
		d.Subscribe(t, handler)
	}
}
