package events

import (
	"context"
	"errors"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans published events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	SubscribeAll(handler EventHandler)
}

// syncDispatcher runs handlers on the publishing goroutine, typed
// subscribers first and then catch-all ones, each in subscription order.
type syncDispatcher struct {
	mu       sync.RWMutex
	byType   map[EventType][]EventHandler
	wildcard []EventHandler
	onError  func(Event, error)
}

// NewInMemoryDispatcher creates a dispatcher. When onError is set it receives
// handler failures and Publish always returns nil; otherwise Publish returns
// the joined failures. Either way every handler runs.
func NewInMemoryDispatcher(onError func(Event, error)) Dispatcher {
	return &syncDispatcher{
		byType:  make(map[EventType][]EventHandler),
		onError: onError,
	}
}

func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.byType[event.Type])+len(d.wildcard))
	handlers = append(handlers, d.byType[event.Type]...)
	handlers = append(handlers, d.wildcard...)
	d.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		err := handler(ctx, event)
		if err == nil {
			continue
		}
		if d.onError != nil {
			d.onError(event, err)
			continue
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byType[eventType] = append(d.byType[eventType], handler)
}

func (d *syncDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wildcard = append(d.wildcard, handler)
}
