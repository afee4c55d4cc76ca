// Package event is a small synchronous dispatcher. Domain code fires named
// events after a state change commits; listeners log, count and invalidate
// caches without the emitter knowing about them.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners in
// registration order. A panicking listener is logged and skipped; it never
// fails the caller, whose work has already committed.
func Fire(ctx context.Context, event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		call(ctx, event, h, payload)
	}
}

func call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "error", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}

// Has reports whether any listener is registered for event.
func Has(event string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[event]) > 0
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
