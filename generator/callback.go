package generator

import (
	"context"
	"fmt"
	"log/slog"
)

// Callback observes every result Generate produces, cached or not and
// successful or not. It receives its own copy of the result.
type Callback func(*Result) error

// CallbackID identifies a registered Callback.
type CallbackID uint64

type callbackEntry struct {
	id CallbackID
	fn Callback
}

// RegisterCallback adds fn after any existing callbacks.
func (g *Generator) RegisterCallback(fn Callback) CallbackID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	g.callbacks = append(g.callbacks, callbackEntry{id: g.nextID, fn: fn})
	return g.nextID
}

// UnregisterCallback removes a callback and reports whether it was found.
func (g *Generator) UnregisterCallback(id CallbackID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, cb := range g.callbacks {
		if cb.id == id {
			g.callbacks = append(g.callbacks[:i:i], g.callbacks[i+1:]...)
			return true
		}
	}
	return false
}

// notify runs the callbacks in registration order outside the lock. A
// callback error or panic is logged and the rest still run.
func (g *Generator) notify(ctx context.Context, res *Result) {
	g.mu.Lock()
	cbs := append([]callbackEntry(nil), g.callbacks...)
	g.mu.Unlock()

	for _, cb := range cbs {
		if err := invoke(cb.fn, res.Clone()); err != nil {
			g.logger.ErrorContext(ctx, "callback error",
				slog.Uint64("callback_id", uint64(cb.id)),
				slog.String("request_id", res.RequestID),
				slog.Any("error", err))
		}
	}
}

func invoke(fn Callback, res *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v", r)
		}
	}()
	return fn(res)
}
