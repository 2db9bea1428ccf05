// Package shutdown runs cleanup hooks when a process is interrupted or
// finishes normally.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler collects cleanup hooks. The zero value is ready to use.
type Handler struct {
	mu    sync.Mutex
	hooks []func(context.Context)
	once  sync.Once
}

// New creates a handler.
func New() *Handler {
	return &Handler{}
}

// BeforeShutdown registers a hook. Hooks run in reverse registration order,
// like deferred calls, and receive a context that is still alive.
func (h *Handler) BeforeShutdown(hook func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, hook)
}

// Context returns a context canceled on SIGINT or SIGTERM. The returned stop
// function releases the signal registration.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Run calls every registered hook once. Later calls do nothing.
func (h *Handler) Run(ctx context.Context) {
	h.once.Do(func() {
		h.mu.Lock()
		hooks := h.hooks
		h.hooks = nil
		h.mu.Unlock()

		ctx = context.WithoutCancel(ctx)

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i](ctx)
		}
	})
}
