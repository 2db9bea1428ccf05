// Package lazy provides values that are built on first use, at most once,
// and can be explicitly invalidated.
package lazy

import (
	"sync"

	"go.uber.org/atomic"
)

// Of is a lazy value. The build function runs at most once until Reset is
// called. Readers either see no value or the fully built one, never a value
// under construction.
type Of[T any] struct {
	create func() T
	mu     sync.Mutex // serializes builds and resets
	value  atomic.Pointer[T]
	builds atomic.Int64
}

// New creates a new lazy value. The callback will be called later, when the
// value is first accessed.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}

// Get returns the value, building it if necessary. If the build function
// panics nothing is memoized and the next Get tries again.
func (l *Of[T]) Get() T { //nolint:ireturn
	if v := l.value.Load(); v != nil {
		return *v
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if v := l.value.Load(); v != nil {
		return *v
	}

	var built T
	if l.create != nil {
		built = l.create()
	}

	l.builds.Inc()
	l.value.Store(&built)

	return built
}

// Initialized returns true if the value has been built and not reset since.
func (l *Of[T]) Initialized() bool {
	return l.value.Load() != nil
}

// Reset drops the built value; the next Get rebuilds it.
func (l *Of[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value.Store(nil)
}

// Builds returns how many times the value has been built.
func (l *Of[T]) Builds() int64 {
	return l.builds.Load()
}
