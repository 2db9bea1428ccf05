package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazy(t *testing.T) {
	t.Parallel()

	count := 0
	stringToTest := "foo"
	strPtr := atomic.Pointer[string]{}
	strPtr.Store(&stringToTest)

	val := New[string](func() string {
		defer func() {
			// Increment the counter, but only if we don't panic.
			if err := recover(); err != nil {
				panic(err)
			}

			count++
		}()

		return *strPtr.Load() // might panic if strPtr is nil
	})

	assert.Equal(t, 0, count)
	assert.False(t, val.Initialized())

	// Panics don't memoize.
	strPtr.Store(nil)

	assert.Panics(t, func() {
		val.Get()
	})
	assert.False(t, val.Initialized())
	assert.Equal(t, int64(0), val.Builds())

	strPtr.Store(&stringToTest)

	assert.Equal(t, "foo", val.Get())
	assert.Equal(t, 1, count)
	assert.True(t, val.Initialized())

	// Already built, so a broken callback is never reached.
	strPtr.Store(nil)

	assert.NotPanics(t, func() {
		assert.Equal(t, "foo", val.Get())
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(1), val.Builds())
}

func TestLazyReset(t *testing.T) {
	t.Parallel()

	n := 0
	val := New(func() int {
		n++

		return n
	})

	assert.Equal(t, 1, val.Get())
	assert.Equal(t, 1, val.Get())

	val.Reset()
	assert.False(t, val.Initialized())

	assert.Equal(t, 2, val.Get())
	assert.Equal(t, int64(2), val.Builds())
}

func TestLazyConcurrentGet(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	val := New(func() map[string]int {
		calls.Add(1)

		return map[string]int{"a": 1, "b": 2}
	})

	var wg sync.WaitGroup

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.Len(t, val.Get(), 2)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestLazyNilCreate(t *testing.T) {
	t.Parallel()

	val := New[*int](nil)

	assert.Nil(t, val.Get())
	assert.True(t, val.Initialized())
}
