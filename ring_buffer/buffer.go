package ring_buffer

import (
	"context"
	"sync"
	"time"
)

// Buffer is a fixed-capacity FIFO shared by one producer and one consumer.
// Push never blocks: when the ring is full the new value is dropped. Pop
// waits up to a timeout for a value to arrive.
type Buffer[T any] struct {
	mu     sync.Mutex
	buffer []T
	head   int
	count  int
	ready  chan struct{}
}

func New[T any](size int) *Buffer[T] {
	if size < 1 {
		size = 1
	}

	return &Buffer[T]{
		buffer: make([]T, size),
		ready:  make(chan struct{}, 1),
	}
}

// Push appends v and reports whether it was stored.
func (r *Buffer[T]) Push(v T) bool {
	r.mu.Lock()
	if r.count == len(r.buffer) {
		r.mu.Unlock()
		return false
	}

	r.buffer[(r.head+r.count)%len(r.buffer)] = v
	r.count++
	r.mu.Unlock()

	select {
	case r.ready <- struct{}{}:
	default:
	}

	return true
}

// TryPop removes the oldest value without waiting.
func (r *Buffer[T]) TryPop() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	if r.count == 0 {
		return zero, false
	}

	v := r.buffer[r.head]
	r.buffer[r.head] = zero
	r.head = (r.head + 1) % len(r.buffer)
	r.count--

	return v, true
}

// Pop removes the oldest value, waiting up to timeout for one to be pushed.
// ok is false when the timeout elapsed first; err is set only when ctx ends.
func (r *Buffer[T]) Pop(ctx context.Context, timeout time.Duration) (v T, ok bool, err error) {
	if v, ok := r.TryPop(); ok {
		return v, true, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return v, false, ctx.Err()
		case <-timer.C:
			v, ok = r.TryPop()
			return v, ok, nil
		case <-r.ready:
			if v, ok = r.TryPop(); ok {
				return v, true, nil
			}
		}
	}
}

// Len returns the number of queued values.
func (r *Buffer[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// Cap returns the fixed capacity.
func (r *Buffer[T]) Cap() int {
	return len(r.buffer)
}

// Clear drops every queued value.
func (r *Buffer[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	for i := range r.buffer {
		r.buffer[i] = zero
	}
	r.head = 0
	r.count = 0
}
