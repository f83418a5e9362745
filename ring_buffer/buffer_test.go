package ring_buffer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer_Push(t *testing.T) {
	t.Run("fill ring buffer until it is full, and test that extra values are dropped", func(t *testing.T) {
		ringBuffer := New[int](10)

		for i := 0; i < 20; i++ {
			stored := ringBuffer.Push(i)
			assert.Equal(t, i < 10, stored, "push %d", i)
		}

		assert.Equal(t, 10, ringBuffer.Len())

		for i := 0; i < 10; i++ {
			v, ok := ringBuffer.TryPop()
			require.True(t, ok)
			assert.Equal(t, i, v)
		}

		_, ok := ringBuffer.TryPop()
		assert.False(t, ok)
	})

	t.Run("wrap around keeps order", func(t *testing.T) {
		ringBuffer := New[int](3)

		for i := 0; i < 10; i++ {
			require.True(t, ringBuffer.Push(i))
			v, ok := ringBuffer.TryPop()
			require.True(t, ok)
			assert.Equal(t, i, v)
		}
	})

	t.Run("clear empties the ring", func(t *testing.T) {
		ringBuffer := New[int](3)
		ringBuffer.Push(1)
		ringBuffer.Push(2)

		ringBuffer.Clear()

		assert.Equal(t, 0, ringBuffer.Len())
		assert.Equal(t, 3, ringBuffer.Cap())
	})
}

func TestRingBuffer_Pop(t *testing.T) {
	t.Run("times out on an empty ring", func(t *testing.T) {
		ringBuffer := New[int](2)

		start := time.Now()
		_, ok, err := ringBuffer.Pop(context.Background(), 20*time.Millisecond)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("wakes up when a value is pushed", func(t *testing.T) {
		ringBuffer := New[int](2)

		go func() {
			time.Sleep(10 * time.Millisecond)
			ringBuffer.Push(42)
		}()

		v, ok, err := ringBuffer.Pop(context.Background(), 5*time.Second)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("returns context error", func(t *testing.T) {
		ringBuffer := New[int](2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, ok, err := ringBuffer.Pop(ctx, time.Second)

		assert.False(t, ok)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent producer keeps arrival order", func(t *testing.T) {
		ringBuffer := New[int](1000)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				ringBuffer.Push(i)
			}
		}()

		for want := 0; want < 500; want++ {
			v, ok, err := ringBuffer.Pop(context.Background(), time.Second)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, want, v)
		}

		wg.Wait()
	})
}
