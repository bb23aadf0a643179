package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	t.Run("idle until first set", func(t *testing.T) {
		var s Stream[int]
		_, ok := s.Get()
		assert.False(t, ok)

		var got []int
		s.Subscribe(context.Background(), func(v int) { got = append(got, v) })
		assert.Empty(t, got)

		s.Set(1)
		assert.Equal(t, []int{1}, got)
	})

	t.Run("new subscriber receives latest value", func(t *testing.T) {
		var s Stream[string]
		s.Set("a")
		s.Set("b")

		var got []string
		s.Subscribe(context.Background(), func(v string) { got = append(got, v) })
		s.Set("c")
		assert.Equal(t, []string{"b", "c"}, got)
	})

	t.Run("all subscribers are notified", func(t *testing.T) {
		var s Stream[int]
		var a, b []int
		s.Subscribe(context.Background(), func(v int) { a = append(a, v) })
		s.Subscribe(context.Background(), func(v int) { b = append(b, v) })

		s.Set(7)
		assert.Equal(t, []int{7}, a)
		assert.Equal(t, []int{7}, b)
	})

	t.Run("cancel func detaches", func(t *testing.T) {
		var s Stream[int]
		var got []int
		cancel := s.Subscribe(context.Background(), func(v int) { got = append(got, v) })
		s.Set(1)
		cancel()
		cancel()
		s.Set(2)

		assert.Equal(t, []int{1}, got)
		assert.Zero(t, s.Subscribers())
	})

	t.Run("scope cancellation detaches", func(t *testing.T) {
		var s Stream[int]
		ctx, cancel := context.WithCancel(context.Background())
		s.Subscribe(ctx, func(int) {})
		require.Equal(t, 1, s.Subscribers())

		cancel()
		require.Eventually(t, func() bool { return s.Subscribers() == 0 }, time.Second, time.Millisecond)
	})

	t.Run("concurrent sets keep the last value", func(t *testing.T) {
		var s Stream[int]
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Go(func() { s.Set(i) })
		}
		wg.Wait()

		s.Set(-1)
		v, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, -1, v)
	})
}
