package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime(t *testing.T) {
	t.Run("flush drains tasks queued while draining", func(t *testing.T) {
		log := []string{}
		r := NewRuntime(Config{})

		r.QueueMicrotask(func() {
			log = append(log, "first")
			r.QueueMicrotask(func() { log = append(log, "nested") })
		})
		r.QueueMicrotask(func() { log = append(log, "second") })

		require.NoError(t, r.Flush())
		assert.Equal(t, []string{"first", "second", "nested"}, log)
		assert.Equal(t, 0, r.Pending())
	})

	t.Run("flush is not reentrant", func(t *testing.T) {
		log := []string{}
		r := NewRuntime(Config{})

		r.QueueMicrotask(func() {
			r.QueueMicrotask(func() { log = append(log, "inner") })
			require.NoError(t, r.Flush())
			log = append(log, "outer")
		})

		require.NoError(t, r.Flush())
		assert.Equal(t, []string{"outer", "inner"}, log)
	})

	t.Run("task errors are joined", func(t *testing.T) {
		r := NewRuntime(Config{})

		r.QueueTask(func() error { return ErrUseAfterDispose })
		r.QueueTask(func() error { return nil })

		assert.ErrorIs(t, r.Flush(), ErrUseAfterDispose)
	})

	t.Run("loop runs turns until the channel closes", func(t *testing.T) {
		log := []string{}
		r := NewRuntime(Config{})
		s := r.NewSignal(0, NodeOptions{})

		w := r.NewWatcher(func() any { return s.Read() }, nil, false, WatcherOptions{
			Deliver: func(v any) { log = append(log, "pushed") },
		})
		require.NoError(t, w.Run())

		turns := make(chan func(), 2)
		turns <- func() { s.Write(1); s.Write(2) }
		turns <- func() { log = append(log, "idle") }
		close(turns)

		require.NoError(t, r.Loop(context.Background(), turns))
		assert.Equal(t, []string{"pushed", "pushed", "idle"}, log)
	})

	t.Run("loop stops with the context", func(t *testing.T) {
		r := NewRuntime(Config{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, r.Loop(ctx, make(chan func())), context.Canceled)
	})
}
