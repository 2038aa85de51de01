package internal

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	t.Run("subscriber list keeps order across removals", func(t *testing.T) {
		r := NewRuntime(Config{})
		s := r.NewSignal(0, NodeOptions{})

		var watchers []*Watcher
		for range 4 {
			w := r.NewWatcher(func() any { return s.Read() }, func() {}, false, WatcherOptions{})
			assert.NoError(t, w.Run())
			watchers = append(watchers, w)
		}

		watchers[0].Dispose()
		watchers[2].Dispose()

		subs := s.liveSubs()
		assert.Equal(t, []*ReactiveNode{watchers[1].ReactiveNode, watchers[3].ReactiveNode}, subs)

		watchers[3].Dispose()
		watchers[1].Dispose()
		assert.Nil(t, s.subsHead)
	})

	t.Run("collected consumers are pruned lazily", func(t *testing.T) {
		r := NewRuntime(Config{})
		s := r.NewSignal(0, NodeOptions{})

		func() {
			c := r.NewComputed(func() any { return s.Read() }, NodeOptions{})
			c.Read()
		}()
		assert.NotNil(t, s.subsHead)

		runtime.GC()
		runtime.GC()

		s.Write(1)
		assert.Nil(t, s.subsHead)
	})

	t.Run("attached watchers are retained", func(t *testing.T) {
		r := NewRuntime(Config{})
		s := r.NewSignal(0, NodeOptions{})
		runs := 0

		func() {
			w := r.NewWatcher(func() any {
				runs++
				return s.Read()
			}, nil, true, WatcherOptions{})
			assert.NoError(t, w.Run())
		}()

		runtime.GC()
		runtime.GC()

		s.Write(1)
		assert.Equal(t, 2, runs)
	})
}
