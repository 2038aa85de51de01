package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sigwatch"
)

type recorder[T any] struct {
	values []T
}

func (r *recorder[T]) SetValue(v T) {
	r.values = append(r.values, v)
}

type getter[T any] func() T

func (g getter[T]) Get() T { return g() }

func TestBinding(t *testing.T) {
	t.Run("first render is not pushed back", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(3, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)

		v, err := b.Render(count)
		require.NoError(t, err)
		assert.Equal(t, 3, v)
		assert.Equal(t, Attached, b.State())

		require.NoError(t, rt.Flush())
		assert.Empty(t, target.values)
	})

	t.Run("writes in one turn push once", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)
		_, err := b.Render(count)
		require.NoError(t, err)

		count.Set(1)
		count.Set(2)
		assert.Empty(t, target.values) // deferred to the microtask boundary

		require.NoError(t, rt.Flush())
		assert.Equal(t, []int{2}, target.values)
		assert.Equal(t, 2, b.Value())
	})

	t.Run("render reads untracked", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}
		runs := 0

		b := NewBinding[int](rt, target)

		// an outer watcher rendering the binding must not subscribe to count
		outer := sigwatch.NewWatcher(func() int {
			runs++
			v, _ := b.Render(count)
			return v
		}, nil, true, sigwatch.WithRuntime(rt))
		require.NoError(t, outer.Run())

		count.Set(1)
		require.NoError(t, rt.Flush())

		assert.Equal(t, 1, runs)
		assert.Equal(t, []int{1}, target.values)
	})

	t.Run("computed source", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		isEven := sigwatch.NewComputed(func() bool { return count.Get()%2 == 0 }, sigwatch.WithRuntime(rt))
		target := &recorder[bool]{}

		b := NewBinding[bool](rt, target)
		v, err := b.Render(isEven)
		require.NoError(t, err)
		assert.True(t, v)

		require.NoError(t, rt.Turn(func() { count.Set(1) }))
		require.NoError(t, rt.Turn(func() { count.Set(3) }))
		require.NoError(t, rt.Turn(func() { count.Set(4) }))

		assert.Equal(t, []bool{false, true}, target.values)
	})

	t.Run("detach stops pushes", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)
		_, err := b.Render(count)
		require.NoError(t, err)

		count.Set(1)
		b.OnDetach() // the pending run is skipped
		require.NoError(t, rt.Flush())

		count.Set(2)
		require.NoError(t, rt.Flush())

		assert.Empty(t, target.values)
		assert.Equal(t, Detached, b.State())
		assert.Equal(t, 0, b.Value())
		assert.Equal(t, 0, rt.Watchers())
	})

	t.Run("reattach pushes the current value immediately", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)
		_, err := b.Render(count)
		require.NoError(t, err)

		b.OnDetach()
		count.Set(5)

		require.NoError(t, b.OnReattach())
		assert.Equal(t, []int{5}, target.values) // no flush needed
		assert.Equal(t, Attached, b.State())

		require.NoError(t, rt.Turn(func() { count.Set(6) }))
		assert.Equal(t, []int{5, 6}, target.values)
		assert.Equal(t, 1, rt.Watchers())
	})

	t.Run("reattach while attached does nothing", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)
		require.NoError(t, b.OnReattach()) // unbound

		_, err := b.Render(count)
		require.NoError(t, err)
		require.NoError(t, b.OnReattach())

		assert.Empty(t, target.values)
		assert.Equal(t, 1, rt.Watchers())
	})

	t.Run("switching source drops the old watcher", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		a := sigwatch.NewSignal("a", sigwatch.WithRuntime(rt))
		b := sigwatch.NewSignal("b", sigwatch.WithRuntime(rt))
		target := &recorder[string]{}

		binding := NewBinding[string](rt, target)
		_, err := binding.Render(a)
		require.NoError(t, err)

		v, err := binding.Render(b)
		require.NoError(t, err)
		assert.Equal(t, "b", v)

		require.NoError(t, rt.Turn(func() { a.Set("aa") }))
		require.NoError(t, rt.Turn(func() { b.Set("bb") }))

		assert.Equal(t, []string{"bb"}, target.values)
		assert.Equal(t, 1, rt.Watchers())
	})

	t.Run("deferred errors go to the handler", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		other := sigwatch.NewSignal(0, sigwatch.WithRuntime(rt))
		bad := sigwatch.NewComputed(func() int {
			if count.Get() > 0 {
				other.Set(1)
			}
			return count.Get()
		}, sigwatch.WithRuntime(rt))

		var errs []error
		b := NewBinding[int](rt, TargetFunc[int](func(int) {}), WithErrorHandler(func(err error) {
			errs = append(errs, err)
		}))
		_, err := b.Render(bad)
		require.NoError(t, err)

		require.NoError(t, rt.Turn(func() { count.Set(1) }))
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], sigwatch.ErrWriteDuringComputation)
	})

	t.Run("attach errors are returned", func(t *testing.T) {
		rt := sigwatch.NewRuntime()

		var c *sigwatch.Computed[int]
		c = sigwatch.NewComputed(func() int { return c.Get() }, sigwatch.WithRuntime(rt))

		b := NewBinding[int](rt, TargetFunc[int](func(int) {}))
		_, err := b.Render(c)
		assert.ErrorIs(t, err, sigwatch.ErrCyclicDependency)
		assert.Equal(t, 0, rt.Watchers())
	})

	t.Run("uncomparable producers reattach on every render", func(t *testing.T) {
		rt := sigwatch.NewRuntime()
		count := sigwatch.NewSignal(1, sigwatch.WithRuntime(rt))
		target := &recorder[int]{}

		b := NewBinding[int](rt, target)
		src := getter[int](func() int { return count.Get() * 2 })

		v, err := b.Render(src)
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		v, err = b.Render(src)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, rt.Watchers())

		require.NoError(t, rt.Turn(func() { count.Set(2) }))
		assert.Equal(t, []int{4}, target.values)
	})
}
