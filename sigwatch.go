package sigwatch

import "github.com/AnatoleLucet/sigwatch/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Producer is anything that can be read and tracked: a Signal or a Computed.
type Producer[T any] interface {
	Get() T
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates your typical read/write signal.
func NewSignal[T any](initial T, opts ...Option) *Signal[T] {
	o := collect(opts)

	return &Signal[T]{
		o.runtime.rt.NewSignal(initial, o.node()),
	}
}

// Get the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Get() T {
	return as[T](s.signal.Read())
}

// Peek the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Value())
}

// Set a new value, marking every dependent dirty.
// Setting a value equal to the current one does nothing.
// Panics with a *WriteDuringComputationError inside a computed derivation.
func (s *Signal[T]) Set(v T) {
	s.signal.Write(v)
}

// Update sets the value returned by fn. The read of the current value is not tracked.
func (s *Signal[T]) Update(fn func(T) T) {
	s.signal.Update(func(v any) any { return fn(as[T](v)) })
}

// Version is bumped on every write that changes the value.
func (s *Signal[T]) Version() uint64 {
	return s.signal.Version()
}

func (s *Signal[T]) Name() string {
	return s.signal.Label()
}

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a lazily evaluated, memoized derivation (it's a memo).
// Nothing runs until the first Get.
func NewComputed[T any](compute func() T, opts ...Option) *Computed[T] {
	o := collect(opts)

	return &Computed[T]{
		o.runtime.rt.NewComputed(func() any { return compute() }, o.node()),
	}
}

// Get the current value of the computed, recomputing it only if one of its
// dependencies changed, and tracking it if within a reactive context.
// Panics with a *CyclicDependencyError if the computed reads itself.
func (c *Computed[T]) Get() T {
	return as[T](c.computed.Read())
}

// TryGet is Get returning the engine errors instead of panicking.
func (c *Computed[T]) TryGet() (v T, err error) {
	defer internal.Recover(&err)

	return c.Get(), nil
}

// Peek is an untracked Get.
func (c *Computed[T]) Peek() T {
	var v T
	c.computed.Runtime().Untrack(func() { v = c.Get() })
	return v
}

func (c *Computed[T]) Version() uint64 {
	return c.computed.Version()
}

func (c *Computed[T]) Name() string {
	return c.computed.Label()
}

// Untrack runs fn on the calling goroutine's default runtime without
// tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	return UntrackIn(DefaultRuntime(), fn)
}

// UntrackIn runs fn without tracking any reactive dependencies of rt.
func UntrackIn[T any](rt *Runtime, fn func() T) T {
	var result T
	rt.rt.Untrack(func() { result = fn() })
	return result
}

// Batch defers immediate watchers until fn returns.
func Batch(fn func()) {
	DefaultRuntime().Batch(fn)
}
