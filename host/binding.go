// Package host binds reactive expressions to an externally owned render
// target whose life the host drives: it attaches, detaches and reattaches
// the binding as its element enters and leaves the live tree.
package host

import (
	"go.uber.org/zap"

	"github.com/AnatoleLucet/sigwatch"
)

// Target is the host's render slot. SetValue must cause one re-render.
type Target[T any] interface {
	SetValue(v T)
}

type TargetFunc[T any] func(T)

func (f TargetFunc[T]) SetValue(v T) { f(v) }

type State int

const (
	Unbound State = iota
	Attached
	Detached
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

type Option func(*config)

type config struct {
	logger  *zap.Logger
	onError func(error)
}

// WithErrorHandler receives the errors of deferred runs, which have no
// caller to return them to.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Binding keeps one watcher on a producer for as long as the host element is
// live, pushing fresh values into the target on the microtask boundary.
type Binding[T any] struct {
	rt     *sigwatch.Runtime
	target Target[T]
	cfg    config

	state   State
	src     sigwatch.Producer[T]
	watcher *sigwatch.Watcher[T]

	last T
}

func NewBinding[T any](rt *sigwatch.Runtime, target Target[T], opts ...Option) *Binding[T] {
	b := &Binding[T]{
		rt:     rt,
		target: target,
	}

	for _, opt := range opts {
		opt(&b.cfg)
	}
	if b.cfg.logger == nil {
		b.cfg.logger = rt.Logger()
	}

	return b
}

// Render is called on every host render pass. Binding a new producer
// attaches to it; the displayed value is always read untracked.
// Producers are told apart with ==, one of an uncomparable type (a func
// type with a Get method, say) counts as new on every render.
func (b *Binding[T]) Render(src sigwatch.Producer[T]) (T, error) {
	if b.src == nil || !sameProducer(src, b.src) {
		if err := b.OnAttach(src); err != nil {
			var zero T
			return zero, err
		}
	}

	b.last = sigwatch.UntrackIn(b.rt, src.Get)
	return b.last, nil
}

// OnAttach binds src: the watcher runs once right away to subscribe, and
// that first value is left to the host's own render instead of being
// pushed back to it.
func (b *Binding[T]) OnAttach(src sigwatch.Producer[T]) error {
	b.dispose()
	b.src = src

	w := b.newWatcher(sigwatch.SkipFirstDelivery())
	if err := w.Run(); err != nil {
		w.Dispose()
		return err
	}

	b.watcher = w
	b.state = Attached
	b.last, _ = w.Value()

	return nil
}

// OnDetach disposes the watcher, only the last observed value is kept.
func (b *Binding[T]) OnDetach() {
	b.dispose()

	if b.state == Attached {
		b.state = Detached
	}
}

// OnReattach subscribes again with a new watcher that runs immediately and
// pushes the current value, so the host is consistent as soon as it is back.
func (b *Binding[T]) OnReattach() error {
	if b.src == nil || b.state == Attached {
		return nil
	}

	w := b.newWatcher()
	if err := w.Notify(); err != nil {
		w.Dispose()
		return err
	}

	b.watcher = w
	b.state = Attached

	return nil
}

func sameProducer[T any](a, b sigwatch.Producer[T]) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}

func (b *Binding[T]) State() State {
	return b.state
}

// Value returns the last value observed or rendered.
func (b *Binding[T]) Value() T {
	return b.last
}

func (b *Binding[T]) newWatcher(opts ...sigwatch.Option) *sigwatch.Watcher[T] {
	src := b.src

	var w *sigwatch.Watcher[T]
	w = sigwatch.NewWatcher(
		func() T { return src.Get() },
		func() { b.rt.QueueMicrotask(func() { b.runScheduled(w) }) },
		false,
		append(opts, sigwatch.WithRuntime(b.rt), sigwatch.WithDeliver(b.deliver))...,
	)

	return w
}

func (b *Binding[T]) runScheduled(w *sigwatch.Watcher[T]) {
	if w.Disposed() {
		b.cfg.logger.Debug("skipping run of disposed watcher", zap.String("watcher", w.Name()))
		return
	}

	if err := w.Run(); err != nil {
		b.cfg.logger.Error("deferred watcher run failed", zap.String("watcher", w.Name()), zap.Error(err))
		if b.cfg.onError != nil {
			b.cfg.onError(err)
		}
	}
}

func (b *Binding[T]) deliver(v T) {
	b.last = v
	b.target.SetValue(v)
}

func (b *Binding[T]) dispose() {
	if b.watcher != nil {
		b.watcher.Dispose()
		b.watcher = nil
	}
}
