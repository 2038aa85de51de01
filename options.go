package sigwatch

import "github.com/AnatoleLucet/sigwatch/internal"

type options struct {
	runtime *Runtime

	name  string
	equal internal.EqualFunc

	deliver   func(any)
	skipFirst bool
}

// Option configures a signal, computed or watcher.
// Options that do not apply to the node being created are ignored.
type Option func(*options)

// WithRuntime creates the node in rt instead of the goroutine's default runtime.
func WithRuntime(rt *Runtime) Option {
	return func(o *options) {
		o.runtime = rt
	}
}

// WithName labels the node, the label shows up in errors and logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithEquals replaces the default equality used to short-circuit writes
// and recomputations.
func WithEquals[T any](fn func(a, b T) bool) Option {
	return func(o *options) {
		o.equal = func(a, b any) bool { return fn(as[T](a), as[T](b)) }
	}
}

// WithDeliver sets the callback receiving each value a watcher evaluates.
func WithDeliver[T any](fn func(T)) Option {
	return func(o *options) {
		o.deliver = func(v any) { fn(as[T](v)) }
	}
}

// SkipFirstDelivery keeps a watcher's first run from delivering, for hosts
// that already display the initial value themselves.
func SkipFirstDelivery() Option {
	return func(o *options) {
		o.skipFirst = true
	}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.runtime == nil {
		o.runtime = DefaultRuntime()
	}

	return o
}

func (o *options) node() internal.NodeOptions {
	return internal.NodeOptions{
		Name:  o.name,
		Equal: o.equal,
	}
}

func (o *options) watcher() internal.WatcherOptions {
	return internal.WatcherOptions{
		NodeOptions:       o.node(),
		Deliver:           o.deliver,
		SkipFirstDelivery: o.skipFirst,
	}
}
