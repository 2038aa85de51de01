package sigwatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/AnatoleLucet/sigwatch/internal"
)

// Observer receives engine events, see the metrics package.
type Observer = internal.Observer

// Runtime owns a reactive graph: its tracking stack, its microtask queue
// and its batches. Nodes stay bound to the runtime they were created in,
// and a runtime must only be driven from one goroutine at a time.
type Runtime struct {
	rt *internal.Runtime
}

type RuntimeOption func(*internal.Config)

func WithLogger(l *zap.Logger) RuntimeOption {
	return func(c *internal.Config) {
		c.Logger = l
	}
}

func WithObserver(o Observer) RuntimeOption {
	return func(c *internal.Config) {
		c.Observer = o
	}
}

// WithFlushLimit caps the number of microtasks a single Flush drains.
func WithFlushLimit(n int) RuntimeOption {
	return func(c *internal.Config) {
		c.FlushLimit = n
	}
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	var cfg internal.Config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runtime{internal.NewRuntime(cfg)}
}

// DefaultRuntime returns the calling goroutine's runtime, creating it on first use.
func DefaultRuntime() *Runtime {
	return &Runtime{internal.GetRuntime()}
}

// ReleaseDefaultRuntime drops the calling goroutine's runtime.
// Nodes created in it keep working but are no longer reachable by default.
func ReleaseDefaultRuntime() {
	internal.ReleaseRuntime()
}

// SetLogger sets the logger used by runtimes created without WithLogger.
func SetLogger(l *zap.Logger) {
	internal.SetLogger(l)
}

// QueueMicrotask defers fn until the current synchronous turn is over,
// i.e. the next Flush.
func (r *Runtime) QueueMicrotask(fn func()) {
	r.rt.QueueMicrotask(fn)
}

// Flush drains the microtask queue, including tasks queued meanwhile.
// It returns the errors of the deferred watcher runs, and
// ErrFlushLimitExceeded if the queue did not settle.
func (r *Runtime) Flush() error {
	return r.rt.Flush()
}

// Pending returns the number of queued microtasks.
func (r *Runtime) Pending() int {
	return r.rt.Pending()
}

// Turn runs fn as one synchronous turn then flushes the microtasks.
func (r *Runtime) Turn(fn func()) error {
	return r.rt.Turn(fn)
}

// Loop runs every received turn on the calling goroutine until ctx is done
// or turns is closed.
func (r *Runtime) Loop(ctx context.Context, turns <-chan func()) error {
	return r.rt.Loop(ctx, turns)
}

// Batch defers immediate watchers until fn returns.
func (r *Runtime) Batch(fn func()) {
	r.rt.NewBatch(fn)
}

// Untrack runs fn without tracking reads.
func (r *Runtime) Untrack(fn func()) {
	r.rt.Untrack(fn)
}

// Watchers returns the number of attached, not yet disposed, watchers.
func (r *Runtime) Watchers() int {
	return r.rt.Watchers()
}

func (r *Runtime) Logger() *zap.Logger {
	return r.rt.Logger()
}
