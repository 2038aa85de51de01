package sigwatch

import "github.com/AnatoleLucet/sigwatch/internal"

type WatcherState = internal.WatcherState

const (
	WatcherDetached  = internal.WatcherDetached
	WatcherIdle      = internal.WatcherIdle
	WatcherScheduled = internal.WatcherScheduled
	WatcherDisposed  = internal.WatcherDisposed
)

// Watcher runs an expression as a side effect, re-running it whenever the
// producers it read change.
//
// A watcher starts detached and attaches on its first Run. When one of its
// dependencies changes it becomes scheduled: an immediate watcher runs at the
// end of the write (or outermost Batch), any other one calls onInvalidate,
// which must arrange for Run to be called later. Invalidations arriving
// while scheduled are coalesced. Dispose is terminal.
type Watcher[T any] struct {
	watcher *internal.Watcher
}

// NewWatcher creates a detached watcher. A nil onInvalidate defers the run
// to the runtime's microtask queue.
func NewWatcher[T any](expr func() T, onInvalidate func(), immediate bool, opts ...Option) *Watcher[T] {
	o := collect(opts)

	return &Watcher[T]{
		o.runtime.rt.NewWatcher(func() any { return expr() }, onInvalidate, immediate, o.watcher()),
	}
}

// Run the expression under tracking and deliver the result.
// Once the watcher ran, Run skips the expression if none of its producers
// changed. Run on a disposed watcher returns ErrUseAfterDispose and does nothing.
func (w *Watcher[T]) Run() error {
	return w.watcher.Run()
}

// Notify delivers the last observed value without recomputing it.
// A watcher that never ran runs right away.
func (w *Watcher[T]) Notify() error {
	return w.watcher.Notify()
}

// Dispose removes every dependency edge, no invalidation reaches the
// watcher afterwards and a pending scheduled run is skipped.
func (w *Watcher[T]) Dispose() {
	w.watcher.Dispose()
}

func (w *Watcher[T]) State() WatcherState {
	return w.watcher.State()
}

func (w *Watcher[T]) Disposed() bool {
	return w.watcher.State() == WatcherDisposed
}

// Value returns the value observed by the last run.
func (w *Watcher[T]) Value() (T, bool) {
	v, ok := w.watcher.LastValue()
	return as[T](v), ok
}

func (w *Watcher[T]) Name() string {
	return w.watcher.Label()
}
