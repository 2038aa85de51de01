package internal

import "go.uber.org/zap"

type WatcherState int

const (
	WatcherDetached WatcherState = iota
	WatcherIdle
	WatcherScheduled
	WatcherDisposed
)

func (s WatcherState) String() string {
	switch s {
	case WatcherDetached:
		return "detached"
	case WatcherIdle:
		return "idle"
	case WatcherScheduled:
		return "scheduled"
	case WatcherDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

type WatcherOptions struct {
	NodeOptions

	// receives each freshly evaluated value
	Deliver func(any)

	// no delivery on the run that follows construction
	SkipFirstDelivery bool
}

// Watcher is a non-memoized consumer that runs its expression as a side
// effect and delivers the result outward.
type Watcher struct {
	*ReactiveNode

	state WatcherState

	expr     func() any
	schedule func()

	immediate bool
	deliver   func(any)
	skipFirst bool

	hasRun bool
}

// NewWatcher creates a detached watcher. With immediate set, invalidation
// runs it at the end of the outermost write; otherwise schedule is called
// and is expected to call Run later. A nil schedule queues a microtask.
func (r *Runtime) NewWatcher(expr func() any, schedule func(), immediate bool, opts WatcherOptions) *Watcher {
	w := &Watcher{
		ReactiveNode: r.NewNode(KindWatcher, opts.NodeOptions),
		expr:         expr,
		schedule:     schedule,
		immediate:    immediate,
		deliver:      opts.Deliver,
		skipFirst:    opts.SkipFirstDelivery,
	}
	w.fn = w.invalidate

	if w.schedule == nil {
		w.schedule = func() { r.QueueTask(w.runScheduled) }
	}

	return w
}

func (w *Watcher) State() WatcherState { return w.state }

// LastValue returns the value observed by the last run.
func (w *Watcher) LastValue() (any, bool) {
	return w.value, w.hasValue
}

func (w *Watcher) invalidate() {
	if w.state != WatcherIdle {
		// scheduled ones coalesce, the others hold no edges
		return
	}

	r := w.runtime
	w.state = WatcherScheduled
	r.observer.WatcherScheduled()
	r.logger.Debug("watcher scheduled", zap.String("watcher", w.label), zap.Bool("immediate", w.immediate))

	if w.immediate {
		r.immediate = append(r.immediate, w)
		return
	}

	w.schedule()
}

// Run evaluates the expression under tracking and delivers the result.
// A watcher that already ran and whose producers are all unchanged skips
// the evaluation. Run on a disposed watcher returns ErrUseAfterDispose.
func (w *Watcher) Run() (err error) {
	if w.state == WatcherDisposed {
		return &UseAfterDisposeError{Watcher: w.label}
	}

	defer Recover(&err)

	r := w.runtime
	if w.state == WatcherDetached {
		r.retain(w)
	}
	w.state = WatcherIdle

	// cleared before polling, a producer failing below must not leave the
	// watcher unreachable by later writes
	w.dirty = false
	if w.hasRun && !w.pollDeps() {
		return nil
	}

	f := r.tracker.Push(w.ReactiveNode)
	value := func() any {
		defer r.tracker.Pop(f)
		return w.expr()
	}()

	if w.state == WatcherDisposed {
		// disposed by its own expression
		return nil
	}

	w.replaceDeps(f.reads)
	if w.immediate && w.state == WatcherScheduled && !r.batcher.IsBatching() {
		// invalidated while linking, by a write of its own expression
		defer r.runImmediate()
	}

	first := !w.hasRun
	w.hasRun = true
	w.value = value
	w.hasValue = true
	r.observer.WatcherRun()

	if first && w.skipFirst {
		return nil
	}
	if w.deliver != nil {
		w.deliver(value)
	}

	return nil
}

// Notify delivers the last observed value without re-evaluating.
// A watcher that never ran runs right away.
func (w *Watcher) Notify() error {
	if w.state == WatcherDisposed {
		return &UseAfterDisposeError{Watcher: w.label}
	}

	if !w.hasRun {
		return w.Run()
	}

	if w.deliver != nil {
		w.deliver(w.value)
	}

	return nil
}

// runScheduled is the deferred run: it skips watchers disposed or already
// run since they were scheduled.
func (w *Watcher) runScheduled() error {
	if w.state != WatcherScheduled {
		w.runtime.logger.Debug("watcher run skipped", zap.String("watcher", w.label), zap.Stringer("state", w.state))
		return nil
	}

	if err := w.Run(); err != nil {
		w.runtime.logger.Error("watcher run failed", zap.String("watcher", w.label), zap.Error(err))
		return err
	}

	return nil
}

// Dispose unsubscribes from every dependency. It is idempotent.
func (w *Watcher) Dispose() {
	if w.state == WatcherDisposed {
		return
	}

	r := w.runtime
	w.state = WatcherDisposed
	w.ClearDeps()
	r.release(w)

	r.observer.WatcherDisposed()
	r.logger.Debug("watcher disposed", zap.String("watcher", w.label))
}
