package internal

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Config struct {
	Logger     *zap.Logger
	Observer   Observer
	FlushLimit int
}

// Runtime is the single-owner execution context of a reactive graph.
// It must only be driven from one goroutine at a time.
type Runtime struct {
	tracker    *Tracker
	batcher    *Batcher
	scheduler  *Scheduler
	microtasks *TaskQueue

	// immediate watchers invalidated by the current write or batch
	immediate []*Watcher
	draining  bool

	// attached watchers are owned by the runtime until disposed
	watchers map[*Watcher]struct{}

	ids uint64

	logger   *zap.Logger
	observer Observer
}

func NewRuntime(cfg Config) *Runtime {
	r := &Runtime{
		tracker:    NewTracker(),
		batcher:    NewBatcher(),
		scheduler:  NewScheduler(cfg.FlushLimit),
		microtasks: NewTaskQueue(),
		watchers:   make(map[*Watcher]struct{}),
		logger:     cfg.Logger,
		observer:   cfg.Observer,
	}

	if r.logger == nil {
		r.logger = Logger()
	}
	if r.observer == nil {
		r.observer = nopObserver{}
	}

	return r
}

func (r *Runtime) Logger() *zap.Logger {
	return r.logger
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) CurrentNode() *ReactiveNode {
	return r.tracker.CurrentNode()
}

// QueueTask defers fn to the microtask boundary.
func (r *Runtime) QueueTask(fn func() error) {
	r.microtasks.Enqueue(fn)
	r.scheduler.Schedule()
}

func (r *Runtime) QueueMicrotask(fn func()) {
	r.QueueTask(func() error {
		fn()
		return nil
	})
}

// Pending returns the number of queued microtasks.
func (r *Runtime) Pending() int {
	return r.microtasks.Len()
}

// Flush drains the microtask queue, including tasks queued while
// draining. Calling it from inside a flush is a no-op.
func (r *Runtime) Flush() error {
	var errs []error

	r.scheduler.Run(func() {
		ran := 0
		for {
			task, ok := r.microtasks.Dequeue()
			if !ok {
				return
			}

			if ran == r.scheduler.Limit() {
				dropped := r.microtasks.Len() + 1
				r.microtasks.Clear()
				r.logger.Warn("flush limit exceeded", zap.Int("limit", ran), zap.Int("dropped", dropped))
				errs = append(errs, ErrFlushLimitExceeded)
				return
			}
			ran++

			if err := task(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}

// Turn runs fn as one synchronous host turn, then drains the microtasks.
func (r *Runtime) Turn(fn func()) error {
	if fn != nil {
		fn()
	}
	return r.Flush()
}

// Loop runs the received turns on the calling goroutine until ctx is done
// or turns is closed.
func (r *Runtime) Loop(ctx context.Context, turns <-chan func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn, ok := <-turns:
			if !ok {
				return nil
			}
			if err := r.Turn(fn); err != nil {
				return err
			}
		}
	}
}

// runImmediate runs the immediate watchers queued by the completed write.
func (r *Runtime) runImmediate() {
	if r.draining {
		return
	}
	r.draining = true
	defer func() { r.draining = false }()

	for len(r.immediate) > 0 {
		w := r.immediate[0]
		r.immediate[0] = nil
		r.immediate = r.immediate[1:]

		if err := w.runScheduled(); err != nil {
			r.immediate = nil
			panic(err)
		}
	}
}

func (r *Runtime) retain(w *Watcher) {
	r.watchers[w] = struct{}{}
}

func (r *Runtime) release(w *Watcher) {
	delete(r.watchers, w)
}

// Watchers returns the number of attached watchers.
func (r *Runtime) Watchers() int {
	return len(r.watchers)
}
