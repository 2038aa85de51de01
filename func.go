package sigwatch

// SignalFunc is the function form of NewSignal: a getter and a setter.
func SignalFunc[T any](initial T, opts ...Option) (func() T, func(T)) {
	s := NewSignal(initial, opts...)

	return s.Get, s.Set
}

// ComputedFunc is the function form of NewComputed.
func ComputedFunc[T any](fn func() T, opts ...Option) func() T {
	return NewComputed(fn, opts...).Get
}

// Watch runs expr now and delivers every later value to fn, re-running on
// the runtime's microtask queue. It returns the function disposing the watcher.
func Watch[T any](expr func() T, fn func(T), opts ...Option) (func(), error) {
	w := NewWatcher(expr, nil, false, append(opts[:len(opts):len(opts)], WithDeliver(fn))...)

	if err := w.Run(); err != nil {
		w.Dispose()
		return nil, err
	}

	return w.Dispose, nil
}
