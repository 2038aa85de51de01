package internal

import (
	"math"
	"reflect"
)

type EqualFunc func(a, b any) bool

type Signal struct {
	*ReactiveNode

	equal EqualFunc
}

func (r *Runtime) NewSignal(initial any, opts NodeOptions) *Signal {
	s := &Signal{
		ReactiveNode: r.NewNode(KindSignal, opts),
		equal:        opts.Equal,
	}
	if s.equal == nil {
		s.equal = isEqual
	}

	s.value = initial
	s.hasValue = true

	return s
}

func (s *Signal) Read() any {
	s.runtime.tracker.Track(s.ReactiveNode)

	return s.value
}

func (s *Signal) Write(v any) {
	r := s.runtime

	if c := r.tracker.ActiveComputed(); c != nil {
		panic(&WriteDuringComputationError{Signal: s.label, Computed: c.label})
	}

	if s.equal(s.value, v) {
		return
	}

	s.value = v
	s.version++
	r.scheduler.Tick()
	r.observer.SignalWritten()

	r.batcher.Batch(s.propagate, r.runImmediate)
}

// Update writes fn applied to the current value. The read is not tracked.
func (s *Signal) Update(fn func(any) any) {
	s.Write(fn(s.value))
}

func isEqual(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == b
	}

	// NaN is unchanged by writing NaN again
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	case float32:
		if y, ok := b.(float32); ok && x != x && y != y {
			return true
		}
	}

	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) {
		return false
	}
	if !t.Comparable() {
		return reflect.DeepEqual(a, b)
	}

	// structs holding uncomparable interface values still panic on ==
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()

	return a == b
}
