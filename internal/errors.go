package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCyclicDependency       = errors.New("sigwatch: cyclic dependency")
	ErrWriteDuringComputation = errors.New("sigwatch: signal written during computation")
	ErrUseAfterDispose        = errors.New("sigwatch: watcher used after dispose")
	ErrFlushLimitExceeded     = errors.New("sigwatch: flush limit exceeded")
)

// CyclicDependencyError is raised when a computed reads itself, directly or
// through other computeds, while it is evaluating.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Path, " -> "))
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// WriteDuringComputationError is raised when a signal is written while a
// computed derivation is running.
type WriteDuringComputationError struct {
	Signal   string
	Computed string
}

func (e *WriteDuringComputationError) Error() string {
	return fmt.Sprintf("%s: %s written while evaluating %s", ErrWriteDuringComputation, e.Signal, e.Computed)
}

func (e *WriteDuringComputationError) Is(target error) bool {
	return target == ErrWriteDuringComputation
}

type UseAfterDisposeError struct {
	Watcher string
}

func (e *UseAfterDisposeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUseAfterDispose, e.Watcher)
}

func (e *UseAfterDisposeError) Is(target error) bool {
	return target == ErrUseAfterDispose
}

// IsReactiveError reports whether err is one of the engine's own failures.
func IsReactiveError(err error) bool {
	return errors.Is(err, ErrCyclicDependency) ||
		errors.Is(err, ErrWriteDuringComputation) ||
		errors.Is(err, ErrUseAfterDispose)
}

// Recover turns a panic carrying a reactive error into *err.
// Any other panic keeps unwinding. Must be deferred directly.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	if e, ok := r.(error); ok && IsReactiveError(e) {
		*err = e
		return
	}

	panic(r)
}
