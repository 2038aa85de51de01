package sigwatch

import "github.com/AnatoleLucet/sigwatch/internal"

var (
	ErrCyclicDependency       = internal.ErrCyclicDependency
	ErrWriteDuringComputation = internal.ErrWriteDuringComputation
	ErrUseAfterDispose        = internal.ErrUseAfterDispose
	ErrFlushLimitExceeded     = internal.ErrFlushLimitExceeded
)

type (
	CyclicDependencyError       = internal.CyclicDependencyError
	WriteDuringComputationError = internal.WriteDuringComputationError
	UseAfterDisposeError        = internal.UseAfterDisposeError
)
