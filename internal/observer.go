package internal

// Observer receives engine events, mostly for metrics.
type Observer interface {
	SignalWritten()
	ComputedEvaluated(changed bool)
	WatcherScheduled()
	WatcherRun()
	WatcherDisposed()
}

type nopObserver struct{}

func (nopObserver) SignalWritten()         {}
func (nopObserver) ComputedEvaluated(bool) {}
func (nopObserver) WatcherScheduled()      {}
func (nopObserver) WatcherRun()            {}
func (nopObserver) WatcherDisposed()       {}
