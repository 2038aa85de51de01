//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime(Config{})
	})

	return globalRuntime
}

// ReleaseRuntime is a no-op, wasm hosts run a single goroutine.
func ReleaseRuntime() {}
