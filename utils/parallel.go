package utils

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// PanicError is reported by ForEachInParallel when f panics. Value is what was passed to panic.
type PanicError struct {
	Index int
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("got panic running index %d in parallel: %v", e.Index, e.Value)
}

// IndexFunc is for ForEachInParallel.
type IndexFunc func(i int) error

// ForEachInParallel runs f once for every index in [0, n), with at most limit calls in flight at once. A limit <= 0
// uses ParallelFactor. Every call runs to completion; a panic inside f is captured and reported as a *PanicError. The
// returned error combines every failure.
func ForEachInParallel(n, limit int, f IndexFunc) error {
	if limit <= 0 {
		limit = ParallelFactor
	}

	var (
		group    errgroup.Group
		bigError error
		errMu    sync.Mutex
	)
	storeError := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		bigError = multierr.Combine(bigError, err)
	}

	group.SetLimit(limit)
	for i := 0; i < n; i++ {
		group.Go(func() (err error) {
			defer func() {
				if thePanic := recover(); thePanic != nil {
					err = &PanicError{Index: i, Value: thePanic}
				}
				if err != nil {
					storeError(err)
				}
			}()
			return f(i)
		})
	}
	//nolint:errcheck
	group.Wait()
	return bigError
}
