package utils

import (
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
	"go.viam.com/test"
)

func TestForEachInParallel(t *testing.T) {
	defer goleak.VerifyNone(t)

	results := make([]int, 100)
	err := ForEachInParallel(len(results), 4, func(i int) error {
		results[i] = i * i
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	for i, r := range results {
		test.That(t, r, test.ShouldEqual, i*i)
	}
}

func TestForEachInParallelRunsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	var count atomic.Int64
	err := ForEachInParallel(10, 0, func(i int) error {
		count.Add(1)
		if i%3 == 0 {
			return errors.New("bad index")
		}
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad index")
	test.That(t, count.Load(), test.ShouldEqual, int64(10))
}

func TestForEachInParallelPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := ForEachInParallel(3, 2, func(i int) error {
		if i == 1 {
			panic("oh no")
		}
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "oh no")

	var pe *PanicError
	test.That(t, errors.As(err, &pe), test.ShouldBeTrue)
	test.That(t, pe.Index, test.ShouldEqual, 1)
	test.That(t, pe.Value, test.ShouldEqual, "oh no")
}
