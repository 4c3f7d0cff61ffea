// Package worker provides bounded concurrency for batch replays.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return max(runtime.NumCPU()/2, 1)
}

// Semaphore provides a counting semaphore for controlling concurrency.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Acquire takes a permit, waiting until one is free or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Progress counts finished jobs of a batch.
type Progress struct {
	Complete int
	Failed   int
	Total    int
}

// Percent returns the completion percentage.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Complete+p.Failed) / float64(p.Total) * 100
}

// Run calls fn for every index in [0, n) with at most workers calls in
// flight. Results are stored by index, so their order does not depend on
// scheduling. Indexes not started before ctx is done get ctx.Err().
func Run[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	results := make([]T, n)
	errs := make([]error, n)
	sem := NewSemaphore(workers)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx); err != nil {
			for j := i; j < n; j++ {
				errs[j] = err
			}
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release()
			results[i], errs[i] = fn(ctx, i)
		}(i)
	}
	wg.Wait()
	return results, errs
}
