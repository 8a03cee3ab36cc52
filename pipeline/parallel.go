// Package pipeline implements the parallel file I/O pipeline (C6): read
// strategies that turn file bytes into a *recstore.Store and write
// strategies that turn a *recstore.Store back into file bytes, fanning the
// CPU-bound parse/serialize work out across a worker pool while preserving
// the 1:1 mapping between line index and record identity.
package pipeline

import (
	"runtime"
	"sync"
)

// resolveParallelism returns n if positive, else the number of logical CPUs
// (parallelism defaults to the number of hardware threads).
func resolveParallelism(n int) int {
	if n > 0 {
		return n
	}

	return runtime.GOMAXPROCS(0)
}

// parallelMap applies fn to every element of items using a bounded worker
// pool (grounded on the goroutine-pool-over-channel pattern used for
// concurrent decode fan-out in line-protocol ingestion pipelines), and
// returns index-aligned results. Each worker writes only its own result
// slots, so no synchronization is needed on the results slice itself:
// output positions are index-partitioned up front.
//
// The first error from any worker is returned after all workers have
// drained their input; results for items
// that never ran are left at their zero value.
func parallelMap[T, R any](items []T, parallelism int, fn func(int, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	workers := resolveParallelism(parallelism)
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		firstErr error
	)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, err := fn(i, items[i])
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results[i] = r
			}
		}()
	}
	wg.Wait()

	return results, firstErr
}
