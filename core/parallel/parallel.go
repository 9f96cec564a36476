// Package parallel provides the chunked goroutine fan-out used to grow forest
// trees and to run sweep and re-evaluation elements concurrently.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into contiguous chunks, at most one per CPU
// core, and runs fn on each chunk in its own goroutine. It returns after
// every chunk has finished. Callers write results into preallocated,
// index-addressed slices, so the final wait is the only synchronization
// point.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last chunk is never empty
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn over [0, items) on the calling goroutine
// when items does not exceed threshold, and fans out like Parallelize
// otherwise. Used where the per-item work is too cheap to pay goroutine
// overhead on small inputs.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
