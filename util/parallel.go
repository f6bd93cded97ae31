// Package util - Small helpers shared by the metrics, benchmark and CLI code.
package util

import (
	"runtime"
	"sync"
)

// Parallel splits [0, n) into contiguous partitions and runs fn on each one
// in its own goroutine, returning once every partition is done.
//
// Inputs smaller than twice the number of CPUs are handled serially with a
// single call to fn(0, n).
//
// Arguments:
// - n: Number of items to process.
// - fn: Function to execute for each partition (receives start and end indices).
//
// Example:
//
// ```go
//
//	Parallel(rows, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        // Fill row i
//	    }
//	})
//
// ```
func Parallel(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if n < workers*2 {
		fn(0, n)
		return
	}

	partSize := n / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		start := i * partSize
		end := start + partSize

		// Last partition gets any remainder.
		if i == workers-1 {
			end = n
		}

		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}
