package chunk

import (
	"runtime"
	"sync"
)

// ParallelChunks runs process for chunk indices 0..n-1 across worker
// goroutines and collects the results in index order. Each call of
// process must be independent; the codec itself stays single-threaded
// per chunk, so this is the place callers regain parallelism across a
// scanline block batch.
//
// workers <= 0 selects GOMAXPROCS. The first error stops no other
// worker but is the one returned; results are discarded on error.
func ParallelChunks(n, workers int, process func(i int) ([]byte, error)) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	results := make([][]byte, n)

	if workers <= 1 {
		for i := 0; i < n; i++ {
			out, err := process(i)
			if err != nil {
				return nil, err
			}
			results[i] = out
		}
		return results, nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	chunkSize := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out, err := process(i)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				results[i] = out
			}
		}(start, end)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
