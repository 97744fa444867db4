// Package worker fans bulk inputs out to a bounded number of goroutines.
package worker

import (
	"context"
	"sync"
)

// Result pairs an input with its outcome.
type Result[T any] struct {
	Input  string
	Output T
	Err    error
}

// Run calls fn for every input using at most concurrency goroutines.
// Results are returned in input order. fn receives ctx and is expected to
// honour cancellation; inputs not yet started when ctx is done get ctx.Err().
func Run[T any](ctx context.Context, inputs []string, concurrency int, fn func(context.Context, string) (T, error)) []Result[T] {
	results := make([]Result[T], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(max(concurrency, 1), len(inputs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i].Input = inputs[i]
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Output, results[i].Err = fn(ctx, inputs[i])
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
