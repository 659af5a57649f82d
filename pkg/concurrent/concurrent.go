// Package concurrent holds small fan-out helpers over slices.
package concurrent

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Filter keeps the elements of in for which keep returns true, preserving order. keep runs
// on up to workers goroutines (GOMAXPROCS when workers <= 0) and must be safe for
// concurrent use.
func Filter[T any](in []T, workers int, keep func(T) bool) []T {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(in) < 2 {
		out := make([]T, 0, len(in))
		for _, v := range in {
			if keep(v) {
				out = append(out, v)
			}
		}
		return out
	}

	res := make([]bool, len(in))
	chunk := (len(in) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(in); start += chunk {
		end := min(start+chunk, len(in))
		g.Go(func() error {
			for i := start; i < end; i++ {
				res[i] = keep(in[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(in))
	for i, ok := range res {
		if ok {
			out = append(out, in[i])
		}
	}
	return out
}
