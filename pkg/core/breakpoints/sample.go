package breakpoints

import (
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

// chunkSize is the number of consecutive widths one goroutine evaluates.
const chunkSize = 64

// Sampler configures parallel sampling.
type Sampler struct {
	// Workers bounds the number of goroutines evaluating samples at once.
	// Zero means runtime.GOMAXPROCS(0); one samples on the calling goroutine.
	Workers int
}

func (s Sampler) workers() int {
	if s.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return s.Workers
}

// Sample is [FromSamples] evaluated by a bounded pool of goroutines. The
// domain is split into chunks that are evaluated concurrently and merged in
// order, so the result (including which error is reported) is the same as
// the serial sweep. f must be safe for concurrent use.
func Sample[T any](s Sampler, domain ranges.Range, f func(int) (T, error), eq EqualFunc[T]) (Breakpoints[T], error) {
	if s.workers() == 1 {
		return FromSamples(domain, f, eq)
	}
	if domain.IsEmpty() {
		return Breakpoints[T]{}, errors.New(errors.ErrCodeInvalidRange, "empty sampling domain")
	}

	xs := slices.Collect(domain.All())
	values := make([]T, len(xs))
	errs := make([]error, len(xs))

	var g errgroup.Group
	g.SetLimit(s.workers())
	for start := 0; start < len(xs); start += chunkSize {
		end := min(start+chunkSize, len(xs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				values[i], errs[i] = f(xs[i])
				if errs[i] != nil {
					return errs[i]
				}
			}
			return nil
		})
	}
	_ = g.Wait() // errors are reported in domain order below

	var b Breakpoints[T]
	for i, x := range xs {
		if errs[i] != nil {
			return Breakpoints[T]{}, errs[i]
		}
		b.push(x, values[i], eq)
	}
	return b, nil
}
