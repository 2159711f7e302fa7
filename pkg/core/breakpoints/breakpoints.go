package breakpoints

import (
	"iter"
	"slices"
	"sort"

	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

// DefaultMaxWidth is the widest viewport sampled when no limit is configured.
const DefaultMaxWidth = 1920

// Domain returns the sampling domain [0, maxWidth].
func Domain(maxWidth int) ranges.Range {
	return ranges.Span(0, maxWidth)
}

// Breakpoint is one step of a step function.
type Breakpoint[T any] struct {
	Threshold int
	Value     T
}

// Interval is the half-open pixel interval [From, To) on which one
// breakpoint holds. To is [ranges.PosInf] for the last breakpoint.
type Interval struct {
	From int
	To   int
}

// Breakpoints is an immutable step function with strictly increasing
// thresholds. The zero value has no breakpoints and every lookup fails.
type Breakpoints[T any] struct {
	points []Breakpoint[T]
}

// EqualFunc decides whether two sampled values are the same step.
type EqualFunc[T any] func(a, b T) bool

// Exact is the EqualFunc for comparable values.
func Exact[T comparable](a, b T) bool { return a == b }

// New builds breakpoints from explicit points, which must have strictly
// increasing thresholds.
func New[T any](points ...Breakpoint[T]) (Breakpoints[T], error) {
	for i := 1; i < len(points); i++ {
		if points[i].Threshold <= points[i-1].Threshold {
			return Breakpoints[T]{}, errors.New(errors.ErrCodeInvalidInput,
				"breakpoint thresholds not increasing: %d after %d", points[i].Threshold, points[i-1].Threshold)
		}
	}
	return Breakpoints[T]{points: slices.Clone(points)}, nil
}

// FromSamples evaluates f at every member of domain in increasing order and
// keeps a breakpoint wherever the value differs from the last kept one.
// The first error returned by f aborts sampling.
func FromSamples[T any](domain ranges.Range, f func(int) (T, error), eq EqualFunc[T]) (Breakpoints[T], error) {
	if domain.IsEmpty() {
		return Breakpoints[T]{}, errors.New(errors.ErrCodeInvalidRange, "empty sampling domain")
	}
	var b Breakpoints[T]
	for x := range domain.All() {
		v, err := f(x)
		if err != nil {
			return Breakpoints[T]{}, err
		}
		b.push(x, v, eq)
	}
	return b, nil
}

func (b *Breakpoints[T]) push(x int, v T, eq EqualFunc[T]) {
	if n := len(b.points); n > 0 && eq(b.points[n-1].Value, v) {
		return
	}
	b.points = append(b.points, Breakpoint[T]{Threshold: x, Value: v})
}

// Len returns the number of breakpoints.
func (b Breakpoints[T]) Len() int { return len(b.points) }

// Points returns a copy of the breakpoints in threshold order.
func (b Breakpoints[T]) Points() []Breakpoint[T] { return slices.Clone(b.points) }

// Thresholds returns the thresholds in increasing order.
func (b Breakpoints[T]) Thresholds() []int {
	out := make([]int, len(b.points))
	for i, p := range b.points {
		out[i] = p.Threshold
	}
	return out
}

// First returns the breakpoint with the smallest threshold.
func (b Breakpoints[T]) First() (Breakpoint[T], bool) {
	if len(b.points) == 0 {
		return Breakpoint[T]{}, false
	}
	return b.points[0], true
}

// Last returns the breakpoint with the largest threshold.
func (b Breakpoints[T]) Last() (Breakpoint[T], bool) {
	if len(b.points) == 0 {
		return Breakpoint[T]{}, false
	}
	return b.points[len(b.points)-1], true
}

// All iterates over the breakpoints together with the interval each holds on.
func (b Breakpoints[T]) All() iter.Seq2[Interval, T] {
	return func(yield func(Interval, T) bool) {
		for i, p := range b.points {
			if !yield(b.interval(i), p.Value) {
				return
			}
		}
	}
}

func (b Breakpoints[T]) interval(i int) Interval {
	to := ranges.PosInf
	if i+1 < len(b.points) {
		to = b.points[i+1].Threshold
	}
	return Interval{From: b.points[i].Threshold, To: to}
}

// At returns the value of the greatest threshold <= x.
func (b Breakpoints[T]) At(x int) (T, error) {
	i, ok := b.index(x)
	if !ok {
		var zero T
		if len(b.points) == 0 {
			return zero, errors.New(errors.ErrCodeDomain, "no breakpoints to look up %d in", x)
		}
		return zero, errors.New(errors.ErrCodeDomain, "width %d precedes first breakpoint %d", x, b.points[0].Threshold)
	}
	return b.points[i].Value, nil
}

// IntervalAt returns the interval of the breakpoint that holds at x.
func (b Breakpoints[T]) IntervalAt(x int) (Interval, error) {
	i, ok := b.index(x)
	if !ok {
		return Interval{}, errors.New(errors.ErrCodeDomain, "width %d is outside the breakpoint domain", x)
	}
	return b.interval(i), nil
}

func (b Breakpoints[T]) index(x int) (int, bool) {
	i := sort.Search(len(b.points), func(i int) bool { return b.points[i].Threshold > x })
	return i - 1, i > 0
}

// Slice returns the breakpoints whose interval intersects [from, to). The
// first retained threshold is raised to from if it started earlier.
func (b Breakpoints[T]) Slice(from, to int) Breakpoints[T] {
	var out Breakpoints[T]
	if from >= to {
		return out
	}
	for i, p := range b.points {
		iv := b.interval(i)
		if iv.From >= to || iv.To <= from {
			continue
		}
		if len(out.points) == 0 {
			p.Threshold = max(from, p.Threshold)
		}
		out.points = append(out.points, p)
	}
	return out
}

// Map applies f to every value. Thresholds are kept even when f maps
// neighbouring values to the same result.
func Map[T, U any](b Breakpoints[T], f func(T) U) Breakpoints[U] {
	out := Breakpoints[U]{points: make([]Breakpoint[U], len(b.points))}
	for i, p := range b.points {
		out.points[i] = Breakpoint[U]{Threshold: p.Threshold, Value: f(p.Value)}
	}
	return out
}
