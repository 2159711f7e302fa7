package width

import (
	"math"

	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

const (
	// DefaultMaxIterations bounds the fixed-point iteration of FlexDAG.
	DefaultMaxIterations = 10000
	// DefaultTolerance is the largest fraction change still treated as
	// converged.
	DefaultTolerance = 1e-4
)

// FlexDAG grows children in proportion to their grow weights.
type FlexDAG struct {
	// MaxIterations caps the iteration. Zero means DefaultMaxIterations.
	MaxIterations int
	// Tolerance is the convergence threshold. Zero means DefaultTolerance.
	Tolerance float64
}

func (f FlexDAG) maxIterations() int {
	if f.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return f.MaxIterations
}

func (f FlexDAG) tolerance() float64 {
	if f.Tolerance <= 0 {
		return DefaultTolerance
	}
	return f.Tolerance
}

// flexState is the per-child state of one solve.
type flexState struct {
	fraction float64
	offset   int
	fixed    bool
	pixels   int
}

// Allocate implements [layout.Allocator].
func (f FlexDAG) Allocate(g *layout.Graph, available int) (layout.Assignments, error) {
	n := g.Len()
	out := make(layout.Assignments, n)
	if available <= 0 {
		for id := range out {
			out[id] = layout.Fixed(g.Child(id).WidthRange().Lo())
		}
		return out, nil
	}

	state := make([]flexState, n)
	for id := range state {
		state[id].fraction = float64(g.Child(id).WidthRange().Lo()) / float64(available)
	}

	tol := f.tolerance()
	for range f.maxIterations() {
		changed, err := f.step(g, state, available, tol)
		if err != nil {
			return nil, err
		}
		if !changed {
			for id, s := range state {
				if s.fixed {
					out[id] = layout.Fixed(s.pixels)
				} else {
					out[id] = layout.Fractional(s.fraction, s.offset)
				}
			}
			return out, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNonConvergence,
		"widths did not settle within %d iterations at %dpx", f.maxIterations(), available)
}

// step runs one redistribution round and reports whether anything moved.
func (f FlexDAG) step(g *layout.Graph, state []flexState, available int, tol float64) (bool, error) {
	next := make([]float64, len(state))
	offset := make([]int, len(state))
	for id := range next {
		next[id] = math.Inf(1)
	}

	for _, leg := range g.Legs() {
		fixedSpace, claimed, growTotal := 0, 0.0, 0.0
		for _, id := range leg {
			if state[id].fixed {
				fixedSpace += state[id].pixels
				continue
			}
			claimed += state[id].fraction
			growTotal += g.Child(id).Grow()
		}
		unclaimed := 1 - claimed
		for _, id := range leg {
			if state[id].fixed {
				continue
			}
			proposal := state[id].fraction + unclaimed*g.Child(id).Grow()/growTotal
			next[id] = min(next[id], proposal)
			offset[id] = max(offset[id], fixedSpace)
		}
	}

	changed := false
	for id := range state {
		s := &state[id]
		if s.fixed {
			continue
		}
		r := g.Child(id).WidthRange()
		px := next[id] * float64(available-offset[id])
		if !r.Contains(int(math.Round(px))) {
			floored, err := ranges.Floor(r, int(math.Floor(px)))
			if err != nil {
				return false, err
			}
			*s = flexState{fixed: true, pixels: floored}
			changed = true
			continue
		}
		if math.Abs(next[id]-s.fraction) >= tol || offset[id] != s.offset {
			changed = true
		}
		s.fraction, s.offset = next[id], offset[id]
	}
	return changed, nil
}
