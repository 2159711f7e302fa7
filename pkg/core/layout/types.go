package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/erwd/pkg/core/ranges"
)

// Tolerance is the per-child difference below which two fractional width
// assignments are treated as the same breakpoint value.
const Tolerance = 1e-4

// Child is anything a container can lay out: a leaf widget with a fixed
// width range, or a finalized container.
type Child interface {
	// Name identifies the child in error messages and emitted markup.
	Name() string
	// WidthRange returns every width the child accepts.
	WidthRange() ranges.Range
	// HeightAt returns the child's height when it is width pixels wide.
	HeightAt(width int) (int, error)
	// Grow is the child's relative rate of claiming extra width. It is
	// always positive.
	Grow() float64
}

// Assignment is the width one child receives. A fixed assignment has
// Fraction == 0 and uses Pixels. A fractional assignment realizes to
// Fraction × (available − Offset).
type Assignment struct {
	Pixels   int
	Fraction float64
	Offset   int
}

// Fixed returns a fixed pixel assignment.
func Fixed(px int) Assignment { return Assignment{Pixels: px} }

// Fractional returns a fractional assignment.
func Fractional(fraction float64, offset int) Assignment {
	return Assignment{Fraction: fraction, Offset: offset}
}

// IsFixed reports whether the assignment is a fixed pixel width.
func (a Assignment) IsFixed() bool { return a.Fraction == 0 }

// Realize returns the width in pixels inside a container that is available
// pixels wide.
func (a Assignment) Realize(available int) float64 {
	if a.IsFixed() {
		return float64(a.Pixels)
	}
	return a.Fraction * float64(available-a.Offset)
}

// RealizePixels rounds [Assignment.Realize] to whole pixels, never below 0.
func (a Assignment) RealizePixels(available int) int {
	return max(0, int(math.Round(a.Realize(available))))
}

// ApproxEqual compares two assignments with [Tolerance] on the fraction.
func (a Assignment) ApproxEqual(b Assignment) bool {
	if a.IsFixed() != b.IsFixed() {
		return false
	}
	if a.IsFixed() {
		return a.Pixels == b.Pixels
	}
	return math.Abs(a.Fraction-b.Fraction) < Tolerance && a.Offset == b.Offset
}

// String renders "240px" or "0.5×(w−120)".
func (a Assignment) String() string {
	switch {
	case a.IsFixed():
		return fmt.Sprintf("%dpx", a.Pixels)
	case a.Offset == 0:
		return fmt.Sprintf("%.4g×w", a.Fraction)
	}
	return fmt.Sprintf("%.4g×(w−%d)", a.Fraction, a.Offset)
}

// Assignments holds one Assignment per local id.
type Assignments []Assignment

// ApproxEqual reports whether both hold approximately equal assignments for
// every local id.
func (a Assignments) ApproxEqual(b Assignments) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].ApproxEqual(b[i]) {
			return false
		}
	}
	return true
}

// Allocator divides a container's width among its children.
//
// Every realized width must lie inside the child's own width range. When
// the children cannot fit, the allocator still answers (overflowing the
// container) rather than failing.
type Allocator interface {
	Allocate(g *Graph, available int) (Assignments, error)
}

// Edge orders two children by local id.
type Edge struct {
	From int
	To   int
}

// Hints are the author-supplied orderings of a container, already resolved
// to local ids.
type Hints struct {
	Right []Edge
	Below []Edge
}
