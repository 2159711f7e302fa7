package layout

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/dag"
	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	erwderrors "github.com/matzehuels/erwd/pkg/errors"
)

// Options configure how a graph allocates and samples widths.
type Options struct {
	// Allocator divides the container width among children. Required.
	Allocator Allocator
	// MaxWidth is the widest container width sampled for assignment
	// breakpoints. Zero means breakpoints.DefaultMaxWidth.
	MaxWidth int
	// Sampler controls parallel sampling.
	Sampler breakpoints.Sampler
}

func (o Options) maxWidth() int {
	if o.MaxWidth <= 0 {
		return breakpoints.DefaultMaxWidth
	}
	return o.MaxWidth
}

// Builder collects the edges of a graph. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	children []Child
	right    *dag.DAG
	below    *dag.DAG
	opts     Options
	err      error
}

// NewBuilder starts a graph over children.
func NewBuilder(children []Child, opts Options) *Builder {
	return &Builder{
		children: children,
		right:    dag.New(len(children)),
		below:    dag.New(len(children)),
		opts:     opts,
	}
}

// Right records that child to sits right of child from.
func (b *Builder) Right(from, to int) *Builder {
	if err := b.right.AddEdge(from, to); err != nil && b.err == nil {
		b.err = err
	}
	return b
}

// Below records that child to sits below child from.
func (b *Builder) Below(from, to int) *Builder {
	if err := b.below.AddEdge(from, to); err != nil && b.err == nil {
		b.err = err
	}
	return b
}

// Hints adds resolved author hints.
func (b *Builder) Hints(h Hints) *Builder {
	for _, e := range h.Right {
		b.Right(e.From, e.To)
	}
	for _, e := range h.Below {
		b.Below(e.From, e.To)
	}
	return b
}

// Build validates the orderings and returns the immutable graph. A cycle in
// either ordering is a CYCLIC_CONSTRAINT error naming the children on it.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, erwderrors.Wrap(erwderrors.ErrCodeInternal, b.err, "building layout")
	}
	if len(b.children) == 0 {
		return nil, erwderrors.New(erwderrors.ErrCodeInvalidWidget, "container has no children")
	}
	if b.opts.Allocator == nil {
		return nil, erwderrors.New(erwderrors.ErrCodeInternal, "layout has no width allocator")
	}

	rightOrder, err := b.right.TopoOrder()
	if err != nil {
		return nil, b.cycleError("right", err)
	}
	belowOrder, err := b.below.TopoOrder()
	if err != nil {
		return nil, b.cycleError("below", err)
	}

	return &Graph{
		children:   b.children,
		right:      b.right,
		below:      b.below,
		rightOrder: rightOrder,
		belowOrder: belowOrder,
		legs:       b.right.Legs(),
		opts:       b.opts,
		maxWidth:   ranges.PosInf,
		memo:       &memo{},
	}, nil
}

func (b *Builder) cycleError(relation string, err error) error {
	var cycleErr *dag.CycleError
	if !errors.As(err, &cycleErr) {
		return erwderrors.Wrap(erwderrors.ErrCodeCyclicConstraint, err, "%s ordering", relation)
	}
	groups := make([]string, len(cycleErr.Components))
	for i, comp := range cycleErr.Components {
		names := make([]string, len(comp))
		for j, id := range comp {
			names[j] = b.children[id].Name()
		}
		groups[i] = strings.Join(names, ", ")
	}
	return erwderrors.New(erwderrors.ErrCodeCyclicConstraint,
		"%s ordering has a cycle through %s", relation, strings.Join(groups, "; "))
}

// Graph is the immutable layout of one container.
type Graph struct {
	children   []Child
	right      *dag.DAG
	below      *dag.DAG
	rightOrder []int
	belowOrder []int
	legs       [][]int
	opts       Options
	maxWidth   int
	memo       *memo
}

// memo holds lazily derived values. Each field is computed at most once.
type memo struct {
	widthOnce sync.Once
	span      ranges.Range
	width     ranges.Range
	widthErr  error

	assignOnce  sync.Once
	assignReady atomic.Bool
	assignments breakpoints.Breakpoints[Assignments]
	assignErr   error
}

// Len returns the number of children.
func (g *Graph) Len() int { return len(g.children) }

// Child returns the child with local id i.
func (g *Graph) Child(i int) Child { return g.children[i] }

// Right returns the horizontal ordering. It must not be modified.
func (g *Graph) Right() *dag.DAG { return g.right }

// Below returns the vertical ordering. It must not be modified.
func (g *Graph) Below() *dag.DAG { return g.below }

// RightOrder returns the local ids in topological order of the horizontal
// ordering.
func (g *Graph) RightOrder() []int { return g.rightOrder }

// Legs returns every maximal left-to-right path of children.
func (g *Graph) Legs() [][]int { return g.legs }

// MaxWidth returns the upper clip of [Graph.WidthRange], ranges.PosInf if
// unclipped.
func (g *Graph) MaxWidth() int { return g.maxWidth }

// Options returns the options the graph was built with.
func (g *Graph) Options() Options { return g.opts }

// Equal reports whether both graphs order the same children identically.
// Allocator and clip are not compared.
func (g *Graph) Equal(o *Graph) bool {
	return g.Len() == o.Len() && g.right.Equal(o.right) && g.below.Equal(o.below)
}

// WithMaxWidth returns a copy of the graph whose width range is clipped
// above at maxWidth. Derived values are recomputed for the copy.
func (g *Graph) WithMaxWidth(maxWidth int) *Graph {
	c := *g
	c.maxWidth = maxWidth
	c.memo = &memo{}
	return &c
}

// EdgeCount returns the total number of edges in both orderings.
func (g *Graph) EdgeCount() int { return g.right.EdgeCount() + g.below.EdgeCount() }

// String lists both orderings by child name.
func (g *Graph) String() string {
	var b strings.Builder
	write := func(label string, d *dag.DAG) {
		b.WriteString(label)
		b.WriteString(":")
		for _, e := range d.Edges() {
			fmt.Fprintf(&b, " %s->%s", g.children[e.From].Name(), g.children[e.To].Name())
		}
	}
	write("right", g.right)
	b.WriteString("; ")
	write("below", g.below)
	return b.String()
}

// WidthRange returns every width the container can take with this layout:
// side-by-side children add their ranges, alternatives along different
// paths combine with [ranges.Max]. The result is clipped above at
// [Graph.MaxWidth] and may be empty if the layout never fits under it.
func (g *Graph) WidthRange() (ranges.Range, error) {
	g.computeWidth()
	return g.memo.width, g.memo.widthErr
}

// MinWidth returns the narrowest width of the unclipped layout.
func (g *Graph) MinWidth() (int, error) {
	g.computeWidth()
	return g.memo.span.Lo(), g.memo.widthErr
}

func (g *Graph) computeWidth() {
	g.memo.widthOnce.Do(func() {
		span, err := g.foldWidth()
		if err != nil {
			g.memo.widthErr = err
			return
		}
		g.memo.span = span
		g.memo.width = ranges.Clip(span, ranges.NegInf, g.maxWidth)
	})
}

// foldWidth walks the horizontal ordering from sinks to sources.
func (g *Graph) foldWidth() (ranges.Range, error) {
	acc := make([]ranges.Range, g.Len())
	for i := len(g.rightOrder) - 1; i >= 0; i-- {
		id := g.rightOrder[i]
		own := g.children[id].WidthRange()
		succ := g.right.Children(id)
		if len(succ) == 0 {
			acc[id] = own
			continue
		}
		rest, err := maxOver(acc, succ)
		if err != nil {
			return ranges.Range{}, g.childRangeError(id, err)
		}
		if acc[id], err = ranges.Add(own, rest); err != nil {
			return ranges.Range{}, g.childRangeError(id, err)
		}
	}
	total, err := maxOver(acc, g.right.Sources())
	if err != nil {
		return ranges.Range{}, erwderrors.Wrap(erwderrors.ErrCodeInvalidRange, err, "layout width")
	}
	return total, nil
}

func maxOver(acc []ranges.Range, ids []int) (ranges.Range, error) {
	out := acc[ids[0]]
	for _, id := range ids[1:] {
		var err error
		if out, err = ranges.Max(out, acc[id]); err != nil {
			return ranges.Range{}, err
		}
	}
	return out, nil
}

func (g *Graph) childRangeError(id int, err error) error {
	return erwderrors.Wrap(erwderrors.ErrCodeInvalidRange, err, "width of %q", g.children[id].Name())
}

// Domain returns the container widths over which assignment breakpoints
// are sampled: the width range clipped to [0, MaxWidth option]. A layout
// that only fits wider than that is sampled at its narrowest width.
func (g *Graph) Domain() (ranges.Range, error) {
	width, err := g.WidthRange()
	if err != nil || width.IsEmpty() {
		return ranges.Range{}, err
	}
	if d := ranges.Clip(width, 0, g.opts.maxWidth()); !d.IsEmpty() {
		return d, nil
	}
	return ranges.Point(max(0, width.Lo())), nil
}

// Assignments returns the allocator's output sampled across
// [Graph.Domain]. A layout with an empty width range has no breakpoints.
func (g *Graph) Assignments() (breakpoints.Breakpoints[Assignments], error) {
	g.memo.assignOnce.Do(func() {
		defer g.memo.assignReady.Store(true)
		domain, err := g.Domain()
		if err != nil {
			g.memo.assignErr = err
			return
		}
		if domain.IsEmpty() {
			return
		}
		samples, err := breakpoints.Sample(g.opts.Sampler, domain, func(w int) (sample, error) {
			a, err := g.Allocate(w)
			return sample{a: a, w: w}, err
		}, sameSample)
		if err != nil {
			g.memo.assignErr = err
			return
		}
		g.memo.assignments = breakpoints.Map(samples, func(s sample) Assignments { return s.a })
	})
	return g.memo.assignments, g.memo.assignErr
}

// sample is one allocator answer and the width it was computed at.
type sample struct {
	a Assignments
	w int
}

// sameSample reports whether the recorded sample can stand in for next: the
// fractions are within [Tolerance] and both realize to the same pixels at
// next's width.
func sameSample(recorded, next sample) bool {
	return recorded.a.ApproxEqual(next.a) && slices.Equal(realize(recorded.a, next.w), realize(next.a, next.w))
}

// Allocate runs the allocator at exactly available pixels.
func (g *Graph) Allocate(available int) (Assignments, error) {
	a, err := g.opts.Allocator.Allocate(g, available)
	if err != nil {
		return nil, err
	}
	if len(a) != g.Len() {
		return nil, erwderrors.New(erwderrors.ErrCodeInternal, "allocator returned %d assignments for %d children", len(a), g.Len())
	}
	return a, nil
}

// AssignmentsAt returns the assignments valid at container width w. Widths
// covered by the sampled breakpoints read them; other widths, or any width
// before [Graph.Assignments] has been called, are allocated directly.
func (g *Graph) AssignmentsAt(w int) (Assignments, error) {
	if g.memo.assignReady.Load() && g.memo.assignErr == nil && g.memo.assignments.Len() > 0 {
		if domain, _ := g.Domain(); domain.Contains(w) {
			return g.memo.assignments.At(w)
		}
	}
	return g.Allocate(w)
}

// Widths returns every child's realized pixel width at container width w.
func (g *Graph) Widths(w int) ([]int, error) {
	a, err := g.AssignmentsAt(w)
	if err != nil {
		return nil, err
	}
	return realize(a, w), nil
}

func realize(a Assignments, w int) []int {
	px := make([]int, len(a))
	for i := range a {
		px[i] = a[i].RealizePixels(w)
	}
	return px
}

// HeightAt returns the container height at width w. Stacked children add
// their heights; children side by side take the tallest.
func (g *Graph) HeightAt(w int) (int, error) {
	widths, err := g.Widths(w)
	if err != nil {
		return 0, err
	}
	return g.heightFor(widths)
}

// EstimateHeight is HeightAt with a direct allocation at w. Arrangement
// strategies use it to compare candidate layouts without sampling them.
func (g *Graph) EstimateHeight(w int) (int, error) {
	a, err := g.Allocate(w)
	if err != nil {
		return 0, err
	}
	return g.heightFor(realize(a, w))
}

// Heights returns every child's height given its realized width.
func (g *Graph) Heights(widths []int) ([]int, error) {
	heights := make([]int, g.Len())
	for id, child := range g.children {
		h, err := child.HeightAt(widths[id])
		if err != nil {
			code := erwderrors.GetCode(err)
			if code == "" {
				code = erwderrors.ErrCodeInternal
			}
			return nil, erwderrors.Wrap(code, err, "height of %q at %dpx", child.Name(), widths[id])
		}
		heights[id] = h
	}
	return heights, nil
}

func (g *Graph) heightFor(widths []int) (int, error) {
	heights, err := g.Heights(widths)
	if err != nil {
		return 0, err
	}
	acc := make([]int, g.Len())
	for i := len(g.belowOrder) - 1; i >= 0; i-- {
		id := g.belowOrder[i]
		rest := 0
		for _, succ := range g.below.Children(id) {
			rest = max(rest, acc[succ])
		}
		acc[id] = heights[id] + rest
	}
	total := 0
	for _, src := range g.below.Sources() {
		total = max(total, acc[src])
	}
	return total, nil
}

// Cells returns the grid placement of every child at container width w.
func (g *Graph) Cells(w int) ([]grid.Placement, error) {
	widths, err := g.Widths(w)
	if err != nil {
		return nil, err
	}
	heights, err := g.Heights(widths)
	if err != nil {
		return nil, err
	}
	return grid.Place(g.right, g.below, widths, heights)
}
