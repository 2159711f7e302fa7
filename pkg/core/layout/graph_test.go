package layout

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

type leaf struct {
	name   string
	width  ranges.Range
	height int
}

func (l leaf) Name() string { return l.name }

func (l leaf) WidthRange() ranges.Range { return l.width }

func (l leaf) HeightAt(int) (int, error) { return l.height, nil }

func (l leaf) Grow() float64 { return 1 }

// minimal gives every child its narrowest width.
type minimal struct{}

func (minimal) Allocate(g *Graph, _ int) (Assignments, error) {
	out := make(Assignments, g.Len())
	for i := range out {
		out[i] = Fixed(g.Child(i).WidthRange().Lo())
	}
	return out, nil
}

// halves splits the container evenly between two children.
type halves struct{}

func (halves) Allocate(g *Graph, _ int) (Assignments, error) {
	return Assignments{Fractional(0.5, 0), Fractional(0.5, 0)}, nil
}

// capped gives the first child half the container up to about 255px and
// the second child nothing. Past 510px its fraction shrinks by less than
// [Tolerance] per pixel.
type capped struct{}

func (capped) Allocate(_ *Graph, w int) (Assignments, error) {
	fraction := 0.5
	if w > 0 {
		fraction = min(0.5, 255.4/float64(w))
	}
	return Assignments{Fractional(fraction, 0), Fixed(0)}, nil
}

// tall reports a failure instead of a height.
type tall struct {
	leaf
	err error
}

func (t tall) HeightAt(int) (int, error) { return 0, t.err }

func children(leaves ...leaf) []Child {
	out := make([]Child, len(leaves))
	for i, l := range leaves {
		out[i] = l
	}
	return out
}

func TestBuildRejectsCycles(t *testing.T) {
	kids := children(leaf{name: "logo", width: ranges.Point(10)}, leaf{name: "menu", width: ranges.Point(10)})

	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"right", func(b *Builder) { b.Right(0, 1).Right(1, 0) }},
		{"below", func(b *Builder) { b.Below(0, 1).Below(1, 0) }},
		{"self", func(b *Builder) { b.Right(1, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(kids, Options{Allocator: minimal{}})
			tt.build(b)
			_, err := b.Build()
			if !errors.Is(err, errors.ErrCodeCyclicConstraint) {
				t.Fatalf("Build() error = %v, want CYCLIC_CONSTRAINT", err)
			}
			if msg := errors.UserMessage(err); !strings.Contains(msg, "menu") {
				t.Errorf("UserMessage() = %q, want it to name the widget", msg)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := NewBuilder(nil, Options{Allocator: minimal{}}).Build(); !errors.Is(err, errors.ErrCodeInvalidWidget) {
		t.Errorf("Build() without children error = %v, want INVALID_WIDGET", err)
	}
	kids := children(leaf{name: "a", width: ranges.Point(1)})
	if _, err := NewBuilder(kids, Options{}).Build(); err == nil {
		t.Error("Build() without allocator error = nil")
	}
	if _, err := NewBuilder(kids, Options{Allocator: minimal{}}).Right(0, 5).Build(); err == nil {
		t.Error("Build() with unknown node error = nil")
	}
}

func TestWidthRangeTwoNodes(t *testing.T) {
	a := leaf{name: "a", width: ranges.Span(100, 200)}
	b := leaf{name: "b", width: ranges.Span(150, 400)}

	sum, _ := ranges.Add(a.width, b.width)
	widest, _ := ranges.Max(a.width, b.width)

	tests := []struct {
		name string
		edge bool
		want ranges.Range
	}{
		{"right edge adds", true, sum},
		{"no edge takes max", false, widest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(children(a, b), Options{Allocator: minimal{}})
			if tt.edge {
				builder.Right(0, 1)
			}
			g, err := builder.Build()
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			got, err := g.WidthRange()
			if err != nil {
				t.Fatalf("WidthRange() error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("WidthRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWidthRangeDiamond(t *testing.T) {
	// a then either b or c then d: widths add along each path and the
	// wider path wins.
	kids := children(
		leaf{name: "a", width: ranges.Point(10)},
		leaf{name: "b", width: ranges.Span(20, 30)},
		leaf{name: "c", width: ranges.Span(25, 50)},
		leaf{name: "d", width: ranges.Point(5)},
	)
	g, err := NewBuilder(kids, Options{Allocator: minimal{}}).
		Right(0, 1).Right(0, 2).Right(1, 3).Right(2, 3).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	got, err := g.WidthRange()
	if err != nil {
		t.Fatalf("WidthRange() error: %v", err)
	}
	if want := "[40,65]"; got.String() != want {
		t.Errorf("WidthRange() = %v, want %v", got, want)
	}
}

func TestWithMaxWidth(t *testing.T) {
	kids := children(leaf{name: "a", width: ranges.Span(100, 500)})
	g, err := NewBuilder(kids, Options{Allocator: minimal{}}).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	clipped := g.WithMaxWidth(299)
	if got, _ := clipped.WidthRange(); got.String() != "[100,299]" {
		t.Errorf("clipped WidthRange() = %v, want [100,299]", got)
	}
	if got, _ := g.WidthRange(); got.String() != "[100,500]" {
		t.Errorf("original WidthRange() = %v, want [100,500]", got)
	}
	if !clipped.Equal(g) {
		t.Error("WithMaxWidth() copy is not Equal to the original")
	}

	never := g.WithMaxWidth(50)
	got, err := never.WidthRange()
	if err != nil {
		t.Fatalf("WidthRange() error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("WidthRange() below minimum = %v, want empty", got)
	}
	if min, _ := never.MinWidth(); min != 100 {
		t.Errorf("MinWidth() = %d, want 100", min)
	}
	if bps, err := never.Assignments(); err != nil || bps.Len() != 0 {
		t.Errorf("Assignments() = %d breakpoints, %v; want none", bps.Len(), err)
	}
}

func TestHeightAt(t *testing.T) {
	kids := children(
		leaf{name: "header", width: ranges.Span(100, 400), height: 50},
		leaf{name: "nav", width: ranges.Span(100, 200), height: 300},
		leaf{name: "body", width: ranges.Span(100, 400), height: 200},
	)

	tests := []struct {
		name  string
		build func(b *Builder)
		want  int
	}{
		{"side by side takes tallest", func(b *Builder) { b.Right(0, 1).Right(1, 2) }, 300},
		{"stacked adds", func(b *Builder) { b.Below(0, 1).Below(1, 2) }, 550},
		{"header over two columns", func(b *Builder) { b.Below(0, 1).Below(0, 2).Right(1, 2) }, 350},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(kids, Options{Allocator: minimal{}})
			tt.build(b)
			g, err := b.Build()
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			got, err := g.HeightAt(800)
			if err != nil {
				t.Fatalf("HeightAt() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("HeightAt() = %d, want %d", got, tt.want)
			}
			if est, _ := g.EstimateHeight(800); est != got {
				t.Errorf("EstimateHeight() = %d, want %d", est, got)
			}
		})
	}
}

func TestAssignments(t *testing.T) {
	kids := children(
		leaf{name: "a", width: ranges.Span(50, 500)},
		leaf{name: "b", width: ranges.Span(50, 500)},
	)
	g, err := NewBuilder(kids, Options{Allocator: halves{}}).Right(0, 1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	before, err := g.AssignmentsAt(400)
	if err != nil {
		t.Fatalf("AssignmentsAt() error: %v", err)
	}

	bps, err := g.Assignments()
	if err != nil {
		t.Fatalf("Assignments() error: %v", err)
	}
	if bps.Len() != 1 {
		t.Errorf("Assignments() = %d breakpoints, want 1", bps.Len())
	}
	if first, _ := bps.First(); first.Threshold != 100 {
		t.Errorf("first threshold = %d, want 100", first.Threshold)
	}

	after, err := g.AssignmentsAt(400)
	if err != nil {
		t.Fatalf("AssignmentsAt() error: %v", err)
	}
	if !before.ApproxEqual(after) {
		t.Errorf("AssignmentsAt() before sampling = %v, after = %v", before, after)
	}
	if widths, _ := g.Widths(400); !slices.Equal(widths, []int{200, 200}) {
		t.Errorf("Widths(400) = %v, want [200 200]", widths)
	}
}

func TestAssignmentsStayInRange(t *testing.T) {
	kids := children(
		leaf{name: "logo", width: ranges.Span(0, 255)},
		leaf{name: "menu", width: ranges.Span(0, 1700)},
	)
	g, err := NewBuilder(kids, Options{Allocator: capped{}}).Right(0, 1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	bps, err := g.Assignments()
	if err != nil {
		t.Fatalf("Assignments() error: %v", err)
	}
	domain, err := g.Domain()
	if err != nil {
		t.Fatalf("Domain() error: %v", err)
	}

	for w := range domain.All() {
		a, err := bps.At(w)
		if err != nil {
			t.Fatalf("At(%d) error: %v", w, err)
		}
		for id, px := range realize(a, w) {
			if r := g.Child(id).WidthRange(); !r.Contains(px) {
				t.Fatalf("at %dpx child %q gets %dpx from %v, outside %v", w, g.Child(id).Name(), px, a[id], r)
			}
		}
	}
}

func TestHeightsWrapsChildErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Code
	}{
		{"coded", errors.New(errors.ErrCodeDomain, "no height"), errors.ErrCodeDomain},
		{"plain", fmt.Errorf("no height"), errors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kids := []Child{tall{leaf: leaf{name: "banner", width: ranges.Span(10, 100)}, err: tt.err}}
			g, err := NewBuilder(kids, Options{Allocator: minimal{}}).Build()
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			_, err = g.Heights([]int{10})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Heights() error = %v, want %s", err, tt.want)
			}
			if msg := errors.UserMessage(err); !strings.Contains(msg, "banner") {
				t.Errorf("UserMessage() = %q, want it to name the child", msg)
			}
		})
	}
}

func TestCells(t *testing.T) {
	kids := children(
		leaf{name: "a", width: ranges.Point(100), height: 10},
		leaf{name: "b", width: ranges.Point(150), height: 20},
	)
	g, err := NewBuilder(kids, Options{Allocator: minimal{}}).Right(0, 1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	cells, err := g.Cells(500)
	if err != nil {
		t.Fatalf("Cells() error: %v", err)
	}
	want := []grid.Placement{
		{Column: grid.Cell{Index: 0, Span: 1}, Row: grid.Cell{Index: 0, Span: 1}},
		{Column: grid.Cell{Index: 1, Span: 1}, Row: grid.Cell{Index: 0, Span: 1}},
	}
	if !slices.Equal(cells, want) {
		t.Errorf("Cells() = %v, want %v", cells, want)
	}
}

func TestAssignmentRealize(t *testing.T) {
	tests := []struct {
		name string
		a    Assignment
		w    int
		want int
	}{
		{"fixed", Fixed(240), 1000, 240},
		{"fraction", Fractional(0.5, 0), 800, 400},
		{"fraction with offset", Fractional(0.25, 200), 1000, 200},
		{"negative clamps to zero", Fractional(0.5, 200), 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.RealizePixels(tt.w); got != tt.want {
				t.Errorf("RealizePixels(%d) = %d, want %d", tt.w, got, tt.want)
			}
		})
	}

	if !Fractional(0.5, 0).ApproxEqual(Fractional(0.50005, 0)) {
		t.Error("fractions within tolerance are not ApproxEqual")
	}
	if Fractional(0.5, 0).ApproxEqual(Fractional(0.501, 0)) {
		t.Error("fractions beyond tolerance are ApproxEqual")
	}
	if Fixed(10).ApproxEqual(Fractional(0.5, 0)) {
		t.Error("fixed and fractional assignments are ApproxEqual")
	}
}
