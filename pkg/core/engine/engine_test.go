package engine

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/arrange"
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/errors"
)

func leaf(t *testing.T, name string, w ranges.Range, height int) *widget.Widget {
	t.Helper()
	l, err := widget.NewLeaf(name, w, widget.ConstantHeight(height))
	if err != nil {
		t.Fatalf("NewLeaf(%q) error: %v", name, err)
	}
	return l
}

func container(t *testing.T, name string, kids []*widget.Widget, opts ...widget.Option) *widget.Widget {
	t.Helper()
	c, err := widget.NewContainer(name, kids, opts...)
	if err != nil {
		t.Fatalf("NewContainer(%q) error: %v", name, err)
	}
	return c
}

func leftJustified() *Engine {
	return &Engine{
		Arranger: arrange.LeftJustified{},
		Options:  layout.Options{Allocator: width.LeftFirst{}, MaxWidth: 600},
	}
}

func TestTwoLeavesShareARow(t *testing.T) {
	page := container(t, "page", []*widget.Widget{
		leaf(t, "logo", ranges.Point(100), 40),
		leaf(t, "menu", ranges.Point(150), 60),
	})

	if err := leftJustified().Layout(context.Background(), page); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	resp, ok := page.Responsive()
	if !ok {
		t.Fatal("page was not finalized")
	}

	g, err := resp.LayoutAt(500)
	if err != nil {
		t.Fatalf("LayoutAt(500) error: %v", err)
	}
	cells, err := g.Cells(500)
	if err != nil {
		t.Fatalf("Cells(500) error: %v", err)
	}
	want := []grid.Placement{
		{Column: grid.Cell{Index: 0, Span: 1}, Row: grid.Cell{Index: 0, Span: 1}},
		{Column: grid.Cell{Index: 1, Span: 1}, Row: grid.Cell{Index: 0, Span: 1}},
	}
	if !slices.Equal(cells, want) {
		t.Errorf("Cells(500) = %v, want %v", cells, want)
	}
	if h, err := page.HeightAt(500); err != nil || h != 60 {
		t.Errorf("HeightAt(500) = %d, %v, want 60", h, err)
	}
}

func TestResponsiveBreakpoints(t *testing.T) {
	page := container(t, "page", []*widget.Widget{
		leaf(t, "logo", ranges.Point(100), 40),
		leaf(t, "menu", ranges.Point(150), 60),
	})
	if err := leftJustified().Layout(context.Background(), page); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	resp, _ := page.Responsive()

	if got := resp.Layouts.Thresholds(); !slices.Equal(got, []int{0, 250}) {
		t.Errorf("layout thresholds = %v, want [0 250]", got)
	}
	if got := resp.Width.String(); got != "[[150,150],[250,250]]" {
		t.Errorf("Width = %s, want [[150,150],[250,250]]", got)
	}
	stacked, _ := resp.Layouts.At(0)
	if got := stacked.MaxWidth(); got != 249 {
		t.Errorf("stacked layout MaxWidth() = %d, want 249", got)
	}

	tests := []struct {
		width, height int
	}{
		{150, 100},
		{200, 100},
		{250, 60},
		{5000, 60},
	}
	for _, tt := range tests {
		if h, err := page.HeightAt(tt.width); err != nil || h != tt.height {
			t.Errorf("HeightAt(%d) = %d, %v, want %d", tt.width, h, err, tt.height)
		}
	}
}

func TestNestedContainers(t *testing.T) {
	header := container(t, "header", []*widget.Widget{
		leaf(t, "logo", ranges.Point(100), 40),
		leaf(t, "menu", ranges.Span(100, 300), 30),
	})
	body := leaf(t, "body", ranges.Span(200, 800), 500)
	page := container(t, "page", []*widget.Widget{header, body})

	e := &Engine{Options: layout.Options{Allocator: width.FlexDAG{}, MaxWidth: 900, Sampler: breakpoints.Sampler{Workers: 4}}}
	if err := e.Layout(context.Background(), page); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if !header.IsFinalized() || !page.IsFinalized() {
		t.Fatal("every container should be finalized")
	}
	if got := header.WidthRange().Lo(); got != 100 {
		t.Errorf("header minimum width = %d, want 100 (stacked)", got)
	}
	if h, err := page.HeightAt(900); err != nil || h <= 0 {
		t.Errorf("HeightAt(900) = %d, %v, want a positive height", h, err)
	}
}

func TestSharedWidgetFinalizedOnce(t *testing.T) {
	footer := container(t, "footer", []*widget.Widget{leaf(t, "copyright", ranges.Point(100), 20)})
	home := container(t, "home", []*widget.Widget{footer})
	about := container(t, "about", []*widget.Widget{footer})

	e := leftJustified()
	for _, page := range []*widget.Widget{home, about} {
		if err := e.Layout(context.Background(), page); err != nil {
			t.Fatalf("Layout(%s) error: %v", page.Name(), err)
		}
	}
}

func TestFinalizeRequiresFinalizedChildren(t *testing.T) {
	inner := container(t, "inner", []*widget.Widget{leaf(t, "a", ranges.Point(10), 1)})
	outer := container(t, "outer", []*widget.Widget{inner})

	_, err := leftJustified().Finalize(context.Background(), outer)
	if !errors.Is(err, errors.ErrCodeMissingChildState) {
		t.Errorf("Finalize() error = %v, want MISSING_CHILD_STATE", err)
	}
}

func TestAuthoredHintCycle(t *testing.T) {
	a := leaf(t, "a", ranges.Point(10), 1)
	b := leaf(t, "b", ranges.Point(10), 1)
	page := container(t, "page", []*widget.Widget{a, b},
		widget.WithRight(
			widget.Hint{From: []widget.Ref{widget.NameRef("a")}, To: []widget.Ref{widget.NameRef("b")}},
			widget.Hint{From: []widget.Ref{widget.NameRef("b")}, To: []widget.Ref{widget.NameRef("a")}},
		))

	err := leftJustified().Layout(context.Background(), page)
	if !errors.Is(err, errors.ErrCodeCyclicConstraint) {
		t.Fatalf("Layout() error = %v, want CYCLIC_CONSTRAINT", err)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, `"page"`) || !strings.Contains(msg, "a, b") {
		t.Errorf("UserMessage() = %q, want widget and children named", msg)
	}
}

func TestRowWidget(t *testing.T) {
	row := container(t, "nav", []*widget.Widget{
		leaf(t, "a", ranges.Point(300), 10),
		leaf(t, "b", ranges.Point(300), 10),
	}, widget.AsRow())

	if err := leftJustified().Layout(context.Background(), row); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if got := row.WidthRange().String(); got != "600" {
		t.Errorf("WidthRange() = %s, want 600", got)
	}
}

func TestLayoutRespectsCancellation(t *testing.T) {
	page := container(t, "page", []*widget.Widget{leaf(t, "a", ranges.Point(10), 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := leftJustified().Layout(ctx, page); err == nil {
		t.Error("Layout() with cancelled context: expected error")
	}
}

func TestPostOrder(t *testing.T) {
	a := leaf(t, "a", ranges.Point(10), 1)
	inner := container(t, "inner", []*widget.Widget{a})
	root := container(t, "root", []*widget.Widget{inner, a})

	order, err := PostOrder(root)
	if err != nil {
		t.Fatalf("PostOrder() error: %v", err)
	}
	var names []string
	for _, w := range order {
		names = append(names, w.Name())
	}
	if want := []string{"a", "inner", "root"}; !slices.Equal(names, want) {
		t.Errorf("PostOrder() = %v, want %v", names, want)
	}
}
