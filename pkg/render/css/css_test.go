package css

import (
	"context"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/arrange"
	"github.com/matzehuels/erwd/pkg/core/engine"
	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/render"
)

func TestBuilderString(t *testing.T) {
	b := NewBuilder()
	b.Add(".a", "display", "grid")
	b.Add(".a", "color", "red")
	b.Add(".empty", "x", "y")
	b.Media(600).Add("#a-1", "width", "50vw")
	b.Media(300).Add("#a-1", "width", "100vw")
	b.Add(".a", "display", "block")

	want := `.a {
  display: block;
  color: red;
}

.empty {
  x: y;
}

@media only screen and (min-width: 300px) {
  #a-1 {
    width: 100vw;
  }
}

@media only screen and (min-width: 600px) {
  #a-1 {
    width: 50vw;
  }
}
`
	if got := b.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestSquish(t *testing.T) {
	b := NewBuilder()
	b.Add(".logo", "min-width", "100px")
	b.Media(0).Add(".logo", "min-width", "100px")
	b.Media(0).Add("#logo-1", "width", "100px")
	b.Media(400).Add("#logo-1", "width", "100px")
	b.Media(400).Add("#logo-1", "grid-row", "1 / 2")
	b.Media(800).Add("#logo-1", "width", "200px")

	b.Squish()

	if _, ok := b.Media(0).Get(".logo", "min-width"); ok {
		t.Error("query repeating a base rule should be squished")
	}
	if _, ok := b.Media(400).Get("#logo-1", "width"); ok {
		t.Error("query repeating an earlier query should be squished")
	}
	if v, ok := b.Media(400).Get("#logo-1", "grid-row"); !ok || v != "1 / 2" {
		t.Errorf("new declaration = %q, %v, want kept", v, ok)
	}
	if v, _ := b.Media(800).Get("#logo-1", "width"); v != "200px" {
		t.Errorf("changed declaration = %q, want 200px", v)
	}
}

func TestWidthCSS(t *testing.T) {
	tests := []struct {
		name   string
		assign layout.Assignment
		parent span
		want   string
	}{
		{"fixed", layout.Fixed(120), span{a: 1}, "120px"},
		{"half the page", layout.Fractional(0.5, 0), span{a: 1}, "50vw"},
		{"after a fixed sibling", layout.Fractional(1, 100), span{a: 1}, "calc(100vw - 100px)"},
		{"nested fraction", layout.Fractional(0.5, 20), span{a: 0.5, b: -40}, "calc(25vw - 30px)"},
		{"inside a fixed parent", layout.Fractional(0.25, 0), span{b: 400}, "100px"},
		{"thirds", layout.Fractional(1.0/3, 0), span{a: 1}, "33.333vw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := widthCSS(tt.assign, tt.parent); got != tt.want {
				t.Errorf("widthCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellCSS(t *testing.T) {
	if got := cellCSS(grid.Cell{Index: 0, Span: 1}); got != "1 / 2" {
		t.Errorf("cellCSS(0,1) = %q, want 1 / 2", got)
	}
	if got := cellCSS(grid.Cell{Index: 2, Span: 3}); got != "3 / 6" {
		t.Errorf("cellCSS(2,3) = %q, want 3 / 6", got)
	}
}

func laidOutPage(t *testing.T) *render.Tree {
	t.Helper()
	logo, err := widget.NewLeaf("logo", ranges.Point(100), widget.ConstantHeight(40))
	if err != nil {
		t.Fatal(err)
	}
	menu, err := widget.NewLeaf("menu", ranges.Point(150), widget.ConstantHeight(60))
	if err != nil {
		t.Fatal(err)
	}
	page, err := widget.NewContainer("page", []*widget.Widget{logo, menu})
	if err != nil {
		t.Fatal(err)
	}
	e := &engine.Engine{
		Arranger: arrange.LeftJustified{},
		Options:  layout.Options{Allocator: width.LeftFirst{}, MaxWidth: 600},
	}
	if err := e.Layout(context.Background(), page); err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	return render.NewTree(page)
}

func TestPage(t *testing.T) {
	b, err := Page(laidOutPage(t), Options{MaxScreenWidth: 600})
	if err != nil {
		t.Fatalf("Page() error: %v", err)
	}

	if v, _ := b.Get(".erwd-children", "display"); v != "grid" {
		t.Errorf(".erwd-children display = %q, want grid", v)
	}
	if v, _ := b.Get(".menu", "max-width"); v != "150px" {
		t.Errorf(".menu max-width = %q, want 150px", v)
	}

	tests := []struct {
		media    int
		selector string
		property string
		want     string
	}{
		{0, "#logo-1", "width", "100px"},
		{0, "#menu-1", "grid-column", "1 / 2"},
		{0, "#menu-1", "grid-row", "2 / 3"},
		{250, "#menu-1", "grid-column", "2 / 3"},
		{250, "#menu-1", "grid-row", "1 / 2"},
	}
	for _, tt := range tests {
		if got, _ := b.Media(tt.media).Get(tt.selector, tt.property); got != tt.want {
			t.Errorf("@%d %s %s = %q, want %q", tt.media, tt.selector, tt.property, got, tt.want)
		}
	}
	if _, ok := b.Media(250).Get("#logo-1", "grid-row"); ok {
		t.Error("unchanged logo row at 250px should be squished")
	}
}

func TestPageRequiresLayout(t *testing.T) {
	logo, _ := widget.NewLeaf("logo", ranges.Point(100), widget.ConstantHeight(40))
	page, _ := widget.NewContainer("page", []*widget.Widget{logo})
	if _, err := Page(render.NewTree(page), Options{}); err == nil {
		t.Error("Page() on an unfinalized page: expected error")
	}
}
