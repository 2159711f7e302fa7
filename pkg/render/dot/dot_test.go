package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/errors"
)

type box struct {
	name string
	px   int
}

func (b box) Name() string              { return b.name }
func (b box) WidthRange() ranges.Range  { return ranges.Point(b.px) }
func (b box) HeightAt(int) (int, error) { return 10, nil }
func (b box) Grow() float64             { return 1 }

func TestToDOT(t *testing.T) {
	kids := []layout.Child{box{"logo", 100}, box{"menu", 150}, box{"body", 300}}
	g, err := layout.NewBuilder(kids, layout.Options{Allocator: width.LeftFirst{}}).
		Right(0, 1).Below(0, 2).Below(1, 2).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot, err := ToDOT(g, Options{Width: 400})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	for _, want := range []string{
		"digraph G {",
		`n0 [label="logo\n100\n100px"];`,
		"n0 -> n1 [constraint=false];",
		"{ rank=same; n0; n1; }",
		"n1 -> n2 [style=dashed];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in\n%s", want, dot)
		}
	}

	if plain, _ := ToDOT(g, Options{}); !strings.Contains(plain, `n2 [label="body"];`) {
		t.Errorf("ToDOT() without width should label by name only:\n%s", plain)
	}
}

func TestToDOTOmitsImpliedEdges(t *testing.T) {
	kids := []layout.Child{box{"a", 100}, box{"b", 100}, box{"c", 100}}
	g, err := layout.NewBuilder(kids, layout.Options{Allocator: width.LeftFirst{}}).
		Below(0, 1).Below(1, 2).Below(0, 2).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	dot, err := ToDOT(g, Options{})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	if strings.Contains(dot, "n0 -> n2") {
		t.Errorf("ToDOT() kept implied edge n0 -> n2:\n%s", dot)
	}
	for _, want := range []string{"n0 -> n1 [style=dashed];", "n1 -> n2 [style=dashed];"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in\n%s", want, dot)
		}
	}
}

// stuck never settles on a width assignment.
type stuck struct{}

func (stuck) Allocate(*layout.Graph, int) (layout.Assignments, error) {
	return nil, errors.New(errors.ErrCodeNonConvergence, "no fixed point")
}

func TestToDOTReportsAllocatorErrors(t *testing.T) {
	kids := []layout.Child{box{"logo", 100}, box{"menu", 150}}
	g, err := layout.NewBuilder(kids, layout.Options{Allocator: stuck{}}).Right(0, 1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := ToDOT(g, Options{Width: 400}); !errors.Is(err, errors.ErrCodeNonConvergence) {
		t.Errorf("ToDOT() error = %v, want NON_CONVERGENCE", err)
	}
	if _, err := ToDOT(g, Options{}); err != nil {
		t.Errorf("ToDOT() without width error = %v, want nil", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestTitle(t *testing.T) {
	g, err := layout.NewBuilder([]layout.Child{box{"a", 1}}, layout.Options{Allocator: width.LeftFirst{}}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := Title("page", g, 320); got != "page at 320px: 1 children, 0 edges" {
		t.Errorf("Title() = %q", got)
	}
}
