package css

import (
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/grid"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/render"
)

// precision is the number of decimals kept in generated lengths.
const precision = 3

// Options configure page style generation.
type Options struct {
	// MaxScreenWidth is the widest viewport styled explicitly. Wider
	// viewports keep the last query. Zero means breakpoints.DefaultMaxWidth.
	MaxScreenWidth int
	// Sampler controls parallel sampling of viewport widths.
	Sampler breakpoints.Sampler
}

func (o Options) maxScreenWidth() int {
	if o.MaxScreenWidth <= 0 {
		return breakpoints.DefaultMaxWidth
	}
	return o.MaxScreenWidth
}

// Page returns the squished styles of a finalized page.
func Page(tree *render.Tree, opts Options) (*Builder, error) {
	b := Base(tree)
	if err := Responsive(b, tree, opts); err != nil {
		return nil, err
	}
	b.Squish()
	return b, nil
}

// Base adds the rules that do not depend on the viewport: every container
// is a grid and every widget is held to its width range.
func Base(tree *render.Tree) *Builder {
	b := NewBuilder()
	b.Add(".erwd-children", "display", "grid")
	b.Add(".erwd-children", "grid-auto-columns", "min-content")
	tree.Walk(func(n *render.Node) {
		if n == tree.Root {
			return
		}
		sel := "." + n.Widget.Name()
		w := n.Widget.WidthRange()
		if w.IsEmpty() {
			return
		}
		b.Add(sel, "min-width", px(float64(w.Lo())))
		if w.Hi() != ranges.PosInf {
			b.Add(sel, "max-width", px(float64(w.Hi())))
		}
	})
	return b
}

// span is a container width as a function of the viewport width v:
// a·v + b pixels.
type span struct{ a, b float64 }

func (s span) at(v int) int {
	return max(0, int(math.Floor(s.a*float64(v)+s.b)))
}

// child returns the span of a child given its assignment.
func (s span) child(a layout.Assignment) span {
	if a.IsFixed() {
		return span{b: float64(a.Pixels)}
	}
	return span{a: a.Fraction * s.a, b: a.Fraction * (s.b - float64(a.Offset))}
}

// state is everything a container's styles depend on at one width.
type state struct {
	layout *layout.Graph
	assign layout.Assignments
	cells  []grid.Placement
}

func (s state) equal(o state) bool {
	return s.layout == o.layout && s.assign.ApproxEqual(o.assign) && slices.Equal(s.cells, o.cells)
}

type work struct {
	node     *render.Node
	width    span
	from, to int
}

// Responsive adds one media query per viewport range on which some
// container's layout, assignments and cells are constant.
func Responsive(b *Builder, tree *render.Tree, opts Options) error {
	limit := opts.maxScreenWidth() + 1
	queue := []work{{node: tree.Root, width: span{a: 1}, from: 0, to: limit}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.node.Widget.IsLeaf() {
			continue
		}
		resp, ok := item.node.Widget.Responsive()
		if !ok {
			return errors.New(errors.ErrCodeMissingChildState, "widget %q has not been laid out", item.node.Widget.Name())
		}

		domain := ranges.Span(item.from, min(item.to, limit)-1)
		if item.width.a == 0 {
			domain = ranges.Point(item.from)
		}
		states, err := breakpoints.Sample(opts.Sampler, domain, func(v int) (state, error) {
			return stateAt(resp, item.width.at(v))
		}, state.equal)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "styles of %q", item.node.Widget.Name())
		}

		for iv, st := range states.All() {
			to := min(iv.To, item.to)
			mq := b.Media(iv.From)
			for i, c := range item.node.Children {
				sel := "#" + c.ID
				mq.Add(sel, "width", widthCSS(st.assign[i], item.width))
				mq.Add(sel, "grid-column", cellCSS(st.cells[i].Column))
				mq.Add(sel, "grid-row", cellCSS(st.cells[i].Row))
				queue = append(queue, work{node: c, width: item.width.child(st.assign[i]), from: iv.From, to: to})
			}
		}
	}
	return nil
}

func stateAt(resp *layout.Responsive, w int) (state, error) {
	g, err := resp.LayoutAt(w)
	if err != nil {
		return state{}, err
	}
	a, err := g.AssignmentsAt(w)
	if err != nil {
		return state{}, err
	}
	cells, err := g.Cells(w)
	if err != nil {
		return state{}, err
	}
	return state{layout: g, assign: a, cells: cells}, nil
}

// widthCSS renders a child width relative to the viewport.
func widthCSS(a layout.Assignment, parent span) string {
	if a.IsFixed() {
		return px(float64(a.Pixels))
	}
	s := parent.child(a)
	if s.a == 0 {
		return px(s.b)
	}
	vw := num(s.a*100) + "vw"
	switch off := round(s.b); {
	case off == 0:
		return vw
	case off < 0:
		return "calc(" + vw + " - " + px(-off) + ")"
	default:
		return "calc(" + vw + " + " + px(off) + ")"
	}
}

// cellCSS renders a zero-based cell as one-based grid lines.
func cellCSS(c grid.Cell) string {
	return strconv.Itoa(c.Index+1) + " / " + strconv.Itoa(c.End()+1)
}

func round(x float64) float64 {
	p := math.Pow10(precision)
	return math.Round(x*p) / p
}

func num(x float64) string { return strconv.FormatFloat(round(x), 'f', -1, 64) }

func px(x float64) string { return num(x) + "px" }
