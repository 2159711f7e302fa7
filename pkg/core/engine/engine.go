// Package engine finalizes widget trees.
//
// The engine visits containers children-first. For each container it
// samples the arranger across every viewport width to find the layout
// breakpoints, clips each layout to the widths it is used for, computes
// assignment and height breakpoints, and attaches the result to the widget.
// From then on the container behaves like a leaf to its own parent.
package engine

import (
	"context"
	"time"

	"github.com/matzehuels/erwd/pkg/core/arrange"
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/core/width"
	"github.com/matzehuels/erwd/pkg/errors"
	"github.com/matzehuels/erwd/pkg/observability"
)

// Engine lays out widget trees. The zero value uses MinHeight with
// left-first allocation over the default domain.
type Engine struct {
	// Arranger picks the layout of a container at one width. Row widgets
	// always use [arrange.Row].
	Arranger arrange.Arranger
	// Options are passed to every layout graph.
	Options layout.Options
}

func (e *Engine) arranger(w *widget.Widget) arrange.Arranger {
	switch {
	case w.IsRow():
		return arrange.Row{}
	case e.Arranger == nil:
		return arrange.MinHeight{}
	default:
		return e.Arranger
	}
}

func (e *Engine) options() layout.Options {
	opts := e.Options
	if opts.Allocator == nil {
		opts.Allocator = width.LeftFirst{}
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = breakpoints.DefaultMaxWidth
	}
	return opts
}

// Layout finalizes every container reachable from root, children before
// parents. Containers that are already finalized are skipped, so widgets
// shared between pages are laid out once.
func (e *Engine) Layout(ctx context.Context, root *widget.Widget) error {
	order, err := PostOrder(root)
	if err != nil {
		return err
	}
	for _, w := range order {
		if w.IsFinalized() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.Finalize(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// PostOrder lists the widgets reachable from root with every child before
// its parents. Each widget appears once. A widget that contains itself is a
// CYCLIC_CONSTRAINT error.
func PostOrder(root *widget.Widget) ([]*widget.Widget, error) {
	const (
		unseen = iota
		open
		done
	)
	type frame struct {
		w    *widget.Widget
		next int
	}
	state := map[*widget.Widget]int{root: open}
	stack := []frame{{w: root}}
	var out []*widget.Widget
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := top.w.Children()
		if top.next == len(kids) {
			state[top.w] = done
			out = append(out, top.w)
			stack = stack[:len(stack)-1]
			continue
		}
		child := kids[top.next]
		top.next++
		switch state[child] {
		case open:
			return nil, errors.New(errors.ErrCodeCyclicConstraint, "widget %q contains itself", child.Name())
		case unseen:
			state[child] = open
			stack = append(stack, frame{w: child})
		}
	}
	return out, nil
}

// Finalize lays out one container whose children are all finalized and
// attaches the result to it.
func (e *Engine) Finalize(ctx context.Context, w *widget.Widget) (resp *layout.Responsive, err error) {
	start := time.Now()
	observability.Engine().OnContainerStart(ctx, w.Name(), len(w.Children()))
	defer func() {
		n := 0
		if resp != nil {
			n = resp.Layouts.Len()
		}
		observability.Engine().OnContainerComplete(ctx, w.Name(), n, time.Since(start), err)
	}()

	resp, err = e.respond(ctx, w)
	if err != nil {
		return nil, errors.Wrap(codeOf(err), err, "widget %q", w.Name())
	}
	if err := w.Finalize(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (e *Engine) respond(ctx context.Context, w *widget.Widget) (*layout.Responsive, error) {
	if w.IsLeaf() {
		return nil, errors.New(errors.ErrCodeInternal, "leaf widgets have no layout")
	}
	for _, c := range w.Children() {
		if !c.IsFinalized() {
			return nil, errors.New(errors.ErrCodeMissingChildState, "child %q has not been laid out", c.Name())
		}
	}

	hints, err := w.Hints()
	if err != nil {
		return nil, err
	}
	opts := e.options()
	in := arrange.Input{Children: w.LayoutChildren(), Hints: hints, Options: opts}
	if _, err := layout.NewBuilder(in.Children, opts).Hints(hints).Build(); err != nil {
		return nil, errors.Wrap(codeOf(err), err, "authored hints")
	}

	arr := e.arranger(w)
	start := time.Now()
	sampled, err := breakpoints.Sample(opts.Sampler, breakpoints.Domain(opts.MaxWidth),
		func(x int) (*layout.Graph, error) { return arr.Arrange(in, x) },
		(*layout.Graph).Equal)
	if err != nil {
		return nil, err
	}

	observability.Engine().OnSample(ctx, w.Name(), "layouts", sampled.Len(), time.Since(start))

	layouts, widthRange, err := clip(sampled)
	if err != nil {
		return nil, err
	}
	for _, g := range layouts.All() {
		if _, err := g.Assignments(); err != nil {
			return nil, err
		}
	}

	resp := &layout.Responsive{Width: widthRange, Layouts: layouts}
	domain := ranges.Clip(widthRange, 0, opts.MaxWidth)
	if domain.IsEmpty() {
		domain = ranges.Point(widthRange.Lo())
	}
	start = time.Now()
	resp.Heights, err = breakpoints.Sample(opts.Sampler, domain, func(x int) (int, error) {
		g, err := layouts.At(x)
		if err != nil {
			return 0, err
		}
		return g.HeightAt(x)
	}, breakpoints.Exact[int])
	if err != nil {
		return nil, err
	}
	observability.Engine().OnSample(ctx, w.Name(), "heights", resp.Heights.Len(), time.Since(start))
	return resp, nil
}

// clip limits every layout to the widths before the next layout takes
// over and returns the union of what remains.
func clip(sampled breakpoints.Breakpoints[*layout.Graph]) (breakpoints.Breakpoints[*layout.Graph], ranges.Range, error) {
	points := sampled.Points()
	var total ranges.Range
	for i := range points {
		if i+1 < len(points) {
			points[i].Value = points[i].Value.WithMaxWidth(points[i+1].Threshold - 1)
		}
		wr, err := points[i].Value.WidthRange()
		if err != nil {
			return breakpoints.Breakpoints[*layout.Graph]{}, ranges.Range{}, err
		}
		part := ranges.Clip(wr, points[i].Threshold, ranges.PosInf)
		switch {
		case part.IsEmpty():
		case total.IsEmpty():
			total = part
		default:
			if total, err = ranges.Union(total, part); err != nil {
				return breakpoints.Breakpoints[*layout.Graph]{}, ranges.Range{}, err
			}
		}
	}
	if total.IsEmpty() {
		return breakpoints.Breakpoints[*layout.Graph]{}, ranges.Range{}, errors.New(errors.ErrCodeInvalidRange, "no layout fits any width")
	}
	layouts, err := breakpoints.New(points...)
	return layouts, total, err
}

func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
