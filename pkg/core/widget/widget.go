// Package widget defines the widget tree the layout engine works on.
//
// A leaf widget has a fixed width range and a height function, usually
// read from the size comment of its markup file. A container widget has
// ordered children and optional ordering hints; its width range and height
// only exist once the engine has finalized it with a [layout.Responsive]
// bundle. Children are always finalized before their parents.
package widget

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
)

// HeightFunc maps a width in pixels to a height in pixels.
type HeightFunc func(width int) (int, error)

// ConstantHeight returns a HeightFunc that ignores the width.
func ConstantHeight(h int) HeightFunc {
	return func(int) (int, error) { return h, nil }
}

// Ref names a child either by position or by name. A Ref with an empty
// Name refers to the child at Index.
type Ref struct {
	Index int
	Name  string
}

// NameRef refers to the child called name.
func NameRef(name string) Ref { return Ref{Name: name} }

// IndexRef refers to the child at position i.
func IndexRef(i int) Ref { return Ref{Index: i} }

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return "#" + strconv.Itoa(r.Index)
}

// Hint orders two groups of children: every child in From comes before
// (left of, or above) every child in To.
type Hint struct {
	From []Ref
	To   []Ref
}

// Widget is a node of the widget tree.
type Widget struct {
	name     string
	width    ranges.Range
	height   HeightFunc
	grow     float64
	row      bool
	markup   string
	children []*Widget
	right    []Hint
	below    []Hint

	mu         sync.RWMutex
	responsive *layout.Responsive
}

// Option configures a widget.
type Option func(*Widget)

// WithGrow sets the grow weight used by flex allocation. Non-positive
// weights are ignored.
func WithGrow(g float64) Option {
	return func(w *Widget) {
		if g > 0 {
			w.grow = g
		}
	}
}

// WithMarkup attaches the widget's inner HTML.
func WithMarkup(html string) Option {
	return func(w *Widget) { w.markup = html }
}

// WithRight adds horizontal ordering hints.
func WithRight(h ...Hint) Option {
	return func(w *Widget) { w.right = append(w.right, h...) }
}

// WithBelow adds vertical ordering hints.
func WithBelow(h ...Hint) Option {
	return func(w *Widget) { w.below = append(w.below, h...) }
}

// AsRow lays all children out side by side in one row.
func AsRow() Option {
	return func(w *Widget) { w.row = true }
}

// NewLeaf creates a leaf widget.
func NewLeaf(name string, width ranges.Range, height HeightFunc, opts ...Option) (*Widget, error) {
	if err := errors.ValidateWidgetName(name); err != nil {
		return nil, err
	}
	if width.IsEmpty() {
		return nil, errors.New(errors.ErrCodeInvalidRange, "widget %q has an empty width range", name)
	}
	if width.Lo() < 0 {
		return nil, errors.New(errors.ErrCodeInvalidRange, "widget %q has a negative width %v", name, width)
	}
	if height == nil {
		return nil, errors.New(errors.ErrCodeInvalidWidget, "widget %q has no height", name)
	}
	w := &Widget{name: name, width: width, height: height, grow: 1}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// NewContainer creates a container widget over children.
func NewContainer(name string, children []*Widget, opts ...Option) (*Widget, error) {
	if err := errors.ValidateWidgetName(name); err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidWidget, "container %q has no children", name)
	}
	w := &Widget{name: name, children: children, grow: 1}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name implements [layout.Child].
func (w *Widget) Name() string { return w.name }

// Grow implements [layout.Child].
func (w *Widget) Grow() float64 { return w.grow }

// IsLeaf reports whether the widget has no children.
func (w *Widget) IsLeaf() bool { return len(w.children) == 0 }

// IsRow reports whether the widget always lays its children out in one row.
func (w *Widget) IsRow() bool { return w.row }

// Markup returns the inner HTML of a leaf.
func (w *Widget) Markup() string { return w.markup }

// Children returns the ordered children. It must not be modified.
func (w *Widget) Children() []*Widget { return w.children }

// LayoutChildren returns the children as [layout.Child] values.
func (w *Widget) LayoutChildren() []layout.Child {
	out := make([]layout.Child, len(w.children))
	for i, c := range w.children {
		out[i] = c
	}
	return out
}

// WidthRange implements [layout.Child]. A container that has not been
// finalized has an empty range.
func (w *Widget) WidthRange() ranges.Range {
	if w.IsLeaf() {
		return w.width
	}
	if r, ok := w.Responsive(); ok {
		return r.Width
	}
	return ranges.Range{}
}

// HeightAt implements [layout.Child].
func (w *Widget) HeightAt(width int) (int, error) {
	if w.IsLeaf() {
		return w.height(width)
	}
	r, ok := w.Responsive()
	if !ok {
		return 0, errors.New(errors.ErrCodeMissingChildState, "widget %q has not been laid out", w.name)
	}
	return r.HeightAt(width)
}

// Responsive returns the finalized layout bundle of a container.
func (w *Widget) Responsive() (*layout.Responsive, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.responsive, w.responsive != nil
}

// IsFinalized reports whether the widget's width and height are known.
func (w *Widget) IsFinalized() bool {
	_, ok := w.Responsive()
	return w.IsLeaf() || ok
}

// Finalize attaches the layout bundle of a container. A container is
// finalized exactly once.
func (w *Widget) Finalize(r *layout.Responsive) error {
	if w.IsLeaf() {
		return errors.New(errors.ErrCodeInternal, "leaf %q cannot be finalized", w.name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.responsive != nil {
		return errors.New(errors.ErrCodeInternal, "widget %q is already finalized", w.name)
	}
	w.responsive = r
	return nil
}

// Hints resolves the authored hints to local ids. Each hint contributes
// the Cartesian product of its groups.
func (w *Widget) Hints() (layout.Hints, error) {
	right, err := w.resolve("right", w.right)
	if err != nil {
		return layout.Hints{}, err
	}
	below, err := w.resolve("below", w.below)
	if err != nil {
		return layout.Hints{}, err
	}
	return layout.Hints{Right: right, Below: below}, nil
}

// RawHints returns the authored hints as written.
func (w *Widget) RawHints() (right, below []Hint) { return w.right, w.below }

func (w *Widget) resolve(relation string, hints []Hint) ([]layout.Edge, error) {
	var edges []layout.Edge
	for _, h := range hints {
		from, err := w.lookup(relation, h.From)
		if err != nil {
			return nil, err
		}
		to, err := w.lookup(relation, h.To)
		if err != nil {
			return nil, err
		}
		for _, f := range from {
			for _, t := range to {
				edges = append(edges, layout.Edge{From: f, To: t})
			}
		}
	}
	return edges, nil
}

func (w *Widget) lookup(relation string, refs []Ref) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		id, ok := w.find(ref)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidWidget, "%s hint of %q refers to unknown child %s", relation, w.name, ref)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (w *Widget) find(ref Ref) (int, bool) {
	if ref.Name == "" {
		return ref.Index, ref.Index >= 0 && ref.Index < len(w.children)
	}
	for i, c := range w.children {
		if c.name == ref.Name {
			return i, true
		}
	}
	return 0, false
}

// String returns the widget name.
func (w *Widget) String() string { return fmt.Sprintf("widget(%s)", w.name) }
