package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
	"github.com/matzehuels/erwd/pkg/errors"
)

// Definition is one container entry of a widgets file.
type Definition struct {
	Children []string `json:"children"`
	Grow     float64  `json:"grow,omitempty"`
	Row      bool     `json:"row,omitempty"`
	Right    []Hint   `json:"right,omitempty"`
	Below    []Hint   `json:"below,omitempty"`
}

// Hint is a pair of child sets; see the package documentation.
type Hint [2]RefSet

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hint) UnmarshalJSON(data []byte) error {
	var sets []RefSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return err
	}
	if len(sets) != 2 || len(sets[0]) == 0 || len(sets[1]) == 0 {
		return fmt.Errorf("hint %s must be a pair of non-empty child sets", data)
	}
	*h = Hint{sets[0], sets[1]}
	return nil
}

// RefSet is a set of child references. It decodes from a single name or
// position as well as from an array of them.
type RefSet []Ref

// Ref refers to a child by name or by position.
type Ref widget.Ref

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == "" {
			return fmt.Errorf("empty child reference")
		}
		*r = Ref{Name: name}
		return nil
	}
	var index int
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("child reference %s is neither a name nor a position", data)
	}
	*r = Ref{Index: index}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name != "" {
		return json.Marshal(r.Name)
	}
	return json.Marshal(r.Index)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RefSet) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var refs []Ref
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		*s = refs
		return nil
	}
	var one Ref
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = RefSet{one}
	return nil
}

// Definitions maps container names to their definitions.
type Definitions map[string]Definition

// rawDefinition accepts nested arrays in children.
type rawDefinition struct {
	Definition
	Children []json.RawMessage `json:"children"`
}

// ReadWidgets decodes a widgets file and expands row shorthands.
func ReadWidgets(r io.Reader) (Definitions, error) {
	var raw map[string]rawDefinition
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode widgets")
	}

	defs := make(Definitions, len(raw))
	for _, name := range sortedKeys(raw) {
		if err := errors.ValidateWidgetName(name); err != nil {
			return nil, err
		}
		rd := raw[name]
		if rd.Grow < 0 {
			return nil, errors.New(errors.ErrCodeInvalidWidget, "widget %q has negative grow %v", name, rd.Grow)
		}
		def := rd.Definition
		def.Children = make([]string, len(rd.Children))
		for i, msg := range rd.Children {
			var child string
			if err := json.Unmarshal(msg, &child); err == nil {
				def.Children[i] = child
				continue
			}
			var row []string
			if err := json.Unmarshal(msg, &row); err != nil {
				return nil, errors.New(errors.ErrCodeInvalidWidget, "child %d of %q is neither a name nor a row", i, name)
			}
			rowName := fmt.Sprintf("%s-row-%d", name, i)
			if _, taken := raw[rowName]; taken {
				return nil, errors.New(errors.ErrCodeInvalidWidget, "row shorthand of %q collides with widget %q", name, rowName)
			}
			defs[rowName] = Definition{Children: row, Row: true}
			def.Children[i] = rowName
		}
		defs[name] = def
	}
	return defs, nil
}

// Leaf is a widget read from a markup file.
type Leaf struct {
	Name   string
	Width  ranges.Range
	Height int
	Markup string
}

// sizeComment is the JSON body of a size comment.
type sizeComment struct {
	Width  *ranges.Range `json:"width"`
	Height *int          `json:"height"`
}

// ReadLeaf reads a leaf file whose first line is a size comment.
func ReadLeaf(name string, r io.Reader) (Leaf, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Leaf{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read leaf %q", name)
	}
	first, rest, _ := strings.Cut(string(data), "\n")
	width, height, err := ParseSizeComment(first)
	if err != nil {
		return Leaf{}, errors.Wrap(errors.ErrCodeInvalidSizeComment, err, "leaf %q", name)
	}
	return Leaf{Name: name, Width: width, Height: height, Markup: rest}, nil
}

// ParseSizeComment parses a line of the form
// <!-- "width": <range>, "height": <px> -->.
func ParseSizeComment(line string) (ranges.Range, int, error) {
	doc, err := htmlquery.Parse(strings.NewReader(line))
	if err != nil {
		return ranges.Range{}, 0, errors.Wrap(errors.ErrCodeInvalidSizeComment, err, "parse size comment")
	}
	node := htmlquery.FindOne(doc, "//comment()")
	if node == nil || node.Type != html.CommentNode {
		return ranges.Range{}, 0, errors.New(errors.ErrCodeInvalidSizeComment, "missing size comment in %q", line)
	}

	var size sizeComment
	if err := json.Unmarshal([]byte("{"+node.Data+"}"), &size); err != nil {
		return ranges.Range{}, 0, errors.Wrap(errors.ErrCodeInvalidSizeComment, err, "malformed size comment %q", line)
	}
	switch {
	case size.Width == nil || size.Width.IsEmpty():
		return ranges.Range{}, 0, errors.New(errors.ErrCodeInvalidSizeComment, "size comment %q has no width", line)
	case size.Height == nil:
		return ranges.Range{}, 0, errors.New(errors.ErrCodeInvalidSizeComment, "size comment %q has no height", line)
	case *size.Height < 0 || size.Width.Lo() < 0:
		return ranges.Range{}, 0, errors.New(errors.ErrCodeInvalidSizeComment, "size comment %q has negative sizes", line)
	}
	return *size.Width, *size.Height, nil
}

// Assemble links definitions and leaves into widgets. Every child name must
// resolve to a leaf or a definition, and no widget may contain itself.
func Assemble(defs Definitions, leaves []Leaf) (map[string]*widget.Widget, error) {
	widgets := make(map[string]*widget.Widget, len(defs)+len(leaves))
	for _, l := range leaves {
		if _, dup := widgets[l.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidWidget, "leaf %q is defined twice", l.Name)
		}
		var opts []widget.Option
		if d, ok := defs[l.Name]; ok {
			if len(d.Children) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidWidget, "widget %q has both children and a markup file", l.Name)
			}
			opts = append(opts, widget.WithGrow(d.Grow))
		}
		w, err := widget.NewLeaf(l.Name, l.Width, widget.ConstantHeight(l.Height), append(opts, widget.WithMarkup(l.Markup))...)
		if err != nil {
			return nil, err
		}
		widgets[l.Name] = w
	}

	// Containers are built children-first with an explicit stack; a name
	// that is still open when reached again closes a cycle.
	open := map[string]bool{}
	for _, root := range sortedKeys(defs) {
		if _, done := widgets[root]; done {
			continue
		}
		stack := []string{root}
		open[root] = true
		for len(stack) > 0 {
			name := stack[len(stack)-1]
			def, ok := defs[name]
			if !ok || len(def.Children) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidWidget, "widget %q has no children and no markup file", name)
			}
			pending := ""
			for _, child := range def.Children {
				if _, done := widgets[child]; done {
					continue
				}
				if open[child] {
					return nil, errors.New(errors.ErrCodeCyclicConstraint, "widget %q contains itself through %q", child, name)
				}
				if _, ok := defs[child]; !ok {
					return nil, errors.New(errors.ErrCodeInvalidWidget, "widget %q has unknown child %q", name, child)
				}
				pending = child
				break
			}
			if pending != "" {
				open[pending] = true
				stack = append(stack, pending)
				continue
			}
			w, err := container(name, def, widgets)
			if err != nil {
				return nil, err
			}
			widgets[name] = w
			delete(open, name)
			stack = stack[:len(stack)-1]
		}
	}
	return widgets, nil
}

func container(name string, def Definition, widgets map[string]*widget.Widget) (*widget.Widget, error) {
	children := make([]*widget.Widget, len(def.Children))
	for i, c := range def.Children {
		children[i] = widgets[c]
	}
	opts := []widget.Option{
		widget.WithGrow(def.Grow),
		widget.WithRight(hints(def.Right)...),
		widget.WithBelow(hints(def.Below)...),
	}
	if def.Row {
		opts = append(opts, widget.AsRow())
	}
	return widget.NewContainer(name, children, opts...)
}

func hints(in []Hint) []widget.Hint {
	out := make([]widget.Hint, len(in))
	for i, h := range in {
		out[i] = widget.Hint{From: refs(h[0]), To: refs(h[1])}
	}
	return out
}

func refs(s RefSet) []widget.Ref {
	out := make([]widget.Ref, len(s))
	for i, r := range s {
		out[i] = widget.Ref(r)
	}
	return out
}

// Pages returns the widgets that are nobody's child, ordered by name.
func Pages(widgets map[string]*widget.Widget) []*widget.Widget {
	child := map[string]bool{}
	for _, w := range widgets {
		for _, c := range w.Children() {
			child[c.Name()] = true
		}
	}
	var pages []*widget.Widget
	for _, name := range sortedKeys(widgets) {
		if !child[name] {
			pages = append(pages, widgets[name])
		}
	}
	return pages
}

// TopoOrder lists every widget after all of its children. Ties are broken
// by name so the order is stable.
func TopoOrder(widgets map[string]*widget.Widget) []*widget.Widget {
	seen := map[*widget.Widget]bool{}
	var out []*widget.Widget
	type frame struct {
		w    *widget.Widget
		next int
	}
	for _, name := range sortedKeys(widgets) {
		root := widgets[name]
		if seen[root] {
			continue
		}
		seen[root] = true
		stack := []frame{{w: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := top.w.Children()
			if top.next == len(kids) {
				out = append(out, top.w)
				stack = stack[:len(stack)-1]
				continue
			}
			c := kids[top.next]
			top.next++
			if !seen[c] {
				seen[c] = true
				stack = append(stack, frame{w: c})
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
