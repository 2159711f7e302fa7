package pipeline

import (
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/engine"
	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/errors"
	erwdio "github.com/matzehuels/erwd/pkg/io"
)

// Summary lists the breakpoints of every container, page by page.
type Summary struct {
	Pages []PageSummary `json:"pages"`
}

// PageSummary holds the containers of one page, children first.
type PageSummary struct {
	Name       string             `json:"name"`
	Containers []ContainerSummary `json:"containers"`
}

// ContainerSummary describes one finalized container.
type ContainerSummary struct {
	Name    string       `json:"name"`
	Width   string       `json:"width"`
	Layouts []LayoutStep `json:"layouts"`
	Heights []HeightStep `json:"heights"`
}

// LayoutStep is the layout used on [From, To). A missing To is unbounded.
type LayoutStep struct {
	From  int    `json:"from"`
	To    *int   `json:"to,omitempty"`
	Graph string `json:"graph"`
	Edges int    `json:"edges"`
}

// HeightStep is the container height on [From, To).
type HeightStep struct {
	From   int  `json:"from"`
	To     *int `json:"to,omitempty"`
	Height int  `json:"height"`
}

// Summarize reports the breakpoints of a computed project.
func Summarize(p *erwdio.Project) (*Summary, error) {
	s := &Summary{}
	for _, page := range p.Pages() {
		order, err := engine.PostOrder(page)
		if err != nil {
			return nil, err
		}
		ps := PageSummary{Name: page.Name()}
		for _, w := range order {
			if w.IsLeaf() {
				continue
			}
			resp, ok := w.Responsive()
			if !ok {
				return nil, errors.New(errors.ErrCodeMissingChildState, "widget %q is not laid out", w.Name())
			}
			cs := ContainerSummary{Name: w.Name(), Width: resp.Width.String()}
			for iv, g := range resp.Layouts.All() {
				cs.Layouts = append(cs.Layouts, LayoutStep{From: iv.From, To: bound(iv), Graph: g.String(), Edges: g.EdgeCount()})
			}
			for iv, h := range resp.Heights.All() {
				cs.Heights = append(cs.Heights, HeightStep{From: iv.From, To: bound(iv), Height: h})
			}
			ps.Containers = append(ps.Containers, cs)
		}
		s.Pages = append(s.Pages, ps)
	}
	return s, nil
}

func bound(iv breakpoints.Interval) *int {
	if iv.To == ranges.PosInf {
		return nil
	}
	to := iv.To
	return &to
}
