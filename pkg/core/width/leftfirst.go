package width

import (
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/core/ranges"
)

// LeftFirst gives spare width to the leftmost children first.
type LeftFirst struct{}

// Allocate implements [layout.Allocator].
func (LeftFirst) Allocate(g *layout.Graph, available int) (layout.Assignments, error) {
	minWidth, err := g.MinWidth()
	if err != nil {
		return nil, err
	}
	spare := max(0, available-minWidth)

	out := make(layout.Assignments, g.Len())
	// claimed[n] is the spare width used by n and the heaviest chain left of it
	claimed := make([]int, g.Len())
	for _, id := range g.RightOrder() {
		before := 0
		for _, p := range g.Right().Parents(id) {
			before = max(before, claimed[p])
		}
		r := g.Child(id).WidthRange()
		px, err := ranges.Floor(r, r.Lo()+max(0, spare-before))
		if err != nil {
			return nil, err
		}
		out[id] = layout.Fixed(px)
		claimed[id] = before + px - r.Lo()
	}
	return out, nil
}
