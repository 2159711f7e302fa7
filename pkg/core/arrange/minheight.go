package arrange

import (
	"math/bits"

	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/errors"
)

// DefaultMaxChildren bounds the exhaustive search of MinHeight.
const DefaultMaxChildren = 8

// MinHeight tries every way of breaking the children into consecutive rows
// and keeps the layout with the smallest estimated height. Ties go to the
// layout with fewer edges. Layouts whose minimum width exceeds the
// available width are skipped unless every child is stacked.
type MinHeight struct {
	// MaxChildren is the largest container searched exhaustively. Larger
	// containers use LeftJustified. Zero means DefaultMaxChildren.
	MaxChildren int
}

func (m MinHeight) maxChildren() int {
	if m.MaxChildren <= 0 {
		return DefaultMaxChildren
	}
	return m.MaxChildren
}

// Arrange implements [Arranger].
func (m MinHeight) Arrange(in Input, available int) (*layout.Graph, error) {
	n := len(in.Children)
	if n > m.maxChildren() {
		return LeftJustified{}.Arrange(in, available)
	}
	var (
		best       *layout.Graph
		bestHeight int
		bestEdges  int
	)
	gaps := max(n-1, 0)
	for mask := range uint(1) << gaps {
		g, err := rows(in, split(n, mask)).Build()
		if errors.Has(err, errors.ErrCodeCyclicConstraint) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if bits.OnesCount(mask) != gaps {
			lo, err := g.MinWidth()
			if err != nil {
				return nil, err
			}
			if lo > available {
				continue
			}
		}
		h, err := g.EstimateHeight(available)
		if err != nil {
			return nil, err
		}
		if best == nil || h < bestHeight || (h == bestHeight && g.EdgeCount() < bestEdges) {
			best, bestHeight, bestEdges = g, h, g.EdgeCount()
		}
	}
	if best == nil {
		return LeftJustified{}.Arrange(in, available)
	}
	return best, nil
}

// split breaks 0..n-1 into rows, starting a new row after child i when bit
// i of mask is set.
func split(n int, mask uint) [][]int {
	var out [][]int
	var row []int
	for i := range n {
		row = append(row, i)
		if i < n-1 && mask&(1<<uint(i)) != 0 {
			out = append(out, row)
			row = nil
		}
	}
	return append(out, row)
}
