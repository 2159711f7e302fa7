package arrange

import "github.com/matzehuels/erwd/pkg/core/layout"

// LeftJustified fills rows greedily from the left, starting a new row when
// the next child's minimum width no longer fits.
type LeftJustified struct{}

// Arrange implements [Arranger].
func (LeftJustified) Arrange(in Input, available int) (*layout.Graph, error) {
	return fallback(in, greedyRows(in.Children, available))
}

func greedyRows(children []layout.Child, available int) [][]int {
	var out [][]int
	var row []int
	used := 0
	for id, c := range children {
		lo := 0
		if w := c.WidthRange(); !w.IsEmpty() {
			lo = w.Lo()
		}
		if len(row) > 0 && used+lo > available {
			out = append(out, row)
			row, used = nil, 0
		}
		row = append(row, id)
		used += lo
	}
	if len(row) > 0 {
		out = append(out, row)
	}
	return out
}

// Row places every child side by side regardless of width.
type Row struct{}

// Arrange implements [Arranger].
func (Row) Arrange(in Input, _ int) (*layout.Graph, error) {
	all := make([]int, len(in.Children))
	for i := range all {
		all[i] = i
	}
	return rows(in, [][]int{all}).Build()
}
