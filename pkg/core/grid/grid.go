// Package grid turns the ordering relations of a layout into CSS grid
// coordinates.
//
// Along one axis, a node's position is the longest weighted path to it from
// a source (the sum of the sizes of everything that must come before it).
// The distinct positions become the grid tracks; a node starts at the track
// of its own position and spans every track that starts before its far
// edge. Track indices are zero-based; CSS line numbers are Index+1.
//
// Placing both axes independently can put two unrelated nodes on the same
// cell. [Place] resolves that by pushing one node of the pair, together
// with everything below it, one row down until no two cells overlap. The
// pushed node is never above the other one, so below order survives.
package grid

import (
	"slices"

	"github.com/matzehuels/erwd/pkg/core/dag"
	"github.com/matzehuels/erwd/pkg/errors"
)

// Cell is a zero-based track index and the number of tracks covered.
type Cell struct {
	Index int
	Span  int
}

// End returns the first track after the cell.
func (c Cell) End() int { return c.Index + c.Span }

func (c Cell) overlaps(o Cell) bool {
	return c.Index < o.End() && o.Index < c.End()
}

// Axis is the placement of every node along one axis.
type Axis struct {
	// Positions is the pixel offset of each node from the axis origin.
	Positions []int
	// Tracks holds the sorted distinct positions.
	Tracks []int
	// Cells holds the track assignment of each node.
	Cells []Cell
}

// Assign places the nodes of rel along one axis. sizes[n] is the realized
// pixel size of node n along that axis.
func Assign(rel *dag.DAG, sizes []int) (Axis, error) {
	n := rel.NodeCount()
	if len(sizes) != n {
		return Axis{}, errors.New(errors.ErrCodeInternal, "%d sizes for %d nodes", len(sizes), n)
	}
	order, err := rel.TopoOrder()
	if err != nil {
		return Axis{}, errors.Wrap(errors.ErrCodeCyclicConstraint, err, "grid placement")
	}

	positions := make([]int, n)
	for _, id := range order {
		for _, p := range rel.Parents(id) {
			positions[id] = max(positions[id], positions[p]+sizes[p])
		}
	}

	tracks := slices.Clone(positions)
	slices.Sort(tracks)
	tracks = slices.Compact(tracks)

	cells := make([]Cell, n)
	for id, pos := range positions {
		// positions are members of tracks, so the search always hits
		index, _ := slices.BinarySearch(tracks, pos)
		end, _ := slices.BinarySearch(tracks, pos+sizes[id])
		cells[id] = Cell{Index: index, Span: max(1, end-index)}
	}

	return Axis{Positions: positions, Tracks: tracks, Cells: cells}, nil
}

// Placement is the grid area of one node.
type Placement struct {
	Column Cell
	Row    Cell
}

func (p Placement) overlaps(o Placement) bool {
	return p.Column.overlaps(o.Column) && p.Row.overlaps(o.Row)
}

// Place assigns columns along right and rows along below, then resolves
// overlapping cells.
func Place(right, below *dag.DAG, widths, heights []int) ([]Placement, error) {
	cols, err := Assign(right, widths)
	if err != nil {
		return nil, err
	}
	rows, err := Assign(below, heights)
	if err != nil {
		return nil, err
	}
	cells := make([]Placement, len(cols.Cells))
	for id := range cells {
		cells[id] = Placement{Column: cols.Cells[id], Row: rows.Cells[id]}
	}
	return Resolve(cells, below), nil
}

// Resolve moves overlapping cells apart. For every overlapping pair the
// node with the higher id, and every node below it, moves down one row,
// unless the lower id is itself below that node; then the lower id moves.
// The input slice is not modified.
func Resolve(cells []Placement, below *dag.DAG) []Placement {
	out := slices.Clone(cells)
	n := len(out)
	rows := 0
	for _, c := range out {
		rows = max(rows, c.Row.End())
	}
	for pass := 0; pass <= n*n*(rows+1); pass++ {
		a, b, found := firstOverlap(out)
		if !found {
			break
		}
		mover := b
		if slices.Contains(below.Descendants(b), a) {
			mover = a
		}
		out[mover].Row.Index++
		for _, d := range below.Descendants(mover) {
			out[d].Row.Index++
		}
	}
	return out
}

// firstOverlap finds the lexicographically first overlapping pair a < b.
func firstOverlap(cells []Placement) (int, int, bool) {
	for a := range cells {
		for b := a + 1; b < len(cells); b++ {
			if cells[a].overlaps(cells[b]) {
				return a, b, true
			}
		}
	}
	return 0, 0, false
}
