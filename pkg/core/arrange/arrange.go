// Package arrange chooses a layout graph for a container at one available
// width.
//
// Every strategy adds the container's authored hints to the edges it
// proposes. Candidates that contradict the hints are discarded, so an
// arranger never returns a cyclic graph.
package arrange

import (
	"github.com/matzehuels/erwd/pkg/core/layout"
	"github.com/matzehuels/erwd/pkg/errors"
)

const (
	NameLeftJustified = "left-justified"
	NameMinHeight     = "min-height"
	NameRow           = "row"
)

// Input is the container an arranger lays out.
type Input struct {
	Children []layout.Child
	Hints    layout.Hints
	Options  layout.Options
}

// Arranger produces the layout of a container at available pixels.
type Arranger interface {
	Arrange(in Input, available int) (*layout.Graph, error)
}

// Names lists the arrangement strategies selectable by name.
func Names() []string { return []string{NameLeftJustified, NameMinHeight} }

// ByName returns the arranger called name. The empty name selects
// MinHeight.
func ByName(name string) (Arranger, error) {
	switch name {
	case "", NameMinHeight:
		return MinHeight{}, nil
	case NameLeftJustified:
		return LeftJustified{}, nil
	case NameRow:
		return Row{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown arrangement %q (want %s or %s)", name, NameLeftJustified, NameMinHeight)
}

// rows lays children out in the given rows. Consecutive members of a row
// are linked by right edges and every member of a row sits below every
// member of the previous row.
func rows(in Input, breaks [][]int) *layout.Builder {
	b := layout.NewBuilder(in.Children, in.Options).Hints(in.Hints)
	var prev []int
	for _, row := range breaks {
		for i, id := range row {
			if i > 0 {
				b.Right(row[i-1], id)
			}
			for _, above := range prev {
				b.Below(above, id)
			}
		}
		prev = row
	}
	return b
}

// stacked puts every child in a row of its own.
func stacked(n int) [][]int {
	out := make([][]int, n)
	for i := range n {
		out[i] = []int{i}
	}
	return out
}

// fallback tries progressively weaker layouts until one agrees with the
// hints: the preferred rows, a vertical stack, and the hints alone.
func fallback(in Input, preferred [][]int) (*layout.Graph, error) {
	if g, err := rows(in, preferred).Build(); err == nil {
		return g, nil
	} else if !errors.Has(err, errors.ErrCodeCyclicConstraint) {
		return nil, err
	}
	if g, err := rows(in, stacked(len(in.Children))).Build(); err == nil {
		return g, nil
	} else if !errors.Has(err, errors.ErrCodeCyclicConstraint) {
		return nil, err
	}
	return layout.NewBuilder(in.Children, in.Options).Hints(in.Hints).Build()
}
