package dag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CycleError reports the nodes that take part in directed cycles. Each
// entry of Components is one strongly connected component (or a single
// node with a self edge), with ids in ascending order.
type CycleError struct {
	Components [][]int
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Components))
	for i, c := range e.Components {
		ids := make([]string, len(c))
		for j, id := range c {
			ids[j] = strconv.Itoa(id)
		}
		parts[i] = "{" + strings.Join(ids, ",") + "}"
	}
	return fmt.Sprintf("%v: %s", ErrGraphHasCycle, strings.Join(parts, " "))
}

// Unwrap lets errors.Is match ErrGraphHasCycle.
func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }

// Cycles returns the components that make the graph cyclic, or nil for an
// acyclic graph.
func (d *DAG) Cycles() [][]int {
	var comps [][]int
	g := simple.NewDirectedGraph()
	for id := range d.NodeCount() {
		g.AddNode(simple.Node(id))
	}
	for e := range d.edges {
		if e.From == e.To {
			// simple graphs reject self edges
			comps = append(comps, []int{e.From})
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}

	if _, err := topo.Sort(g); err != nil {
		if unorderable, ok := err.(topo.Unorderable); ok {
			for _, c := range unorderable {
				comps = append(comps, nodeIDs(c))
			}
		}
	}

	slices.SortFunc(comps, func(a, b []int) int { return slices.Compare(a, b) })
	return comps
}

func (d *DAG) cycleError() error {
	return &CycleError{Components: d.Cycles()}
}

func nodeIDs(nodes []graph.Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = int(n.ID())
	}
	slices.Sort(ids)
	return ids
}
