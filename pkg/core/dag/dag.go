package dag

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrUnknownNode is returned by [DAG.AddEdge] when an endpoint is not a
	// local id of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrGraphHasCycle is returned (wrapped in a [CycleError]) when the graph
	// contains a directed cycle.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed edge between two local ids.
type Edge struct {
	From int
	To   int
}

// DAG is a directed graph over the local ids 0..n-1.
//
// The zero value is an empty graph with no nodes; use New to size it.
type DAG struct {
	outgoing [][]int
	incoming [][]int
	edges    map[Edge]struct{}
}

// New creates a graph with n nodes and no edges.
func New(n int) *DAG {
	return &DAG{
		outgoing: make([][]int, n),
		incoming: make([][]int, n),
		edges:    make(map[Edge]struct{}),
	}
}

// NodeCount returns the number of nodes.
func (d *DAG) NodeCount() int { return len(d.outgoing) }

// EdgeCount returns the number of distinct edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// AddEdge adds the edge from→to. Adding an existing edge is a no-op.
// Returns ErrUnknownNode if either endpoint is out of range.
func (d *DAG) AddEdge(from, to int) error {
	n := d.NodeCount()
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: edge %d -> %d in graph of %d nodes", ErrUnknownNode, from, to, n)
	}
	e := Edge{From: from, To: to}
	if _, ok := d.edges[e]; ok {
		return nil
	}
	d.edges[e] = struct{}{}
	d.outgoing[from] = insertSorted(d.outgoing[from], to)
	d.incoming[to] = insertSorted(d.incoming[to], from)
	return nil
}

func insertSorted(s []int, v int) []int {
	i, _ := slices.BinarySearch(s, v)
	return slices.Insert(s, i, v)
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to int) bool {
	_, ok := d.edges[Edge{From: from, To: to}]
	return ok
}

// Children returns the successors of id in ascending order. The returned
// slice is a read-only view.
func (d *DAG) Children(id int) []int { return d.outgoing[id] }

// Parents returns the predecessors of id in ascending order. The returned
// slice is a read-only view.
func (d *DAG) Parents(id int) []int { return d.incoming[id] }

// OutDegree returns the number of outgoing edges of id.
func (d *DAG) OutDegree(id int) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges of id.
func (d *DAG) InDegree(id int) int { return len(d.incoming[id]) }

// Edges returns all edges sorted by (From, To).
func (d *DAG) Edges() []Edge {
	out := make([]Edge, 0, len(d.edges))
	for e := range d.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
	return out
}

// Sources returns nodes without incoming edges in ascending order.
func (d *DAG) Sources() []int {
	var sources []int
	for id := range d.incoming {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Sinks returns nodes without outgoing edges in ascending order.
func (d *DAG) Sinks() []int {
	var sinks []int
	for id := range d.outgoing {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Equal reports whether both graphs have the same node count and edge set.
func (d *DAG) Equal(o *DAG) bool {
	if d.NodeCount() != o.NodeCount() || len(d.edges) != len(o.edges) {
		return false
	}
	for e := range d.edges {
		if _, ok := o.edges[e]; !ok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the graph.
func (d *DAG) Clone() *DAG {
	c := New(d.NodeCount())
	for e := range d.edges {
		_ = c.AddEdge(e.From, e.To)
	}
	return c
}

// String renders the edge list as "0->1 1->2".
func (d *DAG) String() string {
	var b strings.Builder
	for i, e := range d.Edges() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(e.From))
		b.WriteString("->")
		b.WriteString(strconv.Itoa(e.To))
	}
	return b.String()
}

// TopoOrder returns the nodes in topological order using Kahn's algorithm.
// Ties are broken by ascending id, so equal graphs produce equal orders.
// A cyclic graph yields a *CycleError.
func (d *DAG) TopoOrder() ([]int, error) {
	n := d.NodeCount()
	inDegree := make([]int, n)
	queue := make([]int, 0, n)
	for id := range n {
		inDegree[id] = len(d.incoming[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, child := range d.outgoing[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != n {
		return nil, d.cycleError()
	}
	return order, nil
}

// Validate returns nil if the graph is acyclic and a *CycleError otherwise.
func (d *DAG) Validate() error {
	_, err := d.TopoOrder()
	return err
}

// Descendants returns every node reachable from id (excluding id itself
// unless it lies on a cycle) in ascending order.
func (d *DAG) Descendants(id int) []int {
	seen := make([]bool, d.NodeCount())
	stack := slices.Clone(d.outgoing[id])
	var out []int
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[curr] {
			continue
		}
		seen[curr] = true
		out = append(out, curr)
		stack = append(stack, d.outgoing[curr]...)
	}
	slices.Sort(out)
	return out
}

// Legs returns every maximal source-to-sink path. An isolated node is a leg
// of length one. Paths are listed in lexicographic order of their ids.
// The graph must be acyclic.
func (d *DAG) Legs() [][]int {
	var legs [][]int
	sources := d.Sources()
	stack := make([][]int, 0, len(sources))
	for i := len(sources) - 1; i >= 0; i-- {
		stack = append(stack, []int{sources[i]})
	}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := d.outgoing[path[len(path)-1]]
		if len(children) == 0 {
			legs = append(legs, path)
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			next := make([]int, len(path)+1)
			copy(next, path)
			next[len(path)] = children[i]
			stack = append(stack, next)
		}
	}
	return legs
}
