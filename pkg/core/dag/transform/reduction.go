// Package transform derives simplified relations from a [dag.DAG].
package transform

import "github.com/matzehuels/erwd/pkg/core/dag"

// TransitiveReduction returns a copy of d without redundant edges, and the
// number of edges dropped.
//
// An edge u→v is redundant when u reaches v through another node: with
// a→b, b→c and a→c, the edge a→c is implied and dropped. The reduction
// keeps the same reachability, so a layout drawn from it places children
// exactly where the full relation does.
//
// Reachability is computed by one DFS per node, O(V·E) time and O(V²)
// space. Containers have few children, so this is never the bottleneck.
func TransitiveReduction(d *dag.DAG) (*dag.DAG, int) {
	n := d.NodeCount()
	out := dag.New(n)
	if n == 0 {
		return out, 0
	}

	adjacency := make([][]int, n)
	for id := range n {
		adjacency[id] = d.Children(id)
	}
	reachable := reachability(adjacency)

	removed := 0
	for _, e := range d.Edges() {
		if redundant(adjacency, reachable, e) {
			removed++
			continue
		}
		// Endpoints come from d, which has the same node count.
		_ = out.AddEdge(e.From, e.To)
	}
	return out, removed
}

func redundant(adjacency [][]int, reachable [][]bool, e dag.Edge) bool {
	for _, via := range adjacency[e.From] {
		if via != e.To && reachable[via][e.To] {
			return true
		}
	}
	return false
}

func reachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var visit func(source, current int)
	visit = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			visit(source, next)
		}
	}

	for i := range reachable {
		visit(i, i)
	}
	return reachable
}
