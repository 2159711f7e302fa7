// Package dag provides the small directed graph used for the two ordering
// relations of a container layout.
//
// # Overview
//
// A container's children are numbered 0..n-1 (their local ids). The
// horizontal relation ("a is right of b") and the vertical relation ("a is
// below b") are each a [DAG] over those ids. Graphs are tiny (one node per
// child) but are built and folded thousands of times while sampling
// breakpoints, so the representation is a pair of sorted adjacency lists
// plus an edge set for O(1) membership tests.
//
// # Basic Usage
//
//	g := dag.New(3)
//	_ = g.AddEdge(0, 1) // child 1 sits right of child 0
//	_ = g.AddEdge(1, 2)
//	order, err := g.TopoOrder()
//
// Duplicate edges are ignored, so callers can add authored and generated
// constraints without de-duplicating them first.
//
// # Cycles
//
// Edges are accepted even if they close a cycle, because authored hints are
// validated as a whole. [DAG.TopoOrder] and [DAG.Validate] report a cycle
// with [ErrGraphHasCycle] wrapped in a [CycleError] naming the nodes
// involved. The strongly connected components come from gonum's topo
// package.
//
// # Traversal
//
// Every traversal ([DAG.TopoOrder], [DAG.Legs], [DAG.Descendants]) is
// iterative. Nothing in this package recurses.
//
// # Concurrency
//
// A DAG is not safe for concurrent mutation. Once built it is only read,
// and concurrent reads are safe.
package dag
