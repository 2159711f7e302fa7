// Package layout models how one container arranges its children.
//
// # Overview
//
// A [Graph] holds two orderings over a container's children, identified by
// their local ids (their index in the container):
//
//   - right: an edge a→b means b sits to the right of a
//   - below: an edge a→b means b sits below a
//
// From these orderings and the children's own width ranges the graph
// derives the container's possible widths ([Graph.WidthRange]), the width
// given to each child at a concrete container width
// ([Graph.AssignmentsAt]), the container's height ([Graph.HeightAt]) and
// the grid cells each child occupies ([Graph.Cells]).
//
// # Construction
//
// Graphs are built once through a [Builder] and never change afterwards.
// Authored hints are added first, generated edges after; [Builder.Build]
// rejects a cycle in either ordering with CYCLIC_CONSTRAINT. Derived values
// are computed at most once per graph and are safe to read from many
// goroutines.
//
//	b := layout.NewBuilder(children, layout.Options{Allocator: width.LeftFirst{}})
//	b.Right(0, 1)
//	g, err := b.Build()
//
// # Width allocation
//
// How a container's width is divided among its children is pluggable
// through the [Allocator] interface. An allocator returns one [Assignment]
// per child: either a fixed pixel width or a fraction of the container width
// left after a fixed pixel offset.
//
// # Responsive bundles
//
// Once a container's layouts have been sampled across all viewport widths
// it is described by a [Responsive] value, which is what the parent
// container sees in place of a leaf's fixed width range and height.
package layout
