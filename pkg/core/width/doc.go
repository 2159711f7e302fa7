// Package width provides the two strategies for dividing a container's
// width among its children.
//
// # Left-first
//
// [LeftFirst] walks the horizontal ordering from left to right. Every child
// starts at its minimum width and then claims as much of the container's
// spare width as is still unclaimed by the children to its left. Results
// are always fixed pixel widths, which makes it a predictable baseline.
//
// # Flex-DAG
//
// [FlexDAG] distributes spare width in proportion to each child's grow
// weight, like CSS flexbox, but over a DAG of siblings instead of a single
// row. Every maximal left-to-right path (a leg) must fit the container, so
// a child on several legs takes the smallest share any of them offers.
// Children whose share would fall outside their width range are frozen at
// the nearest permitted width and the rest of their legs share what is
// left. The fixed point is found by iteration; failing to converge is a
// NON_CONVERGENCE error.
//
// # Selection
//
// Allocators are chosen by name from configuration with [ByName].
package width
