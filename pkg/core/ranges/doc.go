// Package ranges implements the interval algebra used to describe which
// pixel widths a widget may take.
//
// # Overview
//
// A [Range] is a set of integers stored as sorted, disjoint, closed
// segments [lo,hi]. Segments that touch are coalesced on construction, so
// every set of integers has exactly one representation and two ranges are
// equal exactly when their segment lists are equal.
//
// A leaf widget that may be 100 to 300 pixels wide, or exactly 480 pixels,
// has the range
//
//	r, _ := ranges.New(ranges.Segment{Lo: 100, Hi: 300}, ranges.Segment{Lo: 480, Hi: 480})
//
// # Operations
//
// The binary operations mirror what a layout needs to combine sibling
// widths:
//
//   - [Add]: widgets placed side by side (every a+b)
//   - [Max]: widgets stacked vertically, where the wider one decides
//   - [Min]: the dual of Max
//   - [Union]: a container whose layout changes across breakpoints
//
// [Clip], [Floor] and [Ceil] answer the questions a width allocator asks:
// which widths remain below a limit, and which permitted width is closest
// to a target.
//
// # Errors
//
// An empty range is never a valid operand. Binary operations, [Floor] and
// [Ceil] return an INVALID_RANGE error from pkg/errors when handed one.
// [Clip] is the only operation that may produce an empty range; callers
// test the result with [Range.IsEmpty].
//
// # Infinity
//
// Unbounded clip limits use [NegInf] and [PosInf]. Sums saturate at these
// values instead of overflowing.
package ranges
