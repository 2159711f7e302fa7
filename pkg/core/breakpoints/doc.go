// Package breakpoints provides a sparse step function over integer pixel
// widths.
//
// # Overview
//
// Most derived layout properties (which arrangement a container uses, how
// wide each child is, how tall the container gets) change at only a handful
// of viewport widths. [Breakpoints] stores such a property as an ordered list
// of (threshold, value) pairs: a value holds from its threshold up to, but
// not including, the next threshold.
//
// # Construction
//
// Breakpoints are never built by hand. [FromSamples] evaluates a function at
// every point of a pixel domain (0..1920 by default) and records a new
// breakpoint only when the value differs from the last recorded one under a
// caller-supplied equality. [Sample] does the same with a bounded pool of
// goroutines and produces identical output:
//
//	heights, err := breakpoints.Sample(breakpoints.Sampler{Workers: 8},
//	    breakpoints.Domain(1920), graph.HeightAt, breakpoints.Exact[int])
//
// The result is immutable. [Breakpoints.Slice] and [Map] return new values.
//
// # Lookup
//
// [Breakpoints.At] finds the value at the greatest threshold not above x.
// Asking for a width below the first threshold is a DOMAIN_ERROR.
package breakpoints
