package ranges

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/erwd/pkg/errors"
)

const (
	// NegInf is the lower clip limit that keeps every segment.
	NegInf = math.MinInt
	// PosInf is the upper clip limit that keeps every segment.
	PosInf = math.MaxInt
)

// Segment is a closed integer interval [Lo, Hi] with Lo <= Hi.
type Segment struct {
	Lo int
	Hi int
}

// Range is an immutable set of integers stored as sorted, disjoint,
// coalesced segments. The zero value is the empty range.
type Range struct {
	segs []Segment
}

// New builds a range from segments given in increasing order. Segments must
// not be inverted or overlap; touching segments are merged. An empty
// argument list is rejected because a range is never empty.
func New(segs ...Segment) (Range, error) {
	if len(segs) == 0 {
		return Range{}, errors.New(errors.ErrCodeInvalidRange, "range has no segments")
	}
	for i, s := range segs {
		if s.Lo > s.Hi {
			return Range{}, errors.New(errors.ErrCodeInvalidRange, "segment [%d,%d] is inverted", s.Lo, s.Hi)
		}
		if i > 0 && s.Lo <= segs[i-1].Hi {
			return Range{}, errors.New(errors.ErrCodeInvalidRange,
				"segment [%d,%d] overlaps or precedes [%d,%d]", s.Lo, s.Hi, segs[i-1].Lo, segs[i-1].Hi)
		}
	}
	return Range{segs: coalesce(slices.Clone(segs))}, nil
}

// Span returns the range [lo, hi]. If lo > hi the result is empty.
func Span(lo, hi int) Range {
	if lo > hi {
		return Range{}
	}
	return Range{segs: []Segment{{Lo: lo, Hi: hi}}}
}

// Point returns the range containing only x.
func Point(x int) Range {
	return Span(x, x)
}

// IsEmpty reports whether the range contains no integers.
func (r Range) IsEmpty() bool { return len(r.segs) == 0 }

// Lo returns the smallest member. It returns 0 for the empty range.
func (r Range) Lo() int {
	if r.IsEmpty() {
		return 0
	}
	return r.segs[0].Lo
}

// Hi returns the largest member. It returns 0 for the empty range.
func (r Range) Hi() int {
	if r.IsEmpty() {
		return 0
	}
	return r.segs[len(r.segs)-1].Hi
}

// Segments returns a copy of the range's segments.
func (r Range) Segments() []Segment { return slices.Clone(r.segs) }

// Len returns the number of integers in the range, saturating at math.MaxInt.
func (r Range) Len() int {
	n := 0
	for _, s := range r.segs {
		if s.Lo == NegInf || s.Hi == PosInf {
			return PosInf
		}
		n = satAdd(n, satAdd(s.Hi-s.Lo, 1))
	}
	return n
}

// All iterates over every member in increasing order. Ranges clipped with
// an infinite bound never stop on their own.
func (r Range) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, s := range r.segs {
			for x := s.Lo; ; x++ {
				if !yield(x) {
					return
				}
				if x == s.Hi {
					break
				}
			}
		}
	}
}

// Equal reports whether both ranges hold the same integers.
func (r Range) Equal(o Range) bool {
	return slices.Equal(r.segs, o.segs)
}

// Contains reports whether x is a member of r.
func (r Range) Contains(x int) bool {
	_, found := r.search(x)
	return found
}

// String renders the range in the widget-file shorthand: "100" for a
// point, "[100,300]" for one segment and "[[100,300],[480,480]]" otherwise.
func (r Range) String() string {
	switch {
	case r.IsEmpty():
		return "[]"
	case len(r.segs) == 1 && r.segs[0].Lo == r.segs[0].Hi:
		return bound(r.segs[0].Lo)
	case len(r.segs) == 1:
		return "[" + bound(r.segs[0].Lo) + "," + bound(r.segs[0].Hi) + "]"
	}
	parts := make([]string, len(r.segs))
	for i, s := range r.segs {
		parts[i] = "[" + bound(s.Lo) + "," + bound(s.Hi) + "]"
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func bound(x int) string {
	switch x {
	case NegInf:
		return "-inf"
	case PosInf:
		return "inf"
	}
	return strconv.Itoa(x)
}

// search returns the index of the first segment whose Hi is >= x and
// whether x falls inside it.
func (r Range) search(x int) (int, bool) {
	i, _ := slices.BinarySearchFunc(r.segs, x, func(s Segment, x int) int {
		if s.Hi < x {
			return -1
		}
		if s.Lo > x {
			return 1
		}
		return 0
	})
	return i, i < len(r.segs) && r.segs[i].Lo <= x && x <= r.segs[i].Hi
}

func validate(op string, rs ...Range) error {
	for _, r := range rs {
		if r.IsEmpty() {
			return errors.New(errors.ErrCodeInvalidRange, "%s: empty range operand", op)
		}
	}
	return nil
}

// Add returns the range of all sums a+b with a in r1 and b in r2.
func Add(r1, r2 Range) (Range, error) {
	if err := validate("add", r1, r2); err != nil {
		return Range{}, err
	}
	sums := make([]Segment, 0, len(r1.segs)*len(r2.segs))
	for _, a := range r1.segs {
		for _, b := range r2.segs {
			sums = append(sums, Segment{Lo: satAdd(a.Lo, b.Lo), Hi: satAdd(a.Hi, b.Hi)})
		}
	}
	slices.SortFunc(sums, func(a, b Segment) int { return cmp.Compare(a.Lo, b.Lo) })
	return Range{segs: coalesce(sums)}, nil
}

// Union returns the integers present in either range.
func Union(r1, r2 Range) (Range, error) {
	if err := validate("union", r1, r2); err != nil {
		return Range{}, err
	}
	return merge(r1, r2), nil
}

// Max returns the range of max(a, b) over a in r1 and b in r2: the parts of
// each range that are not below the other range's minimum.
func Max(r1, r2 Range) (Range, error) {
	if err := validate("max", r1, r2); err != nil {
		return Range{}, err
	}
	return merge(Clip(r1, r2.Lo(), PosInf), Clip(r2, r1.Lo(), PosInf)), nil
}

// Min returns the range of min(a, b) over a in r1 and b in r2.
func Min(r1, r2 Range) (Range, error) {
	if err := validate("min", r1, r2); err != nil {
		return Range{}, err
	}
	return merge(Clip(r1, NegInf, r2.Hi()), Clip(r2, NegInf, r1.Hi())), nil
}

// Clip returns the members of r within [lo, hi]. The result may be empty.
func Clip(r Range, lo, hi int) Range {
	var out []Segment
	for _, s := range r.segs {
		if s.Hi < lo || s.Lo > hi {
			continue
		}
		out = append(out, Segment{Lo: max(s.Lo, lo), Hi: min(s.Hi, hi)})
	}
	return Range{segs: out}
}

// Floor returns the largest member of r that is <= x. If x is below the
// range, the range's minimum is returned instead.
func Floor(r Range, x int) (int, error) {
	if err := validate("floor", r); err != nil {
		return 0, err
	}
	i, found := r.search(x)
	switch {
	case found:
		return x, nil
	case i == 0:
		return r.segs[0].Lo, nil
	}
	return r.segs[i-1].Hi, nil
}

// Ceil returns the smallest member of r that is >= x. If x is above the
// range, the range's maximum is returned instead.
func Ceil(r Range, x int) (int, error) {
	if err := validate("ceil", r); err != nil {
		return 0, err
	}
	i, found := r.search(x)
	switch {
	case found:
		return x, nil
	case i == len(r.segs):
		return r.Hi(), nil
	}
	return r.segs[i].Lo, nil
}

// merge unions two sorted segment lists with a simultaneous scan. Either
// operand may be empty.
func merge(r1, r2 Range) Range {
	a, b := r1.segs, r2.segs
	out := make([]Segment, 0, len(a)+len(b))
	for len(a) > 0 || len(b) > 0 {
		var next Segment
		if len(b) == 0 || (len(a) > 0 && a[0].Lo <= b[0].Lo) {
			next, a = a[0], a[1:]
		} else {
			next, b = b[0], b[1:]
		}
		out = appendCoalesced(out, next)
	}
	return Range{segs: out}
}

// coalesce merges overlapping or touching segments of a list sorted by Lo.
func coalesce(segs []Segment) []Segment {
	out := segs[:0]
	for _, s := range segs {
		out = appendCoalesced(out, s)
	}
	return out
}

func appendCoalesced(out []Segment, s Segment) []Segment {
	if n := len(out); n > 0 && (out[n-1].Hi == PosInf || s.Lo <= out[n-1].Hi+1) {
		out[n-1].Hi = max(out[n-1].Hi, s.Hi)
		return out
	}
	return append(out, s)
}

// satAdd adds two ints, saturating at the infinities.
func satAdd(a, b int) int {
	switch {
	case a == NegInf || b == NegInf:
		return NegInf
	case a == PosInf || b == PosInf:
		return PosInf
	case b > 0 && a > PosInf-b:
		return PosInf
	case b < 0 && a < NegInf-b:
		return NegInf
	}
	return a + b
}

