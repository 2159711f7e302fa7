package ranges

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/erwd/pkg/errors"
)

// MarshalJSON encodes the range in the same shorthand [Range.UnmarshalJSON]
// accepts: a number for a point, [lo,hi] for one segment, and a list of
// pairs otherwise.
func (r Range) MarshalJSON() ([]byte, error) {
	switch {
	case r.IsEmpty():
		return []byte("[]"), nil
	case len(r.segs) == 1 && r.segs[0].Lo == r.segs[0].Hi:
		return json.Marshal(r.segs[0].Lo)
	case len(r.segs) == 1:
		return json.Marshal([2]int{r.segs[0].Lo, r.segs[0].Hi})
	}
	pairs := make([][2]int, len(r.segs))
	for i, s := range r.segs {
		pairs[i] = [2]int{s.Lo, s.Hi}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes 300, [100,300] or [[100,300],[480,480]].
func (r *Range) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var point int
	if err := json.Unmarshal(data, &point); err == nil {
		*r = Point(point)
		return nil
	}

	var pair [2]int
	if err := json.Unmarshal(data, &pair); err == nil && bytes.Count(data, []byte(",")) == 1 {
		parsed, err := New(Segment{Lo: pair[0], Hi: pair[1]})
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}

	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "range must be N, [lo,hi] or [[lo,hi],...], got %s", data)
	}
	segs := make([]Segment, len(pairs))
	for i, p := range pairs {
		segs[i] = Segment{Lo: p[0], Hi: p[1]}
	}
	parsed, err := New(segs...)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
