package layout

import (
	"github.com/matzehuels/erwd/pkg/core/breakpoints"
	"github.com/matzehuels/erwd/pkg/core/ranges"
)

// Responsive describes a finalized container across all viewport widths.
type Responsive struct {
	// Width is every width the container accepts under some layout.
	Width ranges.Range
	// Layouts holds the layout used from each threshold on. Every graph is
	// clipped to the last width before the next threshold.
	Layouts breakpoints.Breakpoints[*Graph]
	// Heights holds the container height over Width.
	Heights breakpoints.Breakpoints[int]
}

// LayoutAt returns the layout used at container width w.
func (r *Responsive) LayoutAt(w int) (*Graph, error) {
	return r.Layouts.At(w)
}

// HeightAt returns the container height at width w. Widths below the
// container's minimum read the height at the minimum, matching the overflow
// behaviour of the allocators.
func (r *Responsive) HeightAt(w int) (int, error) {
	clamped, err := ranges.Floor(r.Width, w)
	if err != nil {
		return 0, err
	}
	return r.Heights.At(clamped)
}
