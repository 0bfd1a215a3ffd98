package timeline

import (
	"fmt"
	"sort"
)

// Span is one clip's range on the virtual timeline.
type Span struct {
	Clip  SourceClip
	Start float64 // inclusive
	End   float64 // exclusive
}

// Contains reports whether the virtual instant lies within the span.
func (s Span) Contains(at float64) bool {
	return at >= s.Start && at < s.End
}

// Location is the result of mapping a virtual instant to a source clip.
type Location struct {
	Span   Span
	Offset float64 // seconds from the start of the clip
}

// Index maps virtual-timeline instants back to source clips via a
// cumulative-duration prefix structure. Spans are contiguous and
// non-overlapping; the first starts at 0 and the last ends at Total().
type Index struct {
	spans []Span
	total float64
}

// NewIndex builds the cumulative index over the catalog.
func NewIndex(c *Catalog) *Index {
	clips := c.Clips()
	spans := make([]Span, len(clips))
	var cum float64
	for i, clip := range clips {
		spans[i] = Span{Clip: clip, Start: cum, End: cum + clip.Duration}
		cum += clip.Duration
	}
	return &Index{spans: spans, total: cum}
}

// Total returns the virtual timeline duration in seconds.
func (ix *Index) Total() float64 {
	return ix.total
}

// Spans returns the per-clip virtual ranges in timeline order.
func (ix *Index) Spans() []Span {
	return ix.spans
}

// Locate maps a virtual instant in [0, Total()) to the owning clip and the
// local offset within it. Same input always yields the same span.
func (ix *Index) Locate(at float64) (Location, error) {
	if at < 0 || at >= ix.total {
		return Location{}, fmt.Errorf("%w: %.3fs not in [0, %.3fs)", ErrOutOfRange, at, ix.total)
	}

	// First span whose exclusive end lies past the instant.
	i := sort.Search(len(ix.spans), func(i int) bool {
		return ix.spans[i].End > at
	})
	if i == len(ix.spans) {
		return Location{}, fmt.Errorf("%w: %.3fs not in [0, %.3fs)", ErrOutOfRange, at, ix.total)
	}

	span := ix.spans[i]
	return Location{Span: span, Offset: at - span.Start}, nil
}
