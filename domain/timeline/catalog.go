package timeline

import (
	"fmt"
	"sort"
)

// Catalog holds source clips sorted by capture time, ties broken by path.
// Wall-clock overlap between clips is tolerated: the virtual timeline is
// derived from durations summed in sort order, never from wall-clock math.
type Catalog struct {
	clips []SourceClip
}

// NewCatalog validates and sorts the given clips into a catalog.
func NewCatalog(clips []SourceClip) (*Catalog, error) {
	if len(clips) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(clips))
	for _, c := range clips {
		if c.Duration <= 0 {
			return nil, fmt.Errorf("%w: %s: non-positive duration %.3fs", ErrInvalidSource, c.Path, c.Duration)
		}
		if c.CapturedAt.IsZero() {
			return nil, fmt.Errorf("%w: %s: missing capture timestamp", ErrInvalidSource, c.Path)
		}
		if seen[c.Path] {
			return nil, fmt.Errorf("%w: duplicate path %s", ErrInvalidSource, c.Path)
		}
		seen[c.Path] = true
	}

	sorted := make([]SourceClip, len(clips))
	copy(sorted, clips)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CapturedAt.Equal(sorted[j].CapturedAt) {
			return sorted[i].CapturedAt.Before(sorted[j].CapturedAt)
		}
		return sorted[i].Path < sorted[j].Path
	})

	return &Catalog{clips: sorted}, nil
}

// Clips returns the clips in catalog order.
func (c *Catalog) Clips() []SourceClip {
	return c.clips
}

// Len returns the number of clips.
func (c *Catalog) Len() int {
	return len(c.clips)
}

// TotalDuration returns the summed duration of all clips in seconds.
func (c *Catalog) TotalDuration() float64 {
	var total float64
	for _, clip := range c.clips {
		total += clip.Duration
	}
	return total
}
