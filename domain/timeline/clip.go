package timeline

import "time"

// SourceClip is one recorded segment as reported by the probe stage.
// Immutable once the catalog is built.
type SourceClip struct {
	Path       string
	CapturedAt time.Time
	Duration   float64 // seconds
}

// CapturedEnd returns the wall-clock instant the recording ended.
func (c SourceClip) CapturedEnd() time.Time {
	return c.CapturedAt.Add(time.Duration(c.Duration * float64(time.Second)))
}
