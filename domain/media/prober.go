package media

import (
	"context"
	"time"
)

// SourceInfo is the metadata the probe capability reports for one file.
// CapturedAt is zero when the container carries no creation timestamp;
// callers then fall back to ParseCaptureTimestamp on the filename.
type SourceInfo struct {
	Duration   float64 // seconds
	FrameRate  float64 // frames per second, 0 when unknown
	CapturedAt time.Time
}

// FrameInterval returns the duration of one frame in seconds, or the given
// fallback when the frame rate is unknown.
func (i SourceInfo) FrameInterval(fallback float64) float64 {
	if i.FrameRate <= 0 {
		return fallback
	}
	return 1 / i.FrameRate
}

// Prober defines the interface for reading media metadata
type Prober interface {
	Probe(ctx context.Context, path string) (SourceInfo, error)
	VerifyInstalled(ctx context.Context) error
}
