package timeline

import (
	"fmt"
	"math"
)

// Interval is one equal-length window on the virtual timeline.
type Interval struct {
	ID    int
	Start float64 // inclusive
	End   float64 // exclusive
}

// Length returns the interval length in seconds.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// floatSlack absorbs accumulated rounding in seconds arithmetic.
const floatSlack = 1e-9

// Partition divides the whole virtual timeline of length total into
// floor(requested/sampleDuration) contiguous equal-length intervals.
// The interval count is driven by the requested output duration; the
// intervals stretch over all available footage so samples are drawn from
// everywhere, not just the first requested seconds.
func Partition(total, requested, sampleDuration float64) ([]Interval, error) {
	if sampleDuration <= 0 || requested <= 0 {
		return nil, fmt.Errorf("%w: sample %.3fs, requested %.3fs", ErrInsufficientDuration, sampleDuration, requested)
	}

	n := int(math.Floor(requested/sampleDuration + floatSlack))
	if n < 1 {
		return nil, fmt.Errorf("%w: requested %.3fs holds no full %.3fs sample", ErrInsufficientDuration, requested, sampleDuration)
	}
	if float64(n)*sampleDuration > total+floatSlack {
		return nil, fmt.Errorf("%w: %d samples of %.3fs need %.3fs, only %.3fs available",
			ErrInsufficientDuration, n, sampleDuration, float64(n)*sampleDuration, total)
	}

	length := total / float64(n)
	intervals := make([]Interval, n)
	for i := 0; i < n; i++ {
		intervals[i] = Interval{
			ID:    i,
			Start: float64(i) * length,
			End:   float64(i+1) * length,
		}
	}
	// Pin the final boundary so the partition covers [0, total) exactly.
	intervals[n-1].End = total

	return intervals, nil
}
