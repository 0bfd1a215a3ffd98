package timeline

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// State is the terminal outcome of sampling one interval.
type State int

const (
	StatePending State = iota
	StateSampled
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSampled:
		return "sampled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sample is one chosen sub-window of an interval, guaranteed to map into
// exactly one source clip.
type Sample struct {
	IntervalID   int
	VirtualStart float64
	Clip         SourceClip
	ClipOffset   float64 // seconds from the start of the clip
	Duration     float64
}

// VirtualEnd returns the exclusive end of the sample on the virtual timeline.
func (s Sample) VirtualEnd() float64 {
	return s.VirtualStart + s.Duration
}

// IntervalResult records the terminal sampling outcome for one interval.
// Fallback is set when the ordered clip scan placed the sample after the
// random redraws could not.
type IntervalResult struct {
	Interval Interval
	State    State
	Sample   Sample
	Fallback bool
	Err      error
}

// DefaultRetryBudget bounds the redraws attempted per interval before the
// deterministic fallback scan takes over.
const DefaultRetryBudget = 100

// Sampler draws one randomly-positioned sample per interval such that the
// sample lies entirely inside the interval and inside a single source clip.
type Sampler struct {
	rng     *rand.Rand
	retries int
}

// SamplerOption is a functional option for configuring Sampler.
type SamplerOption func(*Sampler)

// WithSeed makes the sampler's draws reproducible.
func WithSeed(seed int64) SamplerOption {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRetryBudget overrides the per-interval redraw budget.
func WithRetryBudget(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.retries = n
		}
	}
}

// NewSampler creates a sampler with a fresh seed unless WithSeed is given.
func NewSampler(opts ...SamplerOption) *Sampler {
	s := &Sampler{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		retries: DefaultRetryBudget,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Plan resolves every interval to Sampled or Failed, in increasing id order.
// Draws consume the sampler's RNG in that order, so a fixed seed reproduces
// the whole plan. Per-interval failures are recorded, never raised.
func (s *Sampler) Plan(ix *Index, intervals []Interval, sampleDuration float64) []IntervalResult {
	results := make([]IntervalResult, 0, len(intervals))
	for _, iv := range intervals {
		results = append(results, s.planInterval(ix, iv, sampleDuration))
	}
	return results
}

func (s *Sampler) planInterval(ix *Index, iv Interval, d float64) IntervalResult {
	res := IntervalResult{Interval: iv, State: StatePending}

	windowEnd := iv.End - d
	if windowEnd < iv.Start-floatSlack {
		res.State = StateFailed
		res.Err = fmt.Errorf("%w: interval %d is %.3fs, sample is %.3fs", ErrDegenerateInterval, iv.ID, iv.Length(), d)
		return res
	}

	start := s.uniform(iv.Start, windowEnd)
	loc, err := ix.Locate(start)
	if err != nil {
		res.State = StateFailed
		res.Err = fmt.Errorf("interval %d: %w", iv.ID, err)
		return res
	}

	if fitsSpan(loc.Span, start, d) {
		res.State = StateSampled
		res.Sample = makeSample(iv.ID, start, loc, d)
		return res
	}

	// The candidate straddles a clip boundary. Redraw inside the sub-window
	// of the interval that lies entirely within the clip owning the first
	// draw; every point there hosts a full sample, so the budget only
	// guards boundary rounding.
	lo := math.Max(iv.Start, loc.Span.Start)
	hi := math.Min(iv.End, loc.Span.End) - d
	if hi >= lo-floatSlack {
		for attempt := 0; attempt < s.retries; attempt++ {
			redraw := s.uniform(lo, hi)
			reloc, err := ix.Locate(redraw)
			if err != nil {
				continue
			}
			if fitsSpan(reloc.Span, redraw, d) {
				res.State = StateSampled
				res.Sample = makeSample(iv.ID, redraw, reloc, d)
				return res
			}
		}
	}

	// That clip cannot host the sample. Scan every clip intersecting the
	// interval, in timeline order, and take the first that can.
	for _, span := range ix.Spans() {
		if span.End <= iv.Start || span.Start >= iv.End {
			continue
		}
		slo := math.Max(iv.Start, span.Start)
		shi := math.Min(iv.End, span.End) - d
		if shi < slo-floatSlack {
			continue
		}
		start := s.uniform(slo, shi)
		loc, err := ix.Locate(start)
		if err != nil || !fitsSpan(loc.Span, start, d) {
			continue
		}
		res.State = StateSampled
		res.Sample = makeSample(iv.ID, start, loc, d)
		res.Fallback = true
		return res
	}

	res.State = StateFailed
	res.Err = fmt.Errorf("%w: interval %d [%.3fs, %.3fs)", ErrNoFeasibleSample, iv.ID, iv.Start, iv.End)
	return res
}

// uniform draws from [lo, hi]; a collapsed window yields lo.
func (s *Sampler) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// fitsSpan reports whether the whole window [start, start+d) stays inside
// the span that owns its first instant.
func fitsSpan(span Span, start, d float64) bool {
	return start+d <= span.End+floatSlack
}

func makeSample(intervalID int, start float64, loc Location, d float64) Sample {
	offset := loc.Offset
	if offset < 0 {
		offset = 0
	}
	// Rounding can push the window a hair past the clip end; the clip owns
	// the whole window, so clamp the offset rather than fail verification.
	if max := loc.Span.Clip.Duration - d; offset > max && max >= 0 {
		offset = max
	}
	return Sample{
		IntervalID:   intervalID,
		VirtualStart: start,
		Clip:         loc.Span.Clip,
		ClipOffset:   offset,
		Duration:     d,
	}
}
