package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reelgen/domain/media"
)

// Prober implements media.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberRunner sets a custom command runner (for testing)
func WithProberRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based metadata prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// probePayload mirrors the fields of ffprobe's JSON output we consume
type probePayload struct {
	Format struct {
		Duration string `json:"duration"`
		Tags     struct {
			CreationTime string `json:"creation_time"`
		} `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Tags         struct {
			CreationTime string `json:"creation_time"`
		} `json:"tags"`
	} `json:"streams"`
}

// Probe implements media.Prober
func (p *Prober) Probe(ctx context.Context, path string) (media.SourceInfo, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return media.SourceInfo{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var payload probePayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return media.SourceInfo{}, fmt.Errorf("ffprobe output for %s is not valid JSON: %w", path, err)
	}

	if payload.Format.Duration == "" {
		return media.SourceInfo{}, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	duration, err := strconv.ParseFloat(payload.Format.Duration, 64)
	if err != nil {
		return media.SourceInfo{}, fmt.Errorf("ffprobe duration %q for %s: %w", payload.Format.Duration, path, err)
	}
	if duration <= 0 {
		return media.SourceInfo{}, fmt.Errorf("ffprobe reported non-positive duration %.3fs for %s", duration, path)
	}

	info := media.SourceInfo{
		Duration:   duration,
		CapturedAt: p.creationTime(payload),
	}
	for _, stream := range payload.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if rate := parseFrameRate(stream.AvgFrameRate); rate > 0 {
			info.FrameRate = rate
		} else {
			info.FrameRate = parseFrameRate(stream.RFrameRate)
		}
		break
	}

	return info, nil
}

// creationTime picks the container-level creation timestamp, falling back
// to the first stream that carries one. Zero time when absent.
func (p *Prober) creationTime(payload probePayload) time.Time {
	candidates := []string{payload.Format.Tags.CreationTime}
	for _, stream := range payload.Streams {
		candidates = append(candidates, stream.Tags.CreationTime)
	}

	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

// parseFrameRate converts ffprobe's fractional rate ("30000/1001") to
// frames per second. Returns 0 for unknown or degenerate rates.
func parseFrameRate(raw string) float64 {
	if raw == "" {
		return 0
	}
	num, den, found := strings.Cut(raw, "/")
	if !found {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0
		}
		return rate
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Prober implements media.Prober
var _ media.Prober = (*Prober)(nil)
