package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"reelgen/domain/media"
)

// Cutter implements media.Cutter using ffmpeg stream copy
type Cutter struct {
	ffmpegPath string
	runner     CommandRunner
}

// CutterOption is a functional option for configuring Cutter
type CutterOption func(*Cutter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) CutterOption {
	return func(c *Cutter) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) CutterOption {
	return func(c *Cutter) {
		c.runner = runner
	}
}

// NewCutter creates a new FFmpeg-based lossless cutter
func NewCutter(opts ...CutterOption) *Cutter {
	c := &Cutter{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Cut implements media.Cutter. The source streams are copied, never
// re-encoded; the seek lands on the nearest preceding keyframe.
func (c *Cutter) Cut(ctx context.Context, sourcePath string, offset, duration float64, outputPath string) error {
	args := []string{
		"-ss", formatSeconds(offset),
		"-i", sourcePath,
		"-t", formatSeconds(duration),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg cut failed for %s at %ss: %w", sourcePath, formatSeconds(offset), err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (c *Cutter) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// formatSeconds renders seconds with millisecond precision for ffmpeg args.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Ensure Cutter implements media.Cutter
var _ media.Cutter = (*Cutter)(nil)
