package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelgen/domain/media"
)

// Assembler implements media.Assembler using ffmpeg's concat demuxer.
// Assembly is the one re-encoding step: it normalizes the mixed source
// clips into a single H.264/AAC container.
type Assembler struct {
	ffmpegPath string
	runner     CommandRunner
}

// AssemblerOption is a functional option for configuring Assembler
type AssemblerOption func(*Assembler)

// WithAssemblerFFmpegPath sets a custom ffmpeg executable path
func WithAssemblerFFmpegPath(path string) AssemblerOption {
	return func(a *Assembler) {
		if path != "" {
			a.ffmpegPath = path
		}
	}
}

// WithAssemblerRunner sets a custom command runner (for testing)
func WithAssemblerRunner(runner CommandRunner) AssemblerOption {
	return func(a *Assembler) {
		a.runner = runner
	}
}

// NewAssembler creates a new FFmpeg-based concatenating assembler
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble implements media.Assembler. Clip order in the output follows
// the order of clipPaths exactly.
func (a *Assembler) Assemble(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to assemble")
	}

	listPath, err := writeConcatList(clipPaths)
	if err != nil {
		return err
	}

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "20",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		"-fflags", "+genpts",
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := a.runner.Run(ctx, a.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	return nil
}

// writeConcatList writes the concat demuxer list next to the clips so it
// shares the workspace lifecycle. Paths are absolute; single quotes are
// escaped per the demuxer's quoting rules.
func writeConcatList(clipPaths []string) (string, error) {
	var b strings.Builder
	for _, clip := range clipPaths {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return "", fmt.Errorf("resolving clip path %s: %w", clip, err)
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}

	listPath := filepath.Join(filepath.Dir(clipPaths[0]), "concat_list.txt")
	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("writing concat list: %w", err)
	}
	return listPath, nil
}

// VerifyInstalled checks that ffmpeg is available
func (a *Assembler) VerifyInstalled(ctx context.Context) error {
	_, err := a.runner.Output(ctx, a.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Assembler implements media.Assembler
var _ media.Assembler = (*Assembler)(nil)
