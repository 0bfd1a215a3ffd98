package highlight

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"reelgen/domain/media"
	"reelgen/domain/timeline"
)

// InspectService reports the virtual timeline built from a source directory
type InspectService struct {
	scanner Scanner
	prober  media.Prober
	output  io.Writer
}

// NewInspectService creates a new inspect service
func NewInspectService(scanner Scanner, prober media.Prober, output io.Writer) *InspectService {
	return &InspectService{
		scanner: scanner,
		prober:  prober,
		output:  output,
	}
}

// InspectInput contains the input parameters for the inspect command
type InspectInput struct {
	SourceDir string
	Workers   int
}

// Inspect scans and probes the source directory and renders the ordered
// virtual timeline
func (s *InspectService) Inspect(ctx context.Context, input InspectInput) (*timeline.Index, error) {
	if input.SourceDir == "" {
		return nil, &ValidationError{
			Message:    "source directory is required",
			Suggestion: "reelgen inspect <source-dir>",
		}
	}
	if !s.scanner.Exists(input.SourceDir) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("source directory does not exist: %s", input.SourceDir),
		}
	}
	workers := input.Workers
	if workers < 1 {
		workers = 1
	}

	paths, err := s.scanner.ScanDirectory(input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no video files in %s", input.SourceDir)
	}

	clips, skipped := probeSources(ctx, s.prober, paths, workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("no usable sources in %s: all %d files failed probing", input.SourceDir, len(paths))
	}

	catalog, err := timeline.NewCatalog(clips)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	ix := timeline.NewIndex(catalog)

	w := tabwriter.NewWriter(s.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tCAPTURED\tDURATION\tTIMELINE")
	for _, span := range ix.Spans() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s - %s\n",
			filepath.Base(span.Clip.Path),
			span.Clip.CapturedAt.Format("2006-01-02 15:04:05"),
			formatTimecode(span.Clip.Duration),
			formatTimecode(span.Start),
			formatTimecode(span.End))
	}
	w.Flush()

	fmt.Fprintf(s.output, "\nTotal: %d clips, %s\n", catalog.Len(), formatTimecode(ix.Total()))
	for _, sk := range skipped {
		fmt.Fprintf(s.output, "Skipped: %s (%v)\n", filepath.Base(sk.Path), sk.Reason)
	}

	return ix, nil
}
