package highlight

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"reelgen/domain/media"
	"reelgen/domain/timeline"
)

// Scanner abstracts file system operations for locating source footage
type Scanner interface {
	ScanDirectory(dir string) ([]string, error)
	Exists(path string) bool
	FileSize(path string) int64
}

// defaultFrameInterval is the clip duration tolerance used when the probe
// reports no frame rate (assumes 30 fps)
const defaultFrameInterval = 1.0 / 30

// Service orchestrates the complete highlight generation workflow
type Service struct {
	scanner   Scanner
	prober    media.Prober
	cutter    media.Cutter
	assembler media.Assembler
	checker   media.FrameChecker
	output    io.Writer
}

// NewService creates a new highlight service
func NewService(
	scanner Scanner,
	prober media.Prober,
	cutter media.Cutter,
	assembler media.Assembler,
	checker media.FrameChecker,
	output io.Writer,
) *Service {
	return &Service{
		scanner:   scanner,
		prober:    prober,
		cutter:    cutter,
		assembler: assembler,
		checker:   checker,
		output:    output,
	}
}

// Input contains all input parameters for the generate command
type Input struct {
	SourceDir     string  // Directory scanned for source footage
	SampleSeconds float64 // Length of each extracted sample
	TotalSeconds  float64 // Requested length of the assembled reel
	OutputPath    string  // Where the assembled reel is written
	Seed          int64   // Sampling seed (only used when SeedSet)
	SeedSet       bool    // Whether Seed was supplied
	Workers       int     // Concurrent probe/extract workers
	RetryBudget   int     // Redraws per interval before the fallback scan
	MinClips      int     // Minimum surviving clips required to assemble
	KeepWorkspace bool    // Leave the temp workspace behind for debugging
}

// SkippedSource records a file excluded from the timeline and why
type SkippedSource struct {
	Path   string
	Reason error
}

// SkippedSample records a planned interval that produced no clip and why
type SkippedSample struct {
	IntervalID int
	Reason     error
}

// Result contains the results of a successful generate run
type Result struct {
	OutputPath     string
	OutputSize     int64
	OutputDuration float64 // probed length of the assembled reel in seconds
	SourceCount    int     // usable sources on the timeline
	SkippedSources []SkippedSource
	TotalDuration  float64 // virtual timeline length in seconds
	Planned        int     // intervals that produced a feasible sample
	Extracted      int     // clips that survived extraction and verification
	Fallbacks      int     // samples placed by the ordered clip scan
	SkippedSamples []SkippedSample
	Elapsed        time.Duration
}

// ValidationError contains details about a validation failure with suggestions
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n\nTo fix this, run:\n  %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Generate runs the complete scan-probe-plan-extract-assemble workflow
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	startTime := time.Now()

	// Step 0: Validate all inputs before touching the filesystem
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.verifyTools(ctx); err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "Source directory: %s\n", input.SourceDir)
	fmt.Fprintf(s.output, "Requested: %gs reel from %gs samples\n", input.TotalSeconds, input.SampleSeconds)
	if input.SeedSet {
		fmt.Fprintf(s.output, "Seed: %d\n", input.Seed)
	}
	fmt.Fprintln(s.output)

	// Step 1: Scan for source footage
	fmt.Fprintf(s.output, "[1/5] Scanning %s...\n", input.SourceDir)
	paths, err := s.scanner.ScanDirectory(input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no video files in %s", input.SourceDir)
	}
	fmt.Fprintf(s.output, "      Found: %d video files\n\n", len(paths))

	// Step 2: Probe metadata and order the timeline
	fmt.Fprintf(s.output, "[2/5] Probing sources...\n")
	clips, skippedSources := probeSources(ctx, s.prober, paths, input.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, sk := range skippedSources {
		fmt.Fprintf(s.output, "      Skipped: %s (%v)\n", filepath.Base(sk.Path), sk.Reason)
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("no usable sources in %s: all %d files failed probing", input.SourceDir, len(paths))
	}

	catalog, err := timeline.NewCatalog(clips)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	ix := timeline.NewIndex(catalog)
	fmt.Fprintf(s.output, "      Timeline: %d clips, %s\n\n", catalog.Len(), formatTimecode(ix.Total()))

	// Step 3: Partition the timeline and draw samples
	fmt.Fprintf(s.output, "[3/5] Planning samples...\n")
	intervals, err := timeline.Partition(ix.Total(), input.TotalSeconds, input.SampleSeconds)
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	var samplerOpts []timeline.SamplerOption
	if input.SeedSet {
		samplerOpts = append(samplerOpts, timeline.WithSeed(input.Seed))
	}
	if input.RetryBudget > 0 {
		samplerOpts = append(samplerOpts, timeline.WithRetryBudget(input.RetryBudget))
	}
	sampler := timeline.NewSampler(samplerOpts...)

	var samples []timeline.Sample
	var skippedSamples []SkippedSample
	fallbacks := 0
	for _, r := range sampler.Plan(ix, intervals, input.SampleSeconds) {
		if r.State != timeline.StateSampled {
			skippedSamples = append(skippedSamples, SkippedSample{IntervalID: r.Interval.ID, Reason: r.Err})
			fmt.Fprintf(s.output, "      [%2d] skipped: %v\n", r.Interval.ID+1, r.Err)
			continue
		}
		marker := ""
		if r.Fallback {
			fallbacks++
			marker = " (fallback)"
		}
		samples = append(samples, r.Sample)
		fmt.Fprintf(s.output, "      [%2d] %s -> %s @ %s%s\n",
			r.Interval.ID+1,
			formatTimecode(r.Sample.VirtualStart),
			filepath.Base(r.Sample.Clip.Path),
			formatTimecode(r.Sample.ClipOffset),
			marker)
	}
	fmt.Fprintf(s.output, "      Planned: %d of %d intervals\n\n", len(samples), len(intervals))

	minClips := input.MinClips
	if minClips < 1 {
		minClips = 1
	}
	if len(samples) < minClips {
		return nil, fmt.Errorf("only %d of %d intervals produced a sample (minimum %d)", len(samples), len(intervals), minClips)
	}

	// Step 4: Extract the planned clips losslessly
	fmt.Fprintf(s.output, "[4/5] Extracting clips...\n")
	workspace, err := os.MkdirTemp("", "reelgen-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer func() {
		if input.KeepWorkspace {
			fmt.Fprintf(s.output, "Workspace kept: %s\n", workspace)
			return
		}
		os.RemoveAll(workspace)
	}()

	extractions := s.extractSamples(ctx, samples, workspace, input.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var clipPaths []string
	for _, ex := range extractions {
		if ex.err != nil {
			skippedSamples = append(skippedSamples, SkippedSample{IntervalID: ex.intervalID, Reason: ex.err})
			fmt.Fprintf(s.output, "      [%2d] failed: %v\n", ex.intervalID+1, ex.err)
			continue
		}
		clipPaths = append(clipPaths, ex.clipPath)
		fmt.Fprintf(s.output, "      [%2d] %s\n", ex.intervalID+1, filepath.Base(ex.clipPath))
	}
	fmt.Fprintf(s.output, "      Extracted: %d of %d clips\n\n", len(clipPaths), len(samples))

	if len(clipPaths) < minClips {
		return nil, fmt.Errorf("only %d of %d clips survived extraction (minimum %d)", len(clipPaths), len(samples), minClips)
	}

	// Step 5: Assemble the reel
	fmt.Fprintf(s.output, "[5/5] Assembling %s...\n", filepath.Base(input.OutputPath))
	if err := s.assembler.Assemble(ctx, clipPaths, input.OutputPath); err != nil {
		return nil, fmt.Errorf("assembly failed: %w", err)
	}
	outputSize := s.scanner.FileSize(input.OutputPath)
	if outputSize <= 0 {
		return nil, fmt.Errorf("assembly produced an empty file: %s", input.OutputPath)
	}
	reelInfo, err := s.prober.Probe(ctx, input.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("verifying assembled reel: %w", err)
	}
	if reelInfo.Duration <= 0 {
		return nil, fmt.Errorf("assembled reel has no measurable duration: %s", input.OutputPath)
	}
	fmt.Fprintf(s.output, "      Created: %s (%s, %.1f MB)\n\n",
		input.OutputPath, formatTimecode(reelInfo.Duration), float64(outputSize)/1024/1024)

	elapsed := time.Since(startTime)
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(elapsed))

	sort.Slice(skippedSamples, func(i, j int) bool {
		return skippedSamples[i].IntervalID < skippedSamples[j].IntervalID
	})

	return &Result{
		OutputPath:     input.OutputPath,
		OutputSize:     outputSize,
		OutputDuration: reelInfo.Duration,
		SourceCount:    catalog.Len(),
		SkippedSources: skippedSources,
		TotalDuration:  ix.Total(),
		Planned:        len(samples),
		Extracted:      len(clipPaths),
		Fallbacks:      fallbacks,
		SkippedSamples: skippedSamples,
		Elapsed:        elapsed,
	}, nil
}

func (s *Service) validateInput(input *Input) error {
	if input.SourceDir == "" {
		return &ValidationError{
			Message:    "source directory is required",
			Suggestion: "reelgen generate <source-dir> <sample-seconds> <total-seconds>",
		}
	}
	if input.SampleSeconds <= 0 {
		return &ValidationError{
			Message: fmt.Sprintf("sample duration must be positive, got %g", input.SampleSeconds),
		}
	}
	if input.TotalSeconds <= 0 {
		return &ValidationError{
			Message: fmt.Sprintf("total duration must be positive, got %g", input.TotalSeconds),
		}
	}
	if input.SampleSeconds > input.TotalSeconds {
		return &ValidationError{
			Message:    fmt.Sprintf("sample duration (%gs) exceeds the requested total (%gs)", input.SampleSeconds, input.TotalSeconds),
			Suggestion: fmt.Sprintf("reelgen generate %s %g %g", input.SourceDir, input.TotalSeconds, input.SampleSeconds),
		}
	}
	if !s.scanner.Exists(input.SourceDir) {
		return &ValidationError{
			Message: fmt.Sprintf("source directory does not exist: %s", input.SourceDir),
		}
	}
	if input.OutputPath == "" {
		input.OutputPath = filepath.Join(input.SourceDir, "output.mp4")
	}
	if input.Workers < 1 {
		input.Workers = 1
	}
	return nil
}

func (s *Service) verifyTools(ctx context.Context) error {
	if err := s.prober.VerifyInstalled(ctx); err != nil {
		return err
	}
	if err := s.cutter.VerifyInstalled(ctx); err != nil {
		return err
	}
	return s.assembler.VerifyInstalled(ctx)
}

// probeOutcome pairs one scanned path with its probe result
type probeOutcome struct {
	path string
	clip timeline.SourceClip
	err  error
}

// probeSources probes every path concurrently and splits the outcomes into
// usable clips and skipped sources (sorted by path)
func probeSources(ctx context.Context, prober media.Prober, paths []string, workers int) ([]timeline.SourceClip, []SkippedSource) {
	jobs := make(chan string)
	results := make(chan probeOutcome, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				clip, err := probeSource(ctx, prober, path)
				results <- probeOutcome{path: path, clip: clip, err: err}
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var clips []timeline.SourceClip
	var skipped []SkippedSource
	for r := range results {
		if r.err != nil {
			skipped = append(skipped, SkippedSource{Path: r.path, Reason: r.err})
			continue
		}
		clips = append(clips, r.clip)
	}
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })
	return clips, skipped
}

// probeSource reads one source's metadata, falling back to the filename
// timestamp when the container has no creation time
func probeSource(ctx context.Context, prober media.Prober, path string) (timeline.SourceClip, error) {
	info, err := prober.Probe(ctx, path)
	if err != nil {
		return timeline.SourceClip{}, err
	}

	capturedAt := info.CapturedAt
	if capturedAt.IsZero() {
		capturedAt, err = media.ParseCaptureTimestamp(path)
		if err != nil {
			return timeline.SourceClip{}, err
		}
	}

	return timeline.SourceClip{
		Path:       path,
		CapturedAt: capturedAt,
		Duration:   info.Duration,
	}, nil
}

// extraction is the outcome of cutting one planned sample
type extraction struct {
	intervalID int
	clipPath   string
	err        error
}

// extractSamples cuts every planned sample into the workspace concurrently
// and returns the outcomes in interval order
func (s *Service) extractSamples(ctx context.Context, samples []timeline.Sample, workspace string, workers int) []extraction {
	jobs := make(chan timeline.Sample)
	results := make(chan extraction, len(samples))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sample := range jobs {
				clipPath, err := s.extractOne(ctx, sample, workspace)
				results <- extraction{intervalID: sample.IntervalID, clipPath: clipPath, err: err}
			}
		}()
	}

	go func() {
		for _, sample := range samples {
			jobs <- sample
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	extractions := make([]extraction, 0, len(samples))
	for ex := range results {
		extractions = append(extractions, ex)
	}
	sort.Slice(extractions, func(i, j int) bool { return extractions[i].intervalID < extractions[j].intervalID })
	return extractions
}

// extractOne cuts a single sample and verifies the result
func (s *Service) extractOne(ctx context.Context, sample timeline.Sample, workspace string) (string, error) {
	clipPath := filepath.Join(workspace, fmt.Sprintf("clip_%03d.mp4", sample.IntervalID+1))
	if err := s.cutter.Cut(ctx, sample.Clip.Path, sample.ClipOffset, sample.Duration, clipPath); err != nil {
		return "", fmt.Errorf("cut failed: %w", err)
	}
	if err := s.verifyClip(ctx, clipPath, sample.Duration); err != nil {
		return "", err
	}
	return clipPath, nil
}

// verifyClip checks an extracted clip is non-empty, close to the requested
// duration, and decodable
func (s *Service) verifyClip(ctx context.Context, path string, wantDuration float64) error {
	if s.scanner.FileSize(path) <= 0 {
		return fmt.Errorf("%w: %s is empty", media.ErrClipVerification, filepath.Base(path))
	}

	info, err := s.prober.Probe(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrClipVerification, err)
	}
	tolerance := info.FrameInterval(defaultFrameInterval)
	if math.Abs(info.Duration-wantDuration) > tolerance {
		return fmt.Errorf("%w: %s runs %.3fs, wanted %.3fs", media.ErrClipVerification,
			filepath.Base(path), info.Duration, wantDuration)
	}

	if err := s.checker.CheckDecodable(ctx, path); err != nil {
		return fmt.Errorf("%w: %v", media.ErrClipVerification, err)
	}
	return nil
}

// formatTimecode renders seconds on the virtual timeline as H:MM:SS.s
func formatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	seconds = math.Round(seconds*10) / 10
	whole := int(seconds)
	h := whole / 3600
	m := whole % 3600 / 60
	rem := seconds - float64(h*3600+m*60)
	return fmt.Sprintf("%d:%02d:%04.1f", h, m, rem)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	sec := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
