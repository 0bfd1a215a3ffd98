package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"reelgen/application/highlight"
	"reelgen/domain/media"
	"reelgen/infrastructure/config"
	"reelgen/infrastructure/ffmpeg"
	"reelgen/infrastructure/filesystem"
	"reelgen/infrastructure/framecheck"

	"github.com/spf13/cobra"
)

var (
	generateOutput   string
	generateSeed     int64
	generateWorkers  int
	generateRetries  int
	generateMinClips int
	generateKeepTemp bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <source-dir> <sample-seconds> <total-seconds>",
	Short: "Generate a highlight reel from a directory of footage",
	Long: `Generate a highlight reel by sampling a directory of video files.

The files are ordered by capture time into a single timeline, the
timeline is split into one interval per <sample-seconds> of the
requested <total-seconds>, and a randomly placed sample is cut from
each interval. Samples never cross file boundaries, so every clip in
the reel is continuous footage. The same --seed always produces the
same reel.

Example:
  reelgen generate ./footage 3 60
  reelgen generate ./footage 3 60 --output weekend.mp4 --seed 7`,
	Args: cobra.ExactArgs(3),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default from config)")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed for reproducible sample placement")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 0, "Concurrent probe/extract workers (default from config)")
	generateCmd.Flags().IntVar(&generateRetries, "retries", 0, "Redraws per interval before falling back to a scan")
	generateCmd.Flags().IntVar(&generateMinClips, "min-clips", 0, "Minimum clips required to assemble a reel")
	generateCmd.Flags().BoolVar(&generateKeepTemp, "keep-temp", false, "Keep the temporary clip workspace for debugging")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		// generate works without a config file
		cfg = config.DefaultConfig()
	}

	sampleSeconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid sample duration %q", args[1])
	}
	totalSeconds, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid total duration %q", args[2])
	}

	input := highlight.Input{
		SourceDir:     args[0],
		SampleSeconds: sampleSeconds,
		TotalSeconds:  totalSeconds,
		OutputPath:    generateOutput,
		Workers:       cfg.Pipeline.Workers,
		RetryBudget:   cfg.Pipeline.RetryBudget,
		MinClips:      cfg.Pipeline.MinClips,
		KeepWorkspace: generateKeepTemp,
	}
	if input.OutputPath == "" {
		// The reel lands next to the footage it came from
		input.OutputPath = filepath.Join(args[0], cfg.Pipeline.OutputName)
	}
	if cmd.Flags().Changed("seed") {
		input.Seed = generateSeed
		input.SeedSet = true
	}
	if cmd.Flags().Changed("workers") {
		input.Workers = generateWorkers
	}
	if cmd.Flags().Changed("retries") {
		input.RetryBudget = generateRetries
	}
	if cmd.Flags().Changed("min-clips") {
		input.MinClips = generateMinClips
	}

	return RunGenerateWithDependencies(
		cmd.Context(),
		filesystem.NewScanner(),
		ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobePath)),
		ffmpeg.NewCutter(ffmpeg.WithFFmpegPath(cfg.Tools.FFmpegPath)),
		ffmpeg.NewAssembler(ffmpeg.WithAssemblerFFmpegPath(cfg.Tools.FFmpegPath)),
		framecheck.NewChecker(),
		input,
		DefaultOutput,
	)
}

// RunGenerateWithDependencies runs the generate command with injected dependencies (for testing)
func RunGenerateWithDependencies(
	ctx context.Context,
	scanner highlight.Scanner,
	prober media.Prober,
	cutter media.Cutter,
	assembler media.Assembler,
	checker media.FrameChecker,
	input highlight.Input,
	output OutputWriter,
) error {
	service := highlight.NewService(scanner, prober, cutter, assembler, checker, output)
	_, err := service.Generate(ctx, input)
	return err
}
