package cmd

import (
	"context"

	"reelgen/application/highlight"
	"reelgen/domain/media"
	"reelgen/infrastructure/config"
	"reelgen/infrastructure/ffmpeg"
	"reelgen/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var inspectWorkers int

var inspectCmd = &cobra.Command{
	Use:   "inspect <source-dir>",
	Short: "Show the timeline a directory of footage would produce",
	Long: `Probe every video file in the directory and print the timeline they
form: capture time, duration, and timeline position per file.

Use this to check ordering and total footage before generating a reel.

Example:
  reelgen inspect ./footage`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectWorkers, "workers", 0, "Concurrent probe workers (default from config)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	workers := cfg.Pipeline.Workers
	if cmd.Flags().Changed("workers") {
		workers = inspectWorkers
	}

	return RunInspectWithDependencies(
		cmd.Context(),
		filesystem.NewScanner(),
		ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobePath)),
		args[0],
		workers,
		DefaultOutput,
	)
}

// RunInspectWithDependencies runs the inspect command with injected dependencies (for testing)
func RunInspectWithDependencies(
	ctx context.Context,
	scanner highlight.Scanner,
	prober media.Prober,
	sourceDir string,
	workers int,
	output OutputWriter,
) error {
	service := highlight.NewInspectService(scanner, prober, output)
	_, err := service.Inspect(ctx, highlight.InspectInput{
		SourceDir: sourceDir,
		Workers:   workers,
	})
	return err
}
