package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reelgen/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reelgen",
	Short: "Generate highlight reels from directories of raw footage",
	Long: `reelgen condenses a directory of video files into one highlight reel:

  - Order the footage into a single timeline by capture time
  - Split the timeline into equal intervals, one sample per interval
  - Cut each sample without re-encoding
  - Concatenate the samples into the final reel
  - Publish the reel to Google Drive with a share link

Example:
  reelgen generate ./footage 3 60 --output weekend.mp4`,
}

// Execute runs the root command. Interrupts cancel in-flight work
// through the command context before the process exits.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ctx.Err() != nil {
			os.Exit(130) // Standard exit code for SIGINT
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like generate)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// OutputWriter interface for writing output (allows testing)
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput writes to stdout
var DefaultOutput OutputWriter = os.Stdout
