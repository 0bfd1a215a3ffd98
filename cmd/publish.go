package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "reelgen/application/distribution"
	"reelgen/domain/distribution"
	"reelgen/infrastructure/drive"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [reel-path]",
	Short: "Upload a reel to Google Drive with public sharing",
	Long: `Upload a finished reel to the configured Google Drive folder and set
public sharing. A previous upload with the same name is replaced, so the
share link stays fresh after regenerating a reel.

Without an argument, the configured output name is published.

Example:
  reelgen publish
  reelgen publish weekend.mp4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	// Ensure config is loaded
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; ensure config/config.yaml exists")
	}
	if cfg.Google.CredentialsFile == "" {
		return fmt.Errorf("no Google credentials configured; run 'reelgen setup' first")
	}
	if cfg.Google.ReelsFolderID == "" {
		return fmt.Errorf("no Drive folder configured; run 'reelgen config set google.reels_folder_id <id>'")
	}

	reelPath := cfg.Pipeline.OutputName
	if len(args) == 1 {
		reelPath = args[0]
	}

	// Create drive client with OAuth
	ctx := cmd.Context()
	client, err := drive.NewClientWithOAuth(ctx, cfg.Google.CredentialsFile, cfg.Google.TokenFile)
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunPublishWithDependencies(ctx, client, cfg.Google.ReelsFolderID, reelPath, os.Stdout)
}

// RunPublishWithDependencies runs the publish command with injected dependencies (for testing)
func RunPublishWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	reelPath string,
	output io.Writer,
) error {
	service := appdist.NewPublishService(driveClient, folderID, output)

	fmt.Fprintf(output, "Publishing %s...\n", filepath.Base(reelPath))
	result, err := service.Publish(ctx, reelPath)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintf(output, "Reel published!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %.2f MB\n", float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
