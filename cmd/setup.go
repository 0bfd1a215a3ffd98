package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"reelgen/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the ffmpeg tool paths, the pipeline
defaults, and the optional Google Drive publishing settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to reelgen setup!")
	fmt.Println()

	cfg := config.DefaultConfig()

	// Tools section
	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	// Pipeline section
	if err := promptPipeline(prompter, cfg); err != nil {
		return err
	}

	// Google section
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.Tools.FFmpegPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.Tools.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.Tools.FFprobePath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.Tools.FFprobePath = ffprobePath
	}

	return nil
}

func promptPipeline(prompter Prompter, cfg *config.Config) error {
	workers, err := prompter.Input("Concurrent probe/extract workers?", strconv.Itoa(cfg.Pipeline.Workers))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 1 {
			return fmt.Errorf("workers must be a positive number")
		}
		cfg.Pipeline.Workers = n
	}

	outputName, err := prompter.Input("Default output file name?", cfg.Pipeline.OutputName)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if outputName != "" {
		cfg.Pipeline.OutputName = outputName
	}

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	publish, err := prompter.Confirm("Configure Google Drive publishing?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !publish {
		return nil
	}

	credentials, err := prompter.Input("Path to Google credentials file?", "credentials.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials == "" {
		credentials = "credentials.json"
	}
	cfg.Google.CredentialsFile = credentials

	folder, err := prompter.Input("Google Drive folder ID for reels?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Google.ReelsFolderID = folder

	return nil
}
