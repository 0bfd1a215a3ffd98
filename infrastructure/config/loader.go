package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Tools    ToolsConfig    `yaml:"tools"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Google   GoogleConfig   `yaml:"google"`
}

// ToolsConfig locates the external media executables
type ToolsConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// PipelineConfig contains highlight pipeline settings
type PipelineConfig struct {
	Workers     int    `yaml:"workers"`
	RetryBudget int    `yaml:"retry_budget"`
	MinClips    int    `yaml:"min_clips"`
	OutputName  string `yaml:"output_name"`
}

// GoogleConfig contains Google API settings for publishing
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	ReelsFolderID   string `yaml:"reels_folder_id"`
}

// DefaultConfig returns the configuration used when no file exists:
// executables resolved from PATH and conservative pipeline settings.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Pipeline: PipelineConfig{
			Workers:     4,
			RetryBudget: 100,
			MinClips:    1,
			OutputName:  "output.mp4",
		},
		Google: GoogleConfig{
			TokenFile: "config/token.json",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
