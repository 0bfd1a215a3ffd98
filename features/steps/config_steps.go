//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelgen/cmd"
	"reelgen/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.loadErr = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a configuration file with (\d+) workers$`, testCtx.aConfigurationFileWithWorkers)
	ctx.Step(`^no configuration file exists$`, testCtx.noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, testCtx.iAttemptToLoadTheConfiguration)
	ctx.Step(`^the configured workers should be (\d+)$`, testCtx.theConfiguredWorkersShouldBe)
	ctx.Step(`^the configured output name should be "([^"]*)"$`, testCtx.theConfiguredOutputNameShouldBe)
	ctx.Step(`^I set the config key "([^"]*)" to "([^"]*)"$`, testCtx.iSetTheConfigKey)
	ctx.Step(`^I attempt to set the config key "([^"]*)" to "([^"]*)"$`, testCtx.iAttemptToSetTheConfigKey)
	ctx.Step(`^the saved configuration should have (\d+) workers$`, testCtx.theSavedConfigurationShouldHaveWorkers)
	ctx.Step(`^I should receive a configuration error$`, testCtx.iShouldReceiveAConfigurationError)
	ctx.Step(`^I should receive a configuration error containing "([^"]*)"$`, testCtx.iShouldReceiveAConfigurationErrorContaining)
}

func (c *configContext) aConfigurationFileWithWorkers(workers int) error {
	content := fmt.Sprintf(`tools:
  ffmpeg_path: "ffmpeg"
  ffprobe_path: "ffprobe"
pipeline:
  workers: %d
  retry_budget: 100
  min_clips: 1
  output_name: "weekly.mp4"
google:
  credentials_file: "creds.json"
  token_file: "token.json"
  reels_folder_id: "folder-123"
`, workers)
	return os.WriteFile(c.configPath, []byte(content), 0644)
}

func (c *configContext) noConfigurationFileExists() error {
	// Config path points into the temp dir; nothing to create
	return nil
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iAttemptToLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	c.cfg = cfg
	c.loadErr = err
	return nil
}

func (c *configContext) theConfiguredWorkersShouldBe(expected int) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Pipeline.Workers != expected {
		return fmt.Errorf("expected %d workers, got %d", expected, c.cfg.Pipeline.Workers)
	}
	return nil
}

func (c *configContext) theConfiguredOutputNameShouldBe(expected string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Pipeline.OutputName != expected {
		return fmt.Errorf("expected output name %q, got %q", expected, c.cfg.Pipeline.OutputName)
	}
	return nil
}

func (c *configContext) iSetTheConfigKey(key, value string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := &bytes.Buffer{}
	if err := cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, out); err != nil {
		return fmt.Errorf("config set failed: %w", err)
	}
	return nil
}

func (c *configContext) iAttemptToSetTheConfigKey(key, value string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		c.loadErr = err
		return nil
	}

	out := &bytes.Buffer{}
	c.loadErr = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, out)
	return nil
}

func (c *configContext) theSavedConfigurationShouldHaveWorkers(expected int) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	if cfg.Pipeline.Workers != expected {
		return fmt.Errorf("expected %d workers after save, got %d", expected, cfg.Pipeline.Workers)
	}
	return nil
}

func (c *configContext) iShouldReceiveAConfigurationError() error {
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}

func (c *configContext) iShouldReceiveAConfigurationErrorContaining(expected string) error {
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.loadErr.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, c.loadErr)
	}
	return nil
}
