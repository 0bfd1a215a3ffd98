package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"reelgen/infrastructure/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration values",
	Long: `View and modify values in the configuration file.

Examples:
  reelgen config show
  reelgen config get pipeline.workers
  reelgen config set pipeline.workers 8
  reelgen config set google.reels_folder_id 1AbCdEfGh`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration values",
	Long: `Show every configuration key with its current value.

Example:
  reelgen config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'reelgen setup' first")
	}

	return RunConfigShowWithDependencies(cfg, DefaultOutput)
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, out OutputWriter) error {
	mgr := config.NewManager(cfg, "")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	for _, key := range config.Keys() {
		value, err := mgr.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", key, value)
	}

	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one configuration value",
	Long: `Show the current value of a single configuration key.

Examples:
  reelgen config get pipeline.workers
  reelgen config get google.reels_folder_id`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'reelgen setup' first")
	}

	return RunConfigGetWithDependencies(cfg, args[0], DefaultOutput)
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, key string, out OutputWriter) error {
	mgr := config.NewManager(cfg, "")
	value, err := mgr.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration key and save the config file.

Run 'reelgen config show' to list the available keys.

Examples:
  reelgen config set pipeline.workers 8
  reelgen config set pipeline.output_name highlights.mp4
  reelgen config set google.reels_folder_id 1AbCdEfGh`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("config file not found. Run 'reelgen setup' first")
	}

	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// --- INIT command ---

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with default values, without prompting.

Use 'reelgen setup' for an interactive walkthrough instead.

Example:
  reelgen config init`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	return RunConfigInitWithDependencies(cfgFile, DefaultOutput)
}

// RunConfigInitWithDependencies runs the init command with injected dependencies
func RunConfigInitWithDependencies(configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists; edit it or use 'reelgen config set'", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Save(config.DefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", configPath)
	return nil
}
