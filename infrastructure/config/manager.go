package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Manager provides key-based read/write access to config entries for the
// config subcommands. Every successful Set persists the file.
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new config manager
func NewManager(cfg *Config, configPath string) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
	}
}

// entry binds a dotted key to its accessors.
type entry struct {
	get func(*Config) string
	set func(*Config, string) error
}

func intSetter(assign func(*Config, int)) func(*Config, string) error {
	return func(c *Config, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %q is not a positive integer", ErrInvalidValue, raw)
		}
		assign(c, n)
		return nil
	}
}

func stringSetter(assign func(*Config, string)) func(*Config, string) error {
	return func(c *Config, raw string) error {
		assign(c, raw)
		return nil
	}
}

var entries = map[string]entry{
	"tools.ffmpeg_path": {
		get: func(c *Config) string { return c.Tools.FFmpegPath },
		set: stringSetter(func(c *Config, v string) { c.Tools.FFmpegPath = v }),
	},
	"tools.ffprobe_path": {
		get: func(c *Config) string { return c.Tools.FFprobePath },
		set: stringSetter(func(c *Config, v string) { c.Tools.FFprobePath = v }),
	},
	"pipeline.workers": {
		get: func(c *Config) string { return strconv.Itoa(c.Pipeline.Workers) },
		set: intSetter(func(c *Config, n int) { c.Pipeline.Workers = n }),
	},
	"pipeline.retry_budget": {
		get: func(c *Config) string { return strconv.Itoa(c.Pipeline.RetryBudget) },
		set: intSetter(func(c *Config, n int) { c.Pipeline.RetryBudget = n }),
	},
	"pipeline.min_clips": {
		get: func(c *Config) string { return strconv.Itoa(c.Pipeline.MinClips) },
		set: intSetter(func(c *Config, n int) { c.Pipeline.MinClips = n }),
	},
	"pipeline.output_name": {
		get: func(c *Config) string { return c.Pipeline.OutputName },
		set: func(c *Config, raw string) error {
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("%w: output name cannot be empty", ErrInvalidValue)
			}
			c.Pipeline.OutputName = raw
			return nil
		},
	},
	"google.credentials_file": {
		get: func(c *Config) string { return c.Google.CredentialsFile },
		set: stringSetter(func(c *Config, v string) { c.Google.CredentialsFile = v }),
	},
	"google.token_file": {
		get: func(c *Config) string { return c.Google.TokenFile },
		set: stringSetter(func(c *Config, v string) { c.Google.TokenFile = v }),
	},
	"google.reels_folder_id": {
		get: func(c *Config) string { return c.Google.ReelsFolderID },
		set: stringSetter(func(c *Config, v string) { c.Google.ReelsFolderID = v }),
	},
}

// Keys returns all known config keys sorted alphabetically.
func Keys() []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a config key
func (m *Manager) Get(key string) (string, error) {
	e, ok := entries[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return e.get(m.config), nil
}

// Set updates a config key and persists the file
func (m *Manager) Set(key, value string) error {
	e, ok := entries[normalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := e.set(m.config, value); err != nil {
		return err
	}
	return Save(m.config, m.configPath)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
