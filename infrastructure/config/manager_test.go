package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	return NewManager(cfg, path)
}

func TestManagerGetSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "set ffmpeg path", key: "tools.ffmpeg_path", value: "/usr/local/bin/ffmpeg"},
		{name: "set workers", key: "pipeline.workers", value: "12"},
		{name: "key is case-insensitive", key: "Pipeline.Min_Clips", value: "2"},
		{name: "set folder id", key: "google.reels_folder_id", value: "abc123"},
		{name: "unknown key", key: "pipeline.nope", value: "1", wantErr: ErrUnknownKey},
		{name: "workers must be numeric", key: "pipeline.workers", value: "many", wantErr: ErrInvalidValue},
		{name: "workers must be positive", key: "pipeline.workers", value: "0", wantErr: ErrInvalidValue},
		{name: "output name cannot be blank", key: "pipeline.output_name", value: "  ", wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			err := m.Set(tt.key, tt.value)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Set(%q, %q) expected error, got nil", tt.key, tt.value)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Set() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			got, err := m.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestManagerSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	m := NewManager(cfg, path)
	if err := m.Set("pipeline.workers", "6"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if reloaded.Pipeline.Workers != 6 {
		t.Errorf("persisted Workers = %d, want 6", reloaded.Pipeline.Workers)
	}
}

func TestManagerGetUnknownKey(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Get("no.such.key")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get() error = %v, want ErrUnknownKey", err)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("Keys() returned nothing")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("Keys() not sorted: %s before %s", keys[i-1], keys[i])
		}
	}
}
