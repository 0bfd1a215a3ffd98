package timeline

import (
	"errors"
	"testing"
	"time"
)

func captured(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name        string
		clips       []SourceClip
		wantOrder   []string
		wantErr     error
		errContains string
	}{
		{
			name: "sorts by capture time",
			clips: []SourceClip{
				{Path: "/rec/b.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 10},
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 11:00:00"), Duration: 10},
				{Path: "/rec/c.mp4", CapturedAt: captured("2025-03-01 13:00:00"), Duration: 10},
			},
			wantOrder: []string{"/rec/a.mp4", "/rec/b.mp4", "/rec/c.mp4"},
		},
		{
			name: "equal timestamps break ties by path",
			clips: []SourceClip{
				{Path: "/rec/z.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 5},
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 5},
			},
			wantOrder: []string{"/rec/a.mp4", "/rec/z.mp4"},
		},
		{
			name:    "empty input",
			clips:   nil,
			wantErr: ErrEmptyCatalog,
		},
		{
			name: "zero duration",
			clips: []SourceClip{
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 0},
			},
			wantErr:     ErrInvalidSource,
			errContains: "non-positive duration",
		},
		{
			name: "negative duration",
			clips: []SourceClip{
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: -3},
			},
			wantErr: ErrInvalidSource,
		},
		{
			name: "missing capture timestamp",
			clips: []SourceClip{
				{Path: "/rec/a.mp4", Duration: 10},
			},
			wantErr:     ErrInvalidSource,
			errContains: "missing capture timestamp",
		},
		{
			name: "duplicate path",
			clips: []SourceClip{
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 10},
				{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 13:00:00"), Duration: 10},
			},
			wantErr:     ErrInvalidSource,
			errContains: "duplicate path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := NewCatalog(tt.clips)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("NewCatalog() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewCatalog() error = %v, want %v", err, tt.wantErr)
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("NewCatalog() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewCatalog() unexpected error: %v", err)
			}
			clips := cat.Clips()
			if len(clips) != len(tt.wantOrder) {
				t.Fatalf("NewCatalog() got %d clips, want %d", len(clips), len(tt.wantOrder))
			}
			for i, want := range tt.wantOrder {
				if clips[i].Path != want {
					t.Errorf("clip[%d].Path = %s, want %s", i, clips[i].Path, want)
				}
			}
		})
	}
}

func TestCatalogDoesNotMutateInput(t *testing.T) {
	clips := []SourceClip{
		{Path: "/rec/b.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 10},
		{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 11:00:00"), Duration: 10},
	}

	if _, err := NewCatalog(clips); err != nil {
		t.Fatalf("NewCatalog() unexpected error: %v", err)
	}

	if clips[0].Path != "/rec/b.mp4" {
		t.Errorf("input slice reordered: clips[0] = %s", clips[0].Path)
	}
}

func TestCatalogTotalDuration(t *testing.T) {
	cat, err := NewCatalog([]SourceClip{
		{Path: "/rec/a.mp4", CapturedAt: captured("2025-03-01 11:00:00"), Duration: 12.5},
		{Path: "/rec/b.mp4", CapturedAt: captured("2025-03-01 12:00:00"), Duration: 7.25},
	})
	if err != nil {
		t.Fatalf("NewCatalog() unexpected error: %v", err)
	}

	if got, want := cat.TotalDuration(), 19.75; got != want {
		t.Errorf("TotalDuration() = %v, want %v", got, want)
	}
	if got := cat.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
