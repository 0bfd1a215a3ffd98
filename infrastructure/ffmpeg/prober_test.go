package ffmpeg

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRunner struct {
	runCalls    [][]string
	outputCalls [][]string
	runErr      error
	output      []byte
	outputErr   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.runCalls = append(f.runCalls, append([]string{name}, args...))
	return f.runErr
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.outputCalls = append(f.outputCalls, append([]string{name}, args...))
	return f.output, f.outputErr
}

func TestProberProbe(t *testing.T) {
	tests := []struct {
		name           string
		json           string
		outputErr      error
		wantDuration   float64
		wantFrameRate  float64
		wantCapturedAt time.Time
		wantErr        bool
		errContains    string
	}{
		{
			name: "full metadata",
			json: `{
				"format": {
					"duration": "42.500000",
					"tags": {"creation_time": "2025-03-01T09:30:15.000000Z"}
				},
				"streams": [
					{"codec_type": "audio", "avg_frame_rate": "0/0", "r_frame_rate": "0/0"},
					{"codec_type": "video", "avg_frame_rate": "30000/1001", "r_frame_rate": "30/1"}
				]
			}`,
			wantDuration:   42.5,
			wantFrameRate:  30000.0 / 1001.0,
			wantCapturedAt: time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		},
		{
			name: "no creation time tag",
			json: `{
				"format": {"duration": "10.000000"},
				"streams": [{"codec_type": "video", "avg_frame_rate": "25/1", "r_frame_rate": "25/1"}]
			}`,
			wantDuration:  10,
			wantFrameRate: 25,
		},
		{
			name: "stream-level creation time fallback",
			json: `{
				"format": {"duration": "8.000000"},
				"streams": [
					{"codec_type": "video", "avg_frame_rate": "24/1", "r_frame_rate": "24/1",
					 "tags": {"creation_time": "2024-06-15T12:00:00Z"}}
				]
			}`,
			wantDuration:   8,
			wantFrameRate:  24,
			wantCapturedAt: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "degenerate avg rate falls back to r_frame_rate",
			json: `{
				"format": {"duration": "5.000000"},
				"streams": [{"codec_type": "video", "avg_frame_rate": "0/0", "r_frame_rate": "50/1"}]
			}`,
			wantDuration:  5,
			wantFrameRate: 50,
		},
		{
			name:        "missing duration",
			json:        `{"format": {}, "streams": []}`,
			wantErr:     true,
			errContains: "no duration",
		},
		{
			name:        "non-positive duration",
			json:        `{"format": {"duration": "0.000000"}, "streams": []}`,
			wantErr:     true,
			errContains: "non-positive duration",
		},
		{
			name:        "invalid JSON",
			json:        `not json`,
			wantErr:     true,
			errContains: "not valid JSON",
		},
		{
			name:        "ffprobe exits non-zero",
			outputErr:   errors.New("exit status 1"),
			wantErr:     true,
			errContains: "ffprobe failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: []byte(tt.json), outputErr: tt.outputErr}
			prober := NewProber(WithProberRunner(runner))

			info, err := prober.Probe(context.Background(), "/footage/REC_250301-093015.mp4")

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Probe() expected error, got nil")
				}
				if tt.errContains != "" && !containsStr(err.Error(), tt.errContains) {
					t.Errorf("Probe() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("Probe() unexpected error: %v", err)
			}
			if info.Duration != tt.wantDuration {
				t.Errorf("Duration = %v, want %v", info.Duration, tt.wantDuration)
			}
			if info.FrameRate != tt.wantFrameRate {
				t.Errorf("FrameRate = %v, want %v", info.FrameRate, tt.wantFrameRate)
			}
			if !info.CapturedAt.Equal(tt.wantCapturedAt) {
				t.Errorf("CapturedAt = %v, want %v", info.CapturedAt, tt.wantCapturedAt)
			}
		})
	}
}

func TestProberArgs(t *testing.T) {
	runner := &fakeRunner{output: []byte(`{"format": {"duration": "1.0"}, "streams": []}`)}
	prober := NewProber(WithFFprobePath("/opt/ffprobe"), WithProberRunner(runner))

	if _, err := prober.Probe(context.Background(), "/footage/a.mp4"); err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}

	if len(runner.outputCalls) != 1 {
		t.Fatalf("expected 1 ffprobe invocation, got %d", len(runner.outputCalls))
	}
	want := []string{"/opt/ffprobe", "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "/footage/a.mp4"}
	got := runner.outputCalls[0]
	if len(got) != len(want) {
		t.Fatalf("ffprobe args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ffprobe arg %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestProberVerifyInstalled(t *testing.T) {
	runner := &fakeRunner{outputErr: errors.New("executable not found")}
	prober := NewProber(WithProberRunner(runner))

	err := prober.VerifyInstalled(context.Background())
	if err == nil {
		t.Fatal("VerifyInstalled() expected error, got nil")
	}
	if !containsStr(err.Error(), "ffprobe not found") {
		t.Errorf("VerifyInstalled() error = %v, want mention of ffprobe", err)
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
