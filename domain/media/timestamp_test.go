package media

import (
	"errors"
	"testing"
	"time"
)

func TestParseCaptureTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "camera segment name",
			path: "REC_250301-093015.mp4",
			want: time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		},
		{
			name: "full path",
			path: "/footage/day2/GOPRO_231224-180000.MP4",
			want: time.Date(2023, 12, 24, 18, 0, 0, 0, time.UTC),
		},
		{
			name: "token in the middle of the name",
			path: "cam1_200101-000000_part3.mov",
			want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "no token",
			path:    "holiday.mp4",
			wantErr: true,
		},
		{
			name:    "date without underscore prefix",
			path:    "250301-093015.mp4",
			wantErr: true,
		},
		{
			name:    "month out of range",
			path:    "REC_251301-093015.mp4",
			wantErr: true,
		},
		{
			name:    "day out of range",
			path:    "REC_250232-093015.mp4",
			wantErr: true,
		},
		{
			name:    "hour out of range",
			path:    "REC_250301-250000.mp4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCaptureTimestamp(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCaptureTimestamp(%q) expected error, got %v", tt.path, got)
				}
				if !errors.Is(err, ErrNoCaptureTimestamp) {
					t.Errorf("ParseCaptureTimestamp(%q) error = %v, want ErrNoCaptureTimestamp", tt.path, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseCaptureTimestamp(%q) unexpected error: %v", tt.path, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCaptureTimestamp(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSourceInfoFrameInterval(t *testing.T) {
	info := SourceInfo{FrameRate: 25}
	if got, want := info.FrameInterval(0.5), 0.04; got != want {
		t.Errorf("FrameInterval() = %v, want %v", got, want)
	}

	unknown := SourceInfo{}
	if got, want := unknown.FrameInterval(0.5), 0.5; got != want {
		t.Errorf("FrameInterval() fallback = %v, want %v", got, want)
	}
}
