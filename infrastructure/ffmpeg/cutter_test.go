package ffmpeg

import (
	"context"
	"errors"
	"testing"
)

func TestCutterCut(t *testing.T) {
	runner := &fakeRunner{}
	cutter := NewCutter(WithFFmpegPath("/usr/bin/ffmpeg"), WithCommandRunner(runner))

	err := cutter.Cut(context.Background(), "/footage/REC_250301-093015.mp4", 12.5, 5, "/tmp/work/clip_003.mp4")
	if err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	if len(runner.runCalls) != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", len(runner.runCalls))
	}
	want := []string{
		"/usr/bin/ffmpeg",
		"-ss", "12.500",
		"-i", "/footage/REC_250301-093015.mp4",
		"-t", "5.000",
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"-y",
		"/tmp/work/clip_003.mp4",
	}
	got := runner.runCalls[0]
	if len(got) != len(want) {
		t.Fatalf("ffmpeg args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ffmpeg arg %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCutterCutSubsecondPrecision(t *testing.T) {
	runner := &fakeRunner{}
	cutter := NewCutter(WithCommandRunner(runner))

	if err := cutter.Cut(context.Background(), "/a.mp4", 0.125, 2.25, "/out.mp4"); err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	args := runner.runCalls[0]
	if args[2] != "0.125" {
		t.Errorf("offset formatted as %s, want 0.125", args[2])
	}
	if args[6] != "2.250" {
		t.Errorf("duration formatted as %s, want 2.250", args[6])
	}
}

func TestCutterCutError(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("exit status 1")}
	cutter := NewCutter(WithCommandRunner(runner))

	err := cutter.Cut(context.Background(), "/footage/a.mp4", 1, 2, "/out.mp4")
	if err == nil {
		t.Fatal("Cut() expected error, got nil")
	}
	if !containsStr(err.Error(), "ffmpeg cut failed") {
		t.Errorf("Cut() error = %v, want wrapped cut failure", err)
	}
}

func TestCutterVerifyInstalled(t *testing.T) {
	runner := &fakeRunner{output: []byte("ffmpeg version 6.1")}
	cutter := NewCutter(WithCommandRunner(runner))

	if err := cutter.VerifyInstalled(context.Background()); err != nil {
		t.Fatalf("VerifyInstalled() unexpected error: %v", err)
	}
	if got := runner.outputCalls[0][1]; got != "-version" {
		t.Errorf("VerifyInstalled() called with %s, want -version", got)
	}
}
