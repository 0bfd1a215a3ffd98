package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssemblerAssemble(t *testing.T) {
	work := t.TempDir()
	clips := []string{
		filepath.Join(work, "clip_000.mp4"),
		filepath.Join(work, "clip_001.mp4"),
		filepath.Join(work, "clip_002.mp4"),
	}

	runner := &fakeRunner{}
	assembler := NewAssembler(WithAssemblerFFmpegPath("/usr/bin/ffmpeg"), WithAssemblerRunner(runner))

	out := filepath.Join(work, "output.mp4")
	if err := assembler.Assemble(context.Background(), clips, out); err != nil {
		t.Fatalf("Assemble() unexpected error: %v", err)
	}

	listPath := filepath.Join(work, "concat_list.txt")
	content, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("concat list not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("concat list has %d lines, want 3", len(lines))
	}
	for i, clip := range clips {
		want := "file '" + clip + "'"
		if lines[i] != want {
			t.Errorf("concat list line %d = %q, want %q", i, lines[i], want)
		}
	}

	if len(runner.runCalls) != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", len(runner.runCalls))
	}
	args := runner.runCalls[0]
	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-f concat",
		"-safe 0",
		"-i " + listPath,
		"-c:v libx264",
		"-c:a aac",
		"-movflags +faststart",
		"-y " + out,
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("ffmpeg args missing %q: %s", fragment, joined)
		}
	}
}

func TestAssemblerEscapesQuotes(t *testing.T) {
	work := t.TempDir()
	clip := filepath.Join(work, "it's_a_clip.mp4")

	runner := &fakeRunner{}
	assembler := NewAssembler(WithAssemblerRunner(runner))

	if err := assembler.Assemble(context.Background(), []string{clip}, filepath.Join(work, "out.mp4")); err != nil {
		t.Fatalf("Assemble() unexpected error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(work, "concat_list.txt"))
	if err != nil {
		t.Fatalf("concat list not written: %v", err)
	}
	if !strings.Contains(string(content), `it'\''s_a_clip.mp4`) {
		t.Errorf("single quote not escaped in concat list: %s", content)
	}
}

func TestAssemblerNoClips(t *testing.T) {
	assembler := NewAssembler(WithAssemblerRunner(&fakeRunner{}))

	err := assembler.Assemble(context.Background(), nil, "/tmp/out.mp4")
	if err == nil {
		t.Fatal("Assemble() expected error for empty clip list, got nil")
	}
	if !containsStr(err.Error(), "no clips") {
		t.Errorf("Assemble() error = %v, want mention of no clips", err)
	}
}

func TestAssemblerConcatError(t *testing.T) {
	work := t.TempDir()
	runner := &fakeRunner{runErr: errors.New("exit status 1")}
	assembler := NewAssembler(WithAssemblerRunner(runner))

	err := assembler.Assemble(context.Background(), []string{filepath.Join(work, "clip_000.mp4")}, filepath.Join(work, "out.mp4"))
	if err == nil {
		t.Fatal("Assemble() expected error, got nil")
	}
	if !containsStr(err.Error(), "ffmpeg concat failed") {
		t.Errorf("Assemble() error = %v, want wrapped concat failure", err)
	}
}
