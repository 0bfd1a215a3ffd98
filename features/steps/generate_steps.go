//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reelgen/application/highlight"
	"reelgen/cmd"
	"reelgen/domain/media"

	"github.com/cucumber/godog"
)

// mockFootageScanner lists pre-registered footage files
type mockFootageScanner struct {
	paths []string
}

func (m *mockFootageScanner) ScanDirectory(dir string) ([]string, error) {
	return append([]string(nil), m.paths...), nil
}

func (m *mockFootageScanner) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m *mockFootageScanner) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// mockClipCutter writes placeholder clip files and records every cut
type mockClipCutter struct {
	mu    sync.Mutex
	calls []clipCut
}

type clipCut struct {
	source   string
	offset   float64
	duration float64
	output   string
}

func (m *mockClipCutter) Cut(ctx context.Context, sourcePath string, offset, duration float64, outputPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, clipCut{source: sourcePath, offset: offset, duration: duration, output: outputPath})
	return os.WriteFile(outputPath, []byte("clip"), 0644)
}

func (m *mockClipCutter) VerifyInstalled(ctx context.Context) error { return nil }

func (m *mockClipCutter) durationOf(path string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.output == path {
			return call.duration
		}
	}
	return 0
}

func (m *mockClipCutter) sortedCalls() []clipCut {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := append([]clipCut(nil), m.calls...)
	sort.Slice(calls, func(i, j int) bool { return calls[i].output < calls[j].output })
	return calls
}

// mockFootageProber serves durations for sources, extracted clips, and the
// assembled reel
type mockFootageProber struct {
	mu        sync.Mutex
	infos     map[string]media.SourceInfo
	failing   map[string]bool
	cutter    *mockClipCutter
	assembler *mockReelAssembler
}

func (m *mockFootageProber) Probe(ctx context.Context, path string) (media.SourceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[filepath.Base(path)] {
		return media.SourceInfo{}, fmt.Errorf("moov atom not found")
	}
	if info, ok := m.infos[path]; ok {
		return info, nil
	}
	if m.assembler != nil && path == m.assembler.output {
		var total float64
		for _, clip := range m.assembler.clips {
			total += m.cutter.durationOf(clip)
		}
		return media.SourceInfo{Duration: total, FrameRate: 30}, nil
	}
	// Extracted clip: report exactly the duration that was cut
	return media.SourceInfo{Duration: m.cutter.durationOf(path), FrameRate: 30}, nil
}

func (m *mockFootageProber) VerifyInstalled(ctx context.Context) error { return nil }

// mockReelAssembler records the clip list and writes a placeholder reel
type mockReelAssembler struct {
	clips  []string
	output string
}

func (m *mockReelAssembler) Assemble(ctx context.Context, clipPaths []string, outputPath string) error {
	m.clips = append([]string(nil), clipPaths...)
	m.output = outputPath
	return os.WriteFile(outputPath, []byte("reel"), 0644)
}

func (m *mockReelAssembler) VerifyInstalled(ctx context.Context) error { return nil }

type mockFrameChecker struct{}

func (m *mockFrameChecker) CheckDecodable(ctx context.Context, path string) error { return nil }

// generateContext holds test state for generate scenarios
type generateContext struct {
	tempDir    string
	outputPath string
	scanner    *mockFootageScanner
	prober     *mockFootageProber
	cutter     *mockClipCutter
	assembler  *mockReelAssembler
	output     *bytes.Buffer
	err        error
	firstCuts  []clipCut
	sample     float64
	total      float64
	seed       int64
	seedSet    bool
}

// SharedGenerateContext is reset before each scenario via Before hook
var SharedGenerateContext *generateContext

func getGenerateContext() *generateContext {
	return SharedGenerateContext
}

func InitializeGenerateScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "generate-test-*")
		if err != nil {
			return c, err
		}
		cutter := &mockClipCutter{}
		assembler := &mockReelAssembler{}
		SharedGenerateContext = &generateContext{
			tempDir:    tempDir,
			outputPath: filepath.Join(tempDir, "reel.mp4"),
			scanner:    &mockFootageScanner{},
			prober: &mockFootageProber{
				infos:     make(map[string]media.SourceInfo),
				failing:   make(map[string]bool),
				cutter:    cutter,
				assembler: assembler,
			},
			cutter:    cutter,
			assembler: assembler,
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedGenerateContext != nil && SharedGenerateContext.tempDir != "" {
			os.RemoveAll(SharedGenerateContext.tempDir)
		}
		SharedGenerateContext = nil
		return c, nil
	})

	ctx.Step(`^a footage directory with (\d+) clips of (\d+) seconds each$`, aFootageDirectoryWithClips)
	ctx.Step(`^the file "([^"]*)" cannot be probed$`, theFileCannotBeProbed)
	ctx.Step(`^I generate a reel with (\d+) second samples totalling (\d+) seconds$`, iGenerateAReel)
	ctx.Step(`^I generate a reel with (\d+) second samples totalling (\d+) seconds and seed (\d+)$`, iGenerateAReelWithSeed)
	ctx.Step(`^I generate the reel again with the same settings$`, iGenerateTheReelAgain)
	ctx.Step(`^I attempt to generate a reel with (\d+) second samples totalling (\d+) seconds$`, iAttemptToGenerateAReel)
	ctx.Step(`^the reel should contain (\d+) clips$`, theReelShouldContainClips)
	ctx.Step(`^every cut should be (\d+) seconds long$`, everyCutShouldBeSecondsLong)
	ctx.Step(`^no cut should come from "([^"]*)"$`, noCutShouldComeFrom)
	ctx.Step(`^no cuts should have been made$`, noCutsShouldHaveBeenMade)
	ctx.Step(`^the reel file should exist$`, theReelFileShouldExist)
	ctx.Step(`^both runs should produce identical cuts$`, bothRunsShouldProduceIdenticalCuts)
	ctx.Step(`^the generate output should mention "([^"]*)"$`, theGenerateOutputShouldMention)
	ctx.Step(`^I should receive a generate error containing "([^"]*)"$`, iShouldReceiveAGenerateErrorContaining)
}

func aFootageDirectoryWithClips(count, seconds int) error {
	g := getGenerateContext()

	capturedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		path := filepath.Join(g.tempDir, fmt.Sprintf("rec_%02d.mp4", i))
		if err := os.WriteFile(path, []byte("source"), 0644); err != nil {
			return err
		}
		g.scanner.paths = append(g.scanner.paths, path)
		g.prober.infos[path] = media.SourceInfo{
			Duration:   float64(seconds),
			FrameRate:  30,
			CapturedAt: capturedAt,
		}
		capturedAt = capturedAt.Add(time.Duration(seconds)*time.Second + time.Minute)
	}
	return nil
}

func theFileCannotBeProbed(name string) error {
	g := getGenerateContext()
	g.prober.failing[name] = true
	return nil
}

func (g *generateContext) runGenerate(ctx context.Context) error {
	input := highlight.Input{
		SourceDir:     g.tempDir,
		SampleSeconds: g.sample,
		TotalSeconds:  g.total,
		OutputPath:    g.outputPath,
		Seed:          g.seed,
		SeedSet:       g.seedSet,
		Workers:       3,
		MinClips:      1,
	}
	return cmd.RunGenerateWithDependencies(
		ctx,
		g.scanner,
		g.prober,
		g.cutter,
		g.assembler,
		&mockFrameChecker{},
		input,
		g.output,
	)
}

func iGenerateAReel(sample, total int) error {
	g := getGenerateContext()
	g.sample = float64(sample)
	g.total = float64(total)

	g.err = g.runGenerate(context.Background())
	if g.err != nil {
		return fmt.Errorf("generate failed: %w", g.err)
	}
	return nil
}

func iGenerateAReelWithSeed(sample, total, seed int) error {
	g := getGenerateContext()
	g.sample = float64(sample)
	g.total = float64(total)
	g.seed = int64(seed)
	g.seedSet = true

	g.err = g.runGenerate(context.Background())
	if g.err != nil {
		return fmt.Errorf("generate failed: %w", g.err)
	}
	g.firstCuts = g.cutter.sortedCalls()
	return nil
}

func iGenerateTheReelAgain() error {
	g := getGenerateContext()

	// Fresh recorders, same footage and seed
	cutter := &mockClipCutter{}
	assembler := &mockReelAssembler{}
	g.cutter = cutter
	g.assembler = assembler
	g.prober.cutter = cutter
	g.prober.assembler = assembler

	g.err = g.runGenerate(context.Background())
	if g.err != nil {
		return fmt.Errorf("generate failed: %w", g.err)
	}
	return nil
}

func iAttemptToGenerateAReel(sample, total int) error {
	g := getGenerateContext()
	g.sample = float64(sample)
	g.total = float64(total)

	g.err = g.runGenerate(context.Background())
	return nil
}

func theReelShouldContainClips(count int) error {
	g := getGenerateContext()
	if len(g.assembler.clips) != count {
		return fmt.Errorf("expected %d clips in the reel, got %d: %v", count, len(g.assembler.clips), g.assembler.clips)
	}
	return nil
}

func everyCutShouldBeSecondsLong(seconds int) error {
	g := getGenerateContext()
	for _, call := range g.cutter.sortedCalls() {
		if call.duration != float64(seconds) {
			return fmt.Errorf("cut from %s has duration %g, expected %d", filepath.Base(call.source), call.duration, seconds)
		}
	}
	return nil
}

func noCutShouldComeFrom(name string) error {
	g := getGenerateContext()
	for _, call := range g.cutter.sortedCalls() {
		if filepath.Base(call.source) == name {
			return fmt.Errorf("found a cut from %s at offset %g", name, call.offset)
		}
	}
	return nil
}

func noCutsShouldHaveBeenMade() error {
	g := getGenerateContext()
	if calls := g.cutter.sortedCalls(); len(calls) != 0 {
		return fmt.Errorf("expected no cuts, got %d", len(calls))
	}
	return nil
}

func theReelFileShouldExist() error {
	g := getGenerateContext()
	if _, err := os.Stat(g.outputPath); err != nil {
		return fmt.Errorf("reel file missing at %s: %w", g.outputPath, err)
	}
	return nil
}

func bothRunsShouldProduceIdenticalCuts() error {
	g := getGenerateContext()
	second := g.cutter.sortedCalls()

	if len(g.firstCuts) == 0 {
		return fmt.Errorf("no cuts recorded for the first run")
	}
	if len(second) != len(g.firstCuts) {
		return fmt.Errorf("first run made %d cuts, second made %d", len(g.firstCuts), len(second))
	}
	for i := range second {
		a, b := g.firstCuts[i], second[i]
		if filepath.Base(a.source) != filepath.Base(b.source) || a.offset != b.offset || a.duration != b.duration {
			return fmt.Errorf("cut %d differs: %s@%g vs %s@%g",
				i+1, filepath.Base(a.source), a.offset, filepath.Base(b.source), b.offset)
		}
	}
	return nil
}

func theGenerateOutputShouldMention(expected string) error {
	g := getGenerateContext()
	if !strings.Contains(g.output.String(), expected) {
		return fmt.Errorf("output does not mention %q:\n%s", expected, g.output.String())
	}
	return nil
}

func iShouldReceiveAGenerateErrorContaining(expected string) error {
	g := getGenerateContext()
	if g.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(g.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, g.err)
	}
	return nil
}
