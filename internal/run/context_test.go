package run_test

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storyreel/internal/config"
	"storyreel/internal/run"
)

func testInputs(t *testing.T) run.Inputs {
	t.Helper()
	return run.Inputs{
		ScriptText:    "hello world",
		ScriptName:    "cli",
		VoiceEngine:   "piper",
		VoiceID:       "en_US-amy",
		SubtitleStyle: "default",
		OutputRoot:    t.TempDir(),
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewDerivesPathsInsideOutputDir(t *testing.T) {
	inputs := testInputs(t)
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	ctx, err := run.New(inputs, now)
	if err != nil {
		t.Fatal(err)
	}
	defer finalizeQuietly(t, ctx)

	if ctx.Name != "session" {
		t.Fatalf("cli script name should become session, got %q", ctx.Name)
	}
	wantDir := filepath.Join(inputs.OutputRoot, "session_20260314_092653")
	if ctx.OutputDir != wantDir {
		t.Fatalf("output dir = %q, want %q", ctx.OutputDir, wantDir)
	}
	for _, path := range []string{ctx.VoiceoverPath, ctx.SubtitlesPath, ctx.FinalVideoPath, ctx.LogPath} {
		if filepath.Dir(path) != ctx.OutputDir {
			t.Fatalf("artifact %q escapes output dir %q", path, ctx.OutputDir)
		}
	}
	if ctx.Status() != run.StatusPending {
		t.Fatalf("new context status = %q", ctx.Status())
	}
	if _, err := os.Stat(ctx.OutputDir); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestNewExplicitOutputOverridesLayout(t *testing.T) {
	inputs := testInputs(t)
	inputs.ScriptName = "My Story"
	inputs.OutputPath = filepath.Join(t.TempDir(), "custom", "clip.mp4")

	ctx, err := run.New(inputs, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	defer finalizeQuietly(t, ctx)

	if ctx.FinalVideoPath != inputs.OutputPath {
		t.Fatalf("final video = %q, want %q", ctx.FinalVideoPath, inputs.OutputPath)
	}
	if ctx.OutputDir != filepath.Dir(inputs.OutputPath) {
		t.Fatalf("output dir = %q", ctx.OutputDir)
	}
	if ctx.Name != "my_story" {
		t.Fatalf("name = %q", ctx.Name)
	}
}

func TestNewRejectsLockedDirectory(t *testing.T) {
	inputs := testInputs(t)
	inputs.OutputPath = filepath.Join(t.TempDir(), "out", "video.mp4")

	first, err := run.New(inputs, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	defer finalizeQuietly(t, first)

	if _, err := run.New(inputs, time.Now()); err == nil {
		t.Fatal("expected second run on same directory to fail")
	}
}

func TestFinalizeWritesArtifacts(t *testing.T) {
	ctx, err := run.New(testInputs(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ctx.VoiceoverPath, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx.AddWarning("developer mode: placeholder subtitles")

	if err := ctx.Finalize(run.StatusSuccess, 12*time.Second, testConfig(t)); err != nil {
		t.Fatal(err)
	}
	if ctx.Status() != run.StatusSuccess {
		t.Fatalf("status = %q", ctx.Status())
	}

	data, err := os.ReadFile(filepath.Join(ctx.OutputDir, "run_summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var summary run.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatal(err)
	}
	if !summary.Success {
		t.Fatal("summary should report success")
	}
	if summary.Voice != "Piper" {
		t.Fatalf("voice = %q, want capitalized engine", summary.Voice)
	}
	if summary.Duration != "12s" {
		t.Fatalf("duration = %q", summary.Duration)
	}

	for _, name := range []string{"metadata.json", "summary.txt", "config_snapshot.toml", "artifacts.zip"} {
		if _, err := os.Stat(filepath.Join(ctx.OutputDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	readable, err := os.ReadFile(filepath.Join(ctx.OutputDir, "summary.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(readable), "placeholder subtitles") {
		t.Fatalf("summary.txt missing warning: %q", readable)
	}

	zr, err := zip.OpenReader(filepath.Join(ctx.OutputDir, "artifacts.zip"))
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	found := false
	for _, f := range zr.File {
		if f.Name == "voiceover.wav" {
			found = true
		}
		if f.Name == "artifacts.zip" {
			t.Fatal("archive contains itself")
		}
	}
	if !found {
		t.Fatal("archive missing voiceover artifact")
	}
}

func TestFinalizeAfterFailureRecordsError(t *testing.T) {
	ctx, err := run.New(testInputs(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("synthesis exploded")
	ctx.RecordError(boom)
	if err := ctx.Finalize(run.StatusFailed, time.Second, testConfig(t)); err != nil {
		t.Fatal(err)
	}
	if ctx.Status() != run.StatusFailed {
		t.Fatalf("status = %q", ctx.Status())
	}

	trace, err := os.ReadFile(filepath.Join(ctx.OutputDir, "error_trace.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(trace), "synthesis exploded") {
		t.Fatalf("trace missing error: %q", trace)
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	ctx, err := run.New(testInputs(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Finalize(run.StatusFailed, time.Second, testConfig(t)); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Finalize(run.StatusSuccess, time.Second, testConfig(t)); err != nil {
		t.Fatal(err)
	}
	if ctx.Status() != run.StatusFailed {
		t.Fatal("status must never be reversed after finalization")
	}
}

func TestRecordErrorWithNilIsNoop(t *testing.T) {
	ctx, err := run.New(testInputs(t), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	defer finalizeQuietly(t, ctx)

	ctx.RecordError(nil)
	if _, err := os.Stat(filepath.Join(ctx.OutputDir, "error_trace.txt")); !os.IsNotExist(err) {
		t.Fatal("error trace should not exist")
	}
}

func finalizeQuietly(t *testing.T, ctx *run.Context) {
	t.Helper()
	if err := ctx.Finalize(run.StatusFailed, 0, nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}
