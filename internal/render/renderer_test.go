package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyreel/internal/logging"
	"storyreel/internal/media/ffprobe"
	"storyreel/internal/services"
	"storyreel/internal/testsupport"
)

func newTestRenderer(t *testing.T, backgroundDir string) *Renderer {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return New(cfg, backgroundDir, logging.NewNop())
}

func stubProbe(t *testing.T, duration string) {
	t.Helper()
	original := probeAudio
	probeAudio = func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "audio"}},
			Format:  ffprobe.Format{Duration: duration},
		}, nil
	}
	t.Cleanup(func() { probeAudio = original })
}

func TestRenderInvokesFFmpeg(t *testing.T) {
	stubProbe(t, "4.2")
	dir := t.TempDir()
	bgDir := filepath.Join(dir, "bg")
	testsupport.WriteFile(t, filepath.Join(bgDir, "clouds.mp4"), 10)
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)
	subs := filepath.Join(dir, "subtitles.ass")
	testsupport.WriteFile(t, subs, 32)
	output := filepath.Join(dir, "final_video.mp4")

	r := newTestRenderer(t, bgDir)
	var gotArgs []string
	r.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(output, []byte("mp4"), 0o644)
	})

	if err := r.Render(context.Background(), audio, subs, output, Options{}); err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(gotArgs, " ")
	for _, fragment := range []string{
		filepath.Join(bgDir, "clouds.mp4"),
		"-stream_loop -1",
		"ass=",
		"-t 4.200",
		"-shortest",
		output,
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("args missing %q: %s", fragment, joined)
		}
	}
}

func TestRenderFallsBackToSolidBackground(t *testing.T) {
	stubProbe(t, "2")
	dir := t.TempDir()
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)
	output := filepath.Join(dir, "final_video.mp4")

	r := newTestRenderer(t, filepath.Join(dir, "no-such-folder"))
	var gotArgs []string
	r.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(output, []byte("mp4"), 0o644)
	})

	if err := r.Render(context.Background(), audio, "", output, Options{}); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "color=c=black") {
		t.Fatalf("expected lavfi color source: %s", joined)
	}
	if strings.Contains(joined, "ass=") {
		t.Fatalf("empty subtitles path must not burn subtitles: %s", joined)
	}
}

func TestRenderFailureIsRenderError(t *testing.T) {
	stubProbe(t, "2")
	dir := t.TempDir()
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)

	r := newTestRenderer(t, dir)
	boom := errors.New("encoder exploded")
	r.WithCommandRunner(func(context.Context, string, ...string) error { return boom })

	err := r.Render(context.Background(), audio, "", filepath.Join(dir, "out.mp4"), Options{})
	if !errors.Is(err, services.ErrRender) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped render error, got %v", err)
	}
}

func TestRenderRejectsAudioWithoutStream(t *testing.T) {
	original := probeAudio
	probeAudio = func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Format: ffprobe.Format{Duration: "2"}}, nil
	}
	t.Cleanup(func() { probeAudio = original })

	dir := t.TempDir()
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)

	r := newTestRenderer(t, dir)
	r.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("ffmpeg must not run without an audio stream")
		return nil
	})

	err := r.Render(context.Background(), audio, "", filepath.Join(dir, "out.mp4"), Options{})
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "no audio stream") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderRejectsMissingAudio(t *testing.T) {
	r := newTestRenderer(t, t.TempDir())
	err := r.Render(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "", "out.mp4", Options{})
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRenderEmptyOutputFails(t *testing.T) {
	stubProbe(t, "2")
	dir := t.TempDir()
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)

	r := newTestRenderer(t, dir)
	r.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	err := r.Render(context.Background(), audio, "", filepath.Join(dir, "out.mp4"), Options{})
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected render error for empty output, got %v", err)
	}
}

func TestRenderConcatsIntroAndOutro(t *testing.T) {
	stubProbe(t, "2")
	dir := t.TempDir()
	audio := filepath.Join(dir, "voiceover.wav")
	testsupport.WriteFile(t, audio, 64)
	intro := filepath.Join(dir, "intro.mp4")
	outro := filepath.Join(dir, "outro.mp4")
	testsupport.WriteFile(t, intro, 10)
	testsupport.WriteFile(t, outro, 10)
	output := filepath.Join(dir, "final_video.mp4")

	r := newTestRenderer(t, dir)
	var invocations [][]string
	r.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		invocations = append(invocations, args)
		return os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
	})

	if err := r.Render(context.Background(), audio, "", output, Options{Intro: intro, Outro: outro}); err != nil {
		t.Fatal(err)
	}
	if len(invocations) != 2 {
		t.Fatalf("expected compose + concat, got %d invocations", len(invocations))
	}
	concatArgs := strings.Join(invocations[1], " ")
	if !strings.Contains(concatArgs, "-f concat") || !strings.Contains(concatArgs, "-c copy") {
		t.Fatalf("unexpected concat args: %s", concatArgs)
	}
}

func TestBuildFilterGraphModes(t *testing.T) {
	r := newTestRenderer(t, t.TempDir())

	cropFill := r.buildFilterGraph("", false, Options{})
	if !strings.Contains(cropFill, "crop=1080:1920") {
		t.Fatalf("default mode should crop to fill: %s", cropFill)
	}

	cropSafe := r.buildFilterGraph("", false, Options{CropSafe: true})
	if !strings.Contains(cropSafe, "pad=1080:1920") {
		t.Fatalf("crop-safe mode should pad: %s", cropSafe)
	}

	overlay := r.buildFilterGraph("", false, Options{OverlayText: "my title"})
	if !strings.Contains(overlay, "drawtext=text='my title'") {
		t.Fatalf("overlay text missing: %s", overlay)
	}
}

func TestBuildFilterGraphWatermark(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Watermark.Enabled = true
	cfg.Watermark.Path = "/assets/wm.png"
	cfg.Watermark.Opacity = 0.5
	r := New(cfg, t.TempDir(), logging.NewNop())

	graph := r.buildFilterGraph("", true, Options{})
	if !strings.Contains(graph, "colorchannelmixer=aa=0.50") || !strings.Contains(graph, "overlay=") {
		t.Fatalf("watermark chain missing: %s", graph)
	}
}

func TestPickBackground(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "b.mp4"), 1)
	testsupport.WriteFile(t, filepath.Join(dir, "a.mov"), 1)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 1)

	if got := pickBackground(dir); got != filepath.Join(dir, "a.mov") {
		t.Fatalf("pickBackground = %q", got)
	}
	if got := pickBackground(filepath.Join(dir, "missing")); got != "" {
		t.Fatalf("missing dir should yield empty pick, got %q", got)
	}
}

func TestParseResolution(t *testing.T) {
	if w, h := parseResolution("720x1280"); w != 720 || h != 1280 {
		t.Fatalf("parseResolution = %dx%d", w, h)
	}
	if w, h := parseResolution("garbage"); w != 1080 || h != 1920 {
		t.Fatalf("fallback resolution = %dx%d", w, h)
	}
}
