package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/fileutil"
	"storyreel/internal/logging"
	"storyreel/internal/media/ffprobe"
	"storyreel/internal/services"
)

var probeAudio = ffprobe.Inspect

// Options carries the per-run knobs of a render.
type Options struct {
	Intro       string
	Outro       string
	CropSafe    bool
	OverlayText string
}

// Renderer drives ffmpeg to produce the final video.
type Renderer struct {
	backgroundDir    string
	watermarkPath    string
	watermarkOpacity float64
	width            int
	height           int
	ffmpegBinary     string
	ffprobeBinary    string
	logger           *slog.Logger
	runner           func(ctx context.Context, name string, args ...string) error
}

// New builds a Renderer. backgroundDir is the already-resolved background
// folder for this run's requested style.
func New(cfg *config.Config, backgroundDir string, logger *slog.Logger) *Renderer {
	width, height := parseResolution(cfg.Render.Resolution)
	return &Renderer{
		backgroundDir:    backgroundDir,
		watermarkPath:    cfg.WatermarkPath(),
		watermarkOpacity: cfg.Watermark.Opacity,
		width:            width,
		height:           height,
		ffmpegBinary:     cfg.Render.FFmpegBinary,
		ffprobeBinary:    cfg.Render.FFprobeBinary,
		logger:           logging.WithComponent(logger, "render"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.runner = runner
}

// Render composes the final video at outputPath from the narration audio and
// an optional subtitle artifact. A missing or empty subtitlesPath skips the
// burn-in. Failure is always fatal to the run; there is no synthetic video
// substitute.
func (r *Renderer) Render(ctx context.Context, audioPath, subtitlesPath, outputPath string, opts Options) error {
	if !fileutil.NonEmptyFile(audioPath) {
		return services.Wrap(services.ErrRender, "render", "compose",
			fmt.Sprintf("narration audio missing or empty: %s", audioPath), nil)
	}

	var duration float64
	if probed, err := probeAudio(ctx, r.ffprobeBinary, audioPath); err != nil {
		r.logger.Warn("audio probe failed; relying on -shortest", logging.Error(err))
	} else {
		if probed.AudioStreamCount() == 0 {
			return services.Wrap(services.ErrRender, "render", "compose",
				fmt.Sprintf("no audio stream in narration file %s", audioPath), nil)
		}
		duration = probed.DurationSeconds()
	}

	background := pickBackground(r.backgroundDir)
	if background == "" {
		r.logger.Warn("no background clips found; using solid background",
			logging.String("background_dir", r.backgroundDir))
	}

	mainOutput := outputPath
	needsConcat := opts.Intro != "" || opts.Outro != ""
	if needsConcat {
		mainOutput = filepath.Join(filepath.Dir(outputPath), "main_segment.mp4")
		defer os.Remove(mainOutput)
	}

	args := r.buildComposeArgs(background, audioPath, subtitlesPath, mainOutput, duration, opts)
	r.logger.Info("rendering video",
		logging.String("background", background),
		logging.String("output", outputPath),
		logging.Float64("audio_seconds", duration),
	)
	if err := r.run(ctx, r.ffmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrRender, "render", "compose", "ffmpeg failed", err)
	}

	if needsConcat {
		if err := r.concat(ctx, opts.Intro, mainOutput, opts.Outro, outputPath); err != nil {
			return err
		}
	}

	if !fileutil.NonEmptyFile(outputPath) {
		return services.Wrap(services.ErrRender, "render", "compose",
			fmt.Sprintf("ffmpeg produced no output at %s", outputPath), nil)
	}
	return nil
}

// buildComposeArgs assembles the single-pass ffmpeg invocation: background
// (looped clip or solid color), scaled and cropped or padded to the target
// resolution, subtitles burned in, optional overlays, narration as the audio
// track.
func (r *Renderer) buildComposeArgs(background, audioPath, subtitlesPath, outputPath string, duration float64, opts Options) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}

	if background != "" {
		args = append(args, "-stream_loop", "-1", "-i", background)
	} else {
		args = append(args, "-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%dx%d:r=30", r.width, r.height))
	}
	args = append(args, "-i", audioPath)
	withWatermark := r.watermarkPath != ""
	if withWatermark {
		args = append(args, "-i", r.watermarkPath)
	}

	args = append(args, "-filter_complex", r.buildFilterGraph(subtitlesPath, withWatermark, opts))
	args = append(args, "-map", "[vout]", "-map", "1:a")
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
	)
	if duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", duration))
	}
	return append(args, outputPath)
}

func (r *Renderer) buildFilterGraph(subtitlesPath string, withWatermark bool, opts Options) string {
	var fit string
	if opts.CropSafe {
		fit = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			r.width, r.height, r.width, r.height)
	} else {
		fit = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
			r.width, r.height, r.width, r.height)
	}

	filters := []string{fit}
	if strings.TrimSpace(subtitlesPath) != "" && fileutil.NonEmptyFile(subtitlesPath) {
		filters = append(filters, "ass="+escapeFilterPath(subtitlesPath))
	}
	if opts.OverlayText != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':fontcolor=white:fontsize=64:borderw=3:x=(w-text_w)/2:y=h*0.08",
			escapeDrawtext(opts.OverlayText)))
	}

	graph := fmt.Sprintf("[0:v]%s[v0]", strings.Join(filters, ","))
	if !withWatermark {
		return graph + ";[v0]copy[vout]"
	}
	return graph + fmt.Sprintf(
		";[2:v]format=rgba,colorchannelmixer=aa=%.2f[wm];[v0][wm]overlay=W-w-20:H-h-20[vout]",
		r.watermarkOpacity)
}

// concat joins intro, main segment, and outro with the concat demuxer. The
// clips are expected to share codec parameters with the rendered segment.
func (r *Renderer) concat(ctx context.Context, intro, main, outro, outputPath string) error {
	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	defer os.Remove(listPath)

	var b strings.Builder
	for _, clip := range []string{intro, main, outro} {
		if strings.TrimSpace(clip) == "" {
			continue
		}
		fmt.Fprintf(&b, "file '%s'\n", clip)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return services.Wrap(services.ErrRender, "render", "concat", "write concat list", err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}
	if err := r.run(ctx, r.ffmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrRender, "render", "concat", "ffmpeg concat failed", err)
	}
	return nil
}

func (r *Renderer) run(ctx context.Context, name string, args ...string) error {
	if r.runner != nil {
		return r.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func parseResolution(resolution string) (width, height int) {
	width, height = 1080, 1920
	parts := strings.SplitN(resolution, "x", 2)
	if len(parts) != 2 {
		return width, height
	}
	var w, h int
	if _, err := fmt.Sscanf(parts[0], "%d", &w); err != nil {
		return width, height
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &h); err != nil {
		return width, height
	}
	if w > 0 && h > 0 {
		return w, h
	}
	return width, height
}

func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	return replacer.Replace(path)
}

func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\\'`, `:`, `\:`, `%`, `\%`)
	return replacer.Replace(text)
}
