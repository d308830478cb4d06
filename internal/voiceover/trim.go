package voiceover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"storyreel/internal/fileutil"
)

const silenceRemoveFilter = "silenceremove=start_periods=1:start_threshold=-50dB:stop_periods=1:stop_threshold=-50dB"

// TrimSilence rewrites the audio file at path with leading and trailing
// silence removed via ffmpeg. The original file is only replaced when ffmpeg
// produced a non-empty result; callers treat any error as cosmetic.
func TrimSilence(ctx context.Context, ffmpegBinary, path string) error {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	trimmed := path + ".trimmed.wav"
	defer os.Remove(trimmed)

	cmd := exec.CommandContext(ctx, ffmpegBinary, buildTrimArgs(path, trimmed)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("trim silence: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if !fileutil.NonEmptyFile(trimmed) {
		return fmt.Errorf("trim silence: ffmpeg produced empty output for %s", path)
	}
	return os.Rename(trimmed, path)
}

func buildTrimArgs(input, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-af", silenceRemoveFilter,
		output,
	}
}
