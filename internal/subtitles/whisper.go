package subtitles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/fileutil"
	"storyreel/internal/logging"
	"storyreel/internal/services"
)

const uvxCommand = "uvx"

// Service transcribes narration audio with whisperx and renders ASS files.
type Service struct {
	style  string
	model  string
	logger *slog.Logger
	runner func(ctx context.Context, name string, args ...string) error
}

// NewService builds a subtitle service from configuration.
func NewService(cfg config.Subtitles, logger *slog.Logger) *Service {
	return &Service{
		style:  cfg.Style,
		model:  cfg.WhisperModel,
		logger: logging.WithComponent(logger, "subtitles"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.runner = runner
}

// Transcribe runs whisperx over the voiceover audio and returns word-level
// timings. The whisperx JSON output is written next to the audio file.
func (s *Service) Transcribe(ctx context.Context, audioPath string) ([]Word, error) {
	if !fileutil.NonEmptyFile(audioPath) {
		return nil, services.Wrap(services.ErrTranscription, "subtitles", "transcribe",
			fmt.Sprintf("audio file missing or empty: %s", audioPath), nil)
	}

	outputDir := filepath.Dir(audioPath)
	args := s.buildArgs(audioPath, outputDir)
	s.logger.Info("transcribing voiceover", logging.String("model", s.model))
	if err := s.run(ctx, uvxCommand, args...); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "subtitles", "transcribe", "whisperx failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	words, err := loadWhisperWords(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "subtitles", "transcribe", "parse whisperx output", err)
	}
	s.logger.Info("transcription complete", logging.Int("words", len(words)))
	return words, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		"whisperx",
		audioPath,
		"--model", s.model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--compute_type", "float32",
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperSegment struct {
	Text  string        `json:"text"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Words []whisperWord `json:"words"`
}

type whisperPayload struct {
	Segments []whisperSegment `json:"segments"`
}

func loadWhisperWords(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}

	var words []Word
	for _, segment := range payload.Segments {
		if len(segment.Words) == 0 {
			// Segment-only output: keep the segment as a single token.
			text := strings.TrimSpace(segment.Text)
			if text != "" {
				words = append(words, Word{Start: segment.Start, End: segment.End, Text: text})
			}
			continue
		}
		for _, w := range segment.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			words = append(words, Word{Start: w.Start, End: w.End, Text: text})
		}
	}
	return words, nil
}
