package voiceover

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/logging"
	"storyreel/internal/services"
)

// Generator is the collaborator contract the pipeline consumes: text in,
// audio file at outputPath out.
type Generator interface {
	Generate(ctx context.Context, text, outputPath string) error
}

// CommandRunner executes an external command, feeding stdin when non-empty.
type CommandRunner func(ctx context.Context, stdin, name string, args ...string) error

// Engine synthesizes speech with an external TTS binary.
type Engine struct {
	engine  string
	binary  string
	voiceID string
	model   string
	logger  *slog.Logger
	runner  CommandRunner
}

// NewEngine builds an Engine from voice configuration.
func NewEngine(cfg config.Voice, logger *slog.Logger) *Engine {
	return &Engine{
		engine:  cfg.Engine,
		binary:  cfg.Binary,
		voiceID: cfg.VoiceID,
		model:   cfg.Model,
		logger:  logging.WithComponent(logger, "voiceover"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Engine) WithCommandRunner(runner CommandRunner) {
	e.runner = runner
}

// Generate synthesizes text into a WAV file at outputPath.
func (e *Engine) Generate(ctx context.Context, text, outputPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return services.Wrap(services.ErrValidation, "voiceover", "generate", "script text is empty", nil)
	}

	stdin, args, err := e.buildInvocation(text, outputPath)
	if err != nil {
		return err
	}

	e.logger.Info("synthesizing voiceover",
		logging.String("engine", e.engine),
		logging.String("output", outputPath),
	)
	if err := e.run(ctx, stdin, e.binary, args...); err != nil {
		return services.Wrap(services.ErrSynthesis, "voiceover", "generate", "engine invocation failed", err)
	}
	return nil
}

// buildInvocation maps the configured engine to its CLI contract. Piper reads
// text on stdin; espeak-ng and coqui take it as an argument.
func (e *Engine) buildInvocation(text, outputPath string) (stdin string, args []string, err error) {
	switch e.engine {
	case "piper":
		args = []string{"--output_file", outputPath}
		if e.model != "" {
			args = append(args, "--model", e.model)
		}
		if e.voiceID != "" {
			args = append(args, "--speaker", e.voiceID)
		}
		return text, args, nil
	case "espeak", "espeak-ng":
		args = []string{"-w", outputPath}
		if e.voiceID != "" {
			args = append(args, "-v", e.voiceID)
		}
		args = append(args, "--", text)
		return "", args, nil
	case "coqui":
		args = []string{"--text", text, "--out_path", outputPath}
		if e.model != "" {
			args = append(args, "--model_name", e.model)
		}
		if e.voiceID != "" {
			args = append(args, "--speaker_idx", e.voiceID)
		}
		return "", args, nil
	default:
		return "", nil, services.Wrap(services.ErrValidation, "voiceover", "generate",
			fmt.Sprintf("unsupported voice engine %q", e.engine), nil)
	}
}

func (e *Engine) run(ctx context.Context, stdin, name string, args ...string) error {
	if e.runner != nil {
		return e.runner(ctx, stdin, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
