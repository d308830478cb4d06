package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"storyreel/internal/deadline"
	"storyreel/internal/fileutil"
	"storyreel/internal/logging"
	"storyreel/internal/render"
	"storyreel/internal/run"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
	"storyreel/internal/voiceover"
)

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeDegraded
	outcomeFatal
)

// outcome is the explicit result of one stage: success, degraded (failure
// absorbed by a placeholder), or fatal to the run.
type outcome struct {
	kind outcomeKind
	err  error
}

func ok() outcome                { return outcome{kind: outcomeOK} }
func degraded(err error) outcome { return outcome{kind: outcomeDegraded, err: err} }
func fatal(err error) outcome    { return outcome{kind: outcomeFatal, err: err} }

// runStage executes fn under the configured stage deadline. When the stage
// fails recoverably and developer mode is on, fallback produces a placeholder
// artifact and the run degrades instead of failing. A nil fallback means the
// stage can never degrade. Timeouts follow the same policy as failures.
func (o *Orchestrator) runStage(
	ctx context.Context,
	logger *slog.Logger,
	rc *run.Context,
	stage string,
	fn func(context.Context) error,
	fallback func() error,
) outcome {
	stageLogger := logging.WithStage(logger, stage)
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	err := deadline.Do(ctx, o.cfg.StageTimeout(), stage, "execute", fn)
	if err == nil {
		stageLogger.Info("stage complete", logging.String(logging.FieldEventType, "stage_complete"))
		return ok()
	}

	if fallback != nil && o.cfg.Workflow.DeveloperMode && services.Recoverable(err) {
		if fbErr := fallback(); fbErr != nil {
			return fatal(services.Wrap(err, stage, "fallback",
				fmt.Sprintf("placeholder generation failed: %v", fbErr), nil))
		}
		warning := fmt.Sprintf("%s stage degraded to placeholder: %v", stage, err)
		rc.AddWarning(warning)
		stageLogger.Warn("stage degraded",
			logging.String(logging.FieldEventType, "stage_degraded"),
			logging.Error(err),
		)
		return degraded(err)
	}

	stageLogger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failed"),
		logging.Error(err),
	)
	return fatal(err)
}

// downloadStage reserves a slot in the sequence for remote asset retrieval.
// All assets are currently local, so it never blocks and never fails.
func (o *Orchestrator) downloadStage(_ context.Context, logger *slog.Logger) outcome {
	logging.WithStage(logger, "download").Debug("no remote assets to fetch")
	return ok()
}

func (o *Orchestrator) voiceoverStage(ctx context.Context, logger *slog.Logger, rc *run.Context, req Request) outcome {
	out := o.runStage(ctx, logger, rc, "voiceover",
		func(ctx context.Context) error {
			if err := o.voice.Generate(ctx, rc.ScriptText, rc.VoiceoverPath); err != nil {
				return err
			}
			if !fileutil.NonEmptyFile(rc.VoiceoverPath) {
				return services.Wrap(services.ErrSynthesis, "voiceover", "generate",
					"engine produced no audio", nil)
			}
			return nil
		},
		func() error {
			return o.writeSilence(rc.VoiceoverPath, voiceover.PlaceholderDuration)
		},
	)
	if out.kind == outcomeFatal {
		return out
	}

	if req.TrimSilence && out.kind == outcomeOK {
		if err := o.trimSilence(ctx, o.cfg.Render.FFmpegBinary, rc.VoiceoverPath); err != nil {
			logging.WithStage(logger, "voiceover").Warn("silence trim skipped", logging.Error(err))
		}
	}
	return out
}

func (o *Orchestrator) subtitlesStage(ctx context.Context, logger *slog.Logger, rc *run.Context, req Request) outcome {
	if !o.cfg.Subtitles.Enabled || req.NoSubtitles {
		logging.WithStage(logger, "subtitles").Info("subtitles disabled; writing empty artifact")
		if err := subtitles.WriteEmpty(rc.SubtitlesPath); err != nil {
			return fatal(services.Wrap(services.ErrTranscription, "subtitles", "skip",
				"write empty subtitle artifact", err))
		}
		return ok()
	}

	transcribe := o.cfg.Subtitles.Transcribe && !req.NoTranscribe
	return o.runStage(ctx, logger, rc, "subtitles",
		func(ctx context.Context) error {
			var words []subtitles.Word
			if transcribe {
				var err error
				words, err = o.subs.Transcribe(ctx, rc.VoiceoverPath)
				if err != nil {
					return err
				}
			} else {
				words = subtitles.UniformWords(rc.ScriptText, subtitles.UniformWordDuration)
			}
			return o.subs.WriteASS(words, rc.SubtitlesPath)
		},
		func() error {
			return subtitles.WritePlaceholder(rc.SubtitlesPath)
		},
	)
}

func (o *Orchestrator) renderStage(ctx context.Context, logger *slog.Logger, rc *run.Context, req Request) outcome {
	backgroundDir := o.cfg.BackgroundFolder(req.Background)
	renderer := o.newRenderer(backgroundDir, logger)

	intro := req.Intro
	if intro == "" {
		intro = o.cfg.Render.IntroPath
	}
	outro := req.Outro
	if outro == "" {
		outro = o.cfg.Render.OutroPath
	}

	return o.runStage(ctx, logger, rc, "render",
		func(ctx context.Context) error {
			return renderer.Render(ctx, rc.VoiceoverPath, rc.SubtitlesPath, rc.FinalVideoPath, render.Options{
				Intro:       intro,
				Outro:       outro,
				CropSafe:    req.CropSafe,
				OverlayText: req.OverlayText,
			})
		},
		nil,
	)
}
