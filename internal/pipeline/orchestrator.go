package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"storyreel/internal/config"
	"storyreel/internal/logging"
	"storyreel/internal/notifications"
	"storyreel/internal/render"
	"storyreel/internal/run"
	"storyreel/internal/runstore"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
	"storyreel/internal/textutil"
	"storyreel/internal/voiceover"
)

// Request describes one video-generation run.
type Request struct {
	ScriptText   string
	ScriptName   string
	Background   string
	OutputPath   string
	NoSubtitles  bool
	NoTranscribe bool
	TrimSilence  bool
	CropSafe     bool
	OverlayText  string
	Intro        string
	Outro        string
}

// videoRenderer is the slice of render.Renderer the orchestrator needs.
type videoRenderer interface {
	Render(ctx context.Context, audioPath, subtitlesPath, outputPath string, opts render.Options) error
}

var _ videoRenderer = (*render.Renderer)(nil)

// subtitleService is the slice of subtitles.Service the orchestrator needs.
type subtitleService interface {
	Transcribe(ctx context.Context, audioPath string) ([]subtitles.Word, error)
	WriteASS(words []subtitles.Word, outputPath string) error
}

var _ subtitleService = (*subtitles.Service)(nil)

// Orchestrator drives a run end to end and guarantees finalization on every
// exit path.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	voice    voiceover.Generator
	subs     subtitleService
	store    *runstore.Store
	notifier notifications.Service

	newRenderer  func(backgroundDir string, logger *slog.Logger) videoRenderer
	trimSilence  func(ctx context.Context, ffmpegBinary, path string) error
	writeSilence func(path string, duration time.Duration) error
	logWriter    io.Writer
	now          func() time.Time
}

// New wires an orchestrator with the production services.
func New(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "pipeline"),
		voice:    voiceover.NewEngine(cfg.Voice, logger),
		subs:     subtitles.NewService(cfg.Subtitles, logger),
		notifier: notifications.NewService(cfg),
		newRenderer: func(backgroundDir string, runLogger *slog.Logger) videoRenderer {
			return render.New(cfg, backgroundDir, runLogger)
		},
		trimSilence:  voiceover.TrimSilence,
		writeSilence: voiceover.WriteSilence,
		logWriter:    os.Stderr,
		now:          time.Now,
	}
	return o
}

// WithVoiceGenerator replaces the voiceover backend (for testing).
func (o *Orchestrator) WithVoiceGenerator(gen voiceover.Generator) { o.voice = gen }

// WithSubtitleService replaces the subtitle backend (for testing).
func (o *Orchestrator) WithSubtitleService(svc subtitleService) { o.subs = svc }

// WithRendererFactory replaces renderer construction (for testing).
func (o *Orchestrator) WithRendererFactory(factory func(backgroundDir string, logger *slog.Logger) videoRenderer) {
	o.newRenderer = factory
}

// WithNotifier replaces the notification service (for testing).
func (o *Orchestrator) WithNotifier(svc notifications.Service) { o.notifier = svc }

// WithStore attaches a run-history store. Nil disables history recording.
func (o *Orchestrator) WithStore(store *runstore.Store) { o.store = store }

// WithLogWriter redirects the run-scoped console output (for testing).
func (o *Orchestrator) WithLogWriter(w io.Writer) { o.logWriter = w }

// WithClock overrides the time source (for testing).
func (o *Orchestrator) WithClock(now func() time.Time) { o.now = now }

// Run executes the full stage sequence for one request. The returned run
// context is non-nil whenever an output directory was claimed, even on
// failure, so callers can point at the artifacts. The run is finalized before
// Run returns, and a stage failure is returned unchanged after finalization.
func (o *Orchestrator) Run(ctx context.Context, req Request) (rc *run.Context, err error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "script text is empty", nil)
	}

	rc, err = run.New(run.Inputs{
		ScriptText:    req.ScriptText,
		ScriptName:    req.ScriptName,
		VoiceEngine:   o.cfg.Voice.Engine,
		VoiceID:       o.cfg.Voice.VoiceID,
		SubtitleStyle: o.cfg.Subtitles.Style,
		OutputRoot:    o.cfg.Paths.OutputDir,
		OutputPath:    req.OutputPath,
	}, o.now())
	if err != nil {
		return nil, err
	}

	logger, logCloser, logErr := logging.NewRunLogger(rc.LogPath, logging.Options{
		Level:  o.cfg.Logging.Level,
		Format: o.cfg.Logging.Format,
		Writer: o.logWriter,
	})
	if logErr != nil {
		logger = o.logger
		logger.Warn("run log unavailable; logging to console only", logging.Error(logErr))
	} else {
		logger = logging.WithComponent(logger, "pipeline")
		defer logCloser.Close()
	}

	start := o.now()
	logger.Info("run started",
		logging.String(logging.FieldRun, rc.Name),
		logging.String("output_dir", rc.OutputDir),
		logging.Int("script_words", textutil.WordCount(req.ScriptText)),
	)

	defer func() {
		// A panic escaping a stage must still finalize the run as failed
		// before it propagates.
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
			defer panic(p)
		}
		elapsed := o.now().Sub(start)
		status := run.StatusSuccess
		if err != nil {
			status = run.StatusFailed
			rc.RecordError(err)
		}
		if finErr := rc.Finalize(status, elapsed, o.cfg); finErr != nil {
			logger.Warn("finalization incomplete", logging.Error(finErr))
			if err == nil {
				err = finErr
			}
		}
		o.recordHistory(ctx, rc, elapsed, logger)
		o.notify(ctx, rc, err, elapsed, logger)
		logger.Info("run finished",
			logging.String("status", string(rc.Status())),
			logging.Duration("elapsed", elapsed),
		)
	}()

	if out := o.downloadStage(ctx, logger); out.kind == outcomeFatal {
		return rc, out.err
	}
	if out := o.voiceoverStage(ctx, logger, rc, req); out.kind == outcomeFatal {
		return rc, out.err
	}
	if out := o.subtitlesStage(ctx, logger, rc, req); out.kind == outcomeFatal {
		return rc, out.err
	}
	if out := o.renderStage(ctx, logger, rc, req); out.kind == outcomeFatal {
		return rc, out.err
	}
	return rc, nil
}

func (o *Orchestrator) recordHistory(ctx context.Context, rc *run.Context, elapsed time.Duration, logger *slog.Logger) {
	if o.store == nil {
		return
	}
	rec := runstore.Record{
		Name:          rc.Name,
		Status:        string(rc.Status()),
		VoiceEngine:   rc.VoiceEngine,
		SubtitleStyle: rc.SubtitleStyle,
		Duration:      elapsed,
		OutputDir:     rc.OutputDir,
		FinalVideo:    rc.FinalVideoPath,
		ErrorMessage:  rc.ErrorText(),
		CreatedAt:     rc.CreatedAt,
	}
	if _, err := o.store.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("run history not recorded", logging.Error(err))
	}
}

func (o *Orchestrator) notify(ctx context.Context, rc *run.Context, runErr error, elapsed time.Duration, logger *slog.Logger) {
	if o.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	var err error
	if runErr == nil {
		err = o.notifier.NotifyRunCompleted(ctx, rc.Name, rc.FinalVideoPath, elapsed)
	} else {
		err = o.notifier.NotifyRunFailed(ctx, rc.Name, runErr)
	}
	if err != nil {
		logger.Warn("notification not delivered", logging.Error(err))
	}
}
