package run

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"storyreel/internal/textutil"
)

// Status represents the lifecycle of a run.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

const (
	voiceoverFileName = "voiceover.wav"
	subtitlesFileName = "subtitles.ass"
	finalVideoName    = "final_video.mp4"
	logFileName       = "pipeline.log"
	lockFileName      = ".storyreel.lock"
)

// Inputs carries everything needed to initialize a run context.
type Inputs struct {
	ScriptText    string
	ScriptName    string
	VoiceEngine   string
	VoiceID       string
	SubtitleStyle string
	// OutputRoot is the directory that receives the run's own subdirectory.
	OutputRoot string
	// OutputPath, when set, overrides the default layout: the final video is
	// written exactly there and the run owns that file's parent directory.
	OutputPath string
}

// Context is the mutable record describing one run. Stages populate their
// designated artifact paths; nothing else about the context changes between
// initialization and finalization.
type Context struct {
	Name      string
	CreatedAt time.Time
	OutputDir string

	ScriptText    string
	VoiceEngine   string
	VoiceID       string
	SubtitleStyle string

	VoiceoverPath  string
	SubtitlesPath  string
	FinalVideoPath string
	LogPath        string

	warnings  []string
	status    Status
	errorText string
	lock      *flock.Flock
	finalized bool
}

// New computes the run's name, output directory, and artifact paths, creates
// the directory tree, and takes exclusive ownership of it. Each run gets a
// fresh timestamped directory unless an explicit output path is supplied.
func New(inputs Inputs, now time.Time) (*Context, error) {
	name := inputs.ScriptName
	if name == "cli" || name == "stdin" {
		name = "session"
	}
	name = textutil.SanitizeToken(name)

	var outputDir, finalVideo string
	if strings.TrimSpace(inputs.OutputPath) != "" {
		finalVideo = inputs.OutputPath
		outputDir = filepath.Dir(inputs.OutputPath)
	} else {
		outputDir = filepath.Join(inputs.OutputRoot, fmt.Sprintf("%s_%s", name, now.Format("20060102_150405")))
		finalVideo = filepath.Join(outputDir, finalVideoName)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(outputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is in use by another run", outputDir)
	}

	return &Context{
		Name:           name,
		CreatedAt:      now,
		OutputDir:      outputDir,
		ScriptText:     inputs.ScriptText,
		VoiceEngine:    inputs.VoiceEngine,
		VoiceID:        inputs.VoiceID,
		SubtitleStyle:  inputs.SubtitleStyle,
		VoiceoverPath:  filepath.Join(outputDir, voiceoverFileName),
		SubtitlesPath:  filepath.Join(outputDir, subtitlesFileName),
		FinalVideoPath: finalVideo,
		LogPath:        filepath.Join(outputDir, logFileName),
		status:         StatusPending,
		lock:           lock,
	}, nil
}

// Status returns the current run status. It stays pending until Finalize.
func (c *Context) Status() Status {
	return c.status
}

// AddWarning records a degraded-mode warning surfaced in the run summary.
func (c *Context) AddWarning(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	c.warnings = append(c.warnings, message)
}

// Warnings returns the warnings recorded during the run.
func (c *Context) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// RecordError persists a human-readable trace of a fatal error into the
// run's output directory. Calling it again overwrites the trace; calling it
// with nil is a no-op.
func (c *Context) RecordError(err error) {
	if err == nil {
		return
	}
	c.errorText = err.Error()
	trace := fmt.Sprintf("run: %s\ntime: %s\nerror: %s\n",
		c.Name, time.Now().UTC().Format(time.RFC3339), c.errorText)
	_ = os.WriteFile(filepath.Join(c.OutputDir, errorTraceName), []byte(trace), 0o644)
}

// ErrorText returns the recorded fatal error message, if any.
func (c *Context) ErrorText() string {
	return c.errorText
}
