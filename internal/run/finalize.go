package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storyreel/internal/config"
	"storyreel/internal/fileutil"
)

const (
	metadataFileName = "metadata.json"
	summaryFileName  = "run_summary.json"
	readableSummary  = "summary.txt"
	configSnapshot   = "config_snapshot.toml"
	archiveFileName  = "artifacts.zip"
	errorTraceName   = "error_trace.txt"
)

var engineCaser = cases.Title(language.English)

// Summary is the machine-readable run summary written at finalization.
type Summary struct {
	Script   string `json:"script"`
	Voice    string `json:"voice"`
	Style    string `json:"style"`
	Duration string `json:"duration"`
	Success  bool   `json:"success"`
}

type metadata struct {
	Name       string   `json:"name"`
	CreatedAt  string   `json:"created_at"`
	Status     Status   `json:"status"`
	Voiceover  string   `json:"voiceover"`
	Subtitles  string   `json:"subtitles"`
	FinalVideo string   `json:"final_video"`
	Warnings   []string `json:"warnings,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Finalize transitions the run out of pending exactly once and persists the
// run's final state: metadata, machine-readable summary, a snapshot of the
// active configuration, a human-readable summary, and a zip archive of the
// output directory. It records what exists, not what was expected, so it is
// safe to call after a partial failure. Repeated calls are no-ops.
func (c *Context) Finalize(status Status, elapsed time.Duration, cfg *config.Config) error {
	if c.finalized {
		return nil
	}
	c.finalized = true
	if status != StatusSuccess && status != StatusFailed {
		status = StatusFailed
	}
	c.status = status

	defer func() {
		if c.lock != nil {
			_ = c.lock.Unlock()
			_ = os.Remove(c.lock.Path())
			c.lock = nil
		}
	}()

	summary := Summary{
		Script:   c.Name,
		Voice:    engineCaser.String(c.VoiceEngine),
		Style:    c.SubtitleStyle,
		Duration: fmt.Sprintf("%ds", int(elapsed.Seconds())),
		Success:  status == StatusSuccess,
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(c.writeJSON(metadataFileName, metadata{
		Name:       c.Name,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		Status:     c.status,
		Voiceover:  c.VoiceoverPath,
		Subtitles:  c.SubtitlesPath,
		FinalVideo: c.FinalVideoPath,
		Warnings:   c.warnings,
		Error:      c.errorText,
	}))
	record(c.writeJSON(summaryFileName, summary))
	if cfg != nil {
		record(cfg.WriteSnapshot(filepath.Join(c.OutputDir, configSnapshot)))
	}
	record(c.writeReadableSummary(summary))
	record(fileutil.ZipDir(c.OutputDir, filepath.Join(c.OutputDir, archiveFileName), lockFileName))

	return firstErr
}

func (c *Context) writeJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(c.OutputDir, name), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (c *Context) writeReadableSummary(summary Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", c.Name)
	fmt.Fprintf(&b, "Status: %s\n", c.status)
	fmt.Fprintf(&b, "Voice: %s", summary.Voice)
	if c.VoiceID != "" {
		fmt.Fprintf(&b, " (%s)", c.VoiceID)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Subtitle style: %s\n", summary.Style)
	fmt.Fprintf(&b, "Duration: %s\n", summary.Duration)
	for _, artifact := range []struct {
		label string
		path  string
	}{
		{"Voiceover", c.VoiceoverPath},
		{"Subtitles", c.SubtitlesPath},
		{"Video", c.FinalVideoPath},
	} {
		if fileutil.NonEmptyFile(artifact.path) {
			fmt.Fprintf(&b, "%s: %s\n", artifact.label, artifact.path)
		}
	}
	for _, warning := range c.warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	if c.errorText != "" {
		fmt.Fprintf(&b, "Error: %s\n", c.errorText)
	}
	return os.WriteFile(filepath.Join(c.OutputDir, readableSummary), []byte(b.String()), 0o644)
}
