package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVoice()
	c.normalizeSubtitles()
	c.normalizeRender()
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackgroundVideosDir) == "" {
		c.Paths.BackgroundVideosDir = defaultBackgroundVideosDir
	}
	if c.Paths.BackgroundVideosDir, err = expandPath(c.Paths.BackgroundVideosDir); err != nil {
		return fmt.Errorf("paths.background_videos_dir: %w", err)
	}

	styles := make(map[string]string, len(c.BackgroundStyles))
	for name, folder := range c.BackgroundStyles {
		name = strings.TrimSpace(name)
		folder = strings.TrimSpace(folder)
		if name == "" || folder == "" {
			continue
		}
		expanded, err := expandPath(folder)
		if err != nil {
			return fmt.Errorf("background_styles.%s: %w", name, err)
		}
		styles[name] = expanded
	}
	c.BackgroundStyles = styles

	if strings.TrimSpace(c.History.Dir) == "" {
		c.History.Dir = filepath.Join(c.Paths.LogDir, "history")
	} else if c.History.Dir, err = expandPath(c.History.Dir); err != nil {
		return fmt.Errorf("history.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVoice() {
	c.Voice.Engine = strings.ToLower(strings.TrimSpace(c.Voice.Engine))
	c.Voice.VoiceID = strings.TrimSpace(c.Voice.VoiceID)
	c.Voice.Binary = strings.TrimSpace(c.Voice.Binary)
	if c.Voice.Binary == "" {
		c.Voice.Binary = c.Voice.Engine
	}
	c.Voice.Model = strings.TrimSpace(c.Voice.Model)
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Style = strings.ToLower(strings.TrimSpace(c.Subtitles.Style))
	if c.Subtitles.Style == "" {
		c.Subtitles.Style = defaultSubtitleStyle
	}
	c.Subtitles.WhisperModel = strings.TrimSpace(c.Subtitles.WhisperModel)
	if c.Subtitles.WhisperModel == "" {
		c.Subtitles.WhisperModel = defaultWhisperModel
	}
}

func (c *Config) normalizeRender() {
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}
	c.Render.Resolution = strings.ToLower(strings.TrimSpace(c.Render.Resolution))
	if c.Render.Resolution == "" {
		c.Render.Resolution = defaultResolution
	}
	c.Render.IntroPath = strings.TrimSpace(c.Render.IntroPath)
	c.Render.OutroPath = strings.TrimSpace(c.Render.OutroPath)
	c.Watermark.Path = strings.TrimSpace(c.Watermark.Path)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
