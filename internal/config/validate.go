package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var resolutionPattern = regexp.MustCompile(`^\d{2,5}x\d{2,5}$`)

var knownSubtitleStyles = map[string]struct{}{
	"default":     {},
	"karaoke":     {},
	"progressive": {},
}

// Validate ensures the configuration is usable. It runs before any stage and
// before any output directory is created.
func (c *Config) Validate() error {
	if err := c.validateVoice(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWatermark(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVoice() error {
	if c.Voice.Engine == "" {
		return errors.New("voice.engine must be set")
	}
	if c.Voice.Binary == "" {
		return errors.New("voice.binary must be set")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if _, ok := knownSubtitleStyles[c.Subtitles.Style]; !ok {
		return fmt.Errorf("subtitles.style: unknown style %q (expected default, karaoke, or progressive)", c.Subtitles.Style)
	}
	return nil
}

func (c *Config) validateRender() error {
	if !resolutionPattern.MatchString(c.Render.Resolution) {
		return fmt.Errorf("render.resolution: expected WIDTHxHEIGHT, got %q", c.Render.Resolution)
	}
	return nil
}

func (c *Config) validateWatermark() error {
	if !c.Watermark.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Watermark.Path) == "" {
		return errors.New("watermark.path must be set when watermark.enabled is true")
	}
	if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
		return errors.New("watermark.opacity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
