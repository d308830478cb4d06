package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir           string `toml:"output_dir"`
	LogDir              string `toml:"log_dir"`
	BackgroundVideosDir string `toml:"background_videos_dir"`
}

// Voice contains text-to-speech engine configuration.
type Voice struct {
	Engine  string `toml:"engine"`
	VoiceID string `toml:"voice_id"`
	Binary  string `toml:"binary"`
	Model   string `toml:"model"`
}

// Subtitles contains subtitle generation configuration.
type Subtitles struct {
	Enabled      bool   `toml:"enabled"`
	Style        string `toml:"style"`
	Transcribe   bool   `toml:"transcribe"`
	WhisperModel string `toml:"whisper_model"`
}

// Render contains video composition configuration.
type Render struct {
	FFmpegBinary  string `toml:"ffmpeg"`
	FFprobeBinary string `toml:"ffprobe"`
	Resolution    string `toml:"resolution"`
	IntroPath     string `toml:"intro"`
	OutroPath     string `toml:"outro"`
}

// Watermark contains watermark overlay configuration.
type Watermark struct {
	Enabled bool    `toml:"enabled"`
	Path    string  `toml:"path"`
	Opacity float64 `toml:"opacity"`
}

// Workflow contains stage execution policy.
type Workflow struct {
	StageTimeout  int  `toml:"stage_timeout"`
	DeveloperMode bool `toml:"developer_mode"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// History contains run-history database settings.
type History struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config encapsulates all configuration values for storyreel.
type Config struct {
	Paths            Paths             `toml:"paths"`
	Voice            Voice             `toml:"voice"`
	Subtitles        Subtitles         `toml:"subtitles"`
	Render           Render            `toml:"render"`
	Watermark        Watermark         `toml:"watermark"`
	BackgroundStyles map[string]string `toml:"background_styles"`
	Workflow         Workflow          `toml:"workflow"`
	Logging          Logging           `toml:"logging"`
	Notifications    Notifications     `toml:"notifications"`
	History          History           `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/storyreel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("storyreel.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.History.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// StageTimeout returns the per-stage deadline. Zero means unbounded.
func (c *Config) StageTimeout() time.Duration {
	if c.Workflow.StageTimeout <= 0 {
		return 0
	}
	return time.Duration(c.Workflow.StageTimeout) * time.Second
}

// BackgroundFolder resolves a requested background style name to a folder.
// Matching against the configured style map is case-insensitive; unknown
// names fall back to the default background folder without error.
func (c *Config) BackgroundFolder(style string) string {
	style = strings.TrimSpace(style)
	if style != "" {
		for key, folder := range c.BackgroundStyles {
			if strings.EqualFold(key, style) {
				return folder
			}
		}
	}
	return c.Paths.BackgroundVideosDir
}

// WatermarkPath returns the watermark image path, or "" when disabled.
func (c *Config) WatermarkPath() string {
	if !c.Watermark.Enabled {
		return ""
	}
	return strings.TrimSpace(c.Watermark.Path)
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
