package config

const (
	defaultOutputDir           = "output"
	defaultLogDir              = "~/.local/share/storyreel/logs"
	defaultBackgroundVideosDir = "assets/backgrounds"
	defaultVoiceEngine         = "piper"
	defaultSubtitleStyle       = "default"
	defaultWhisperModel        = "base"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultResolution          = "1080x1920"
	defaultWatermarkOpacity    = 0.35
	defaultStageTimeoutSeconds = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultNotifyTimeout       = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:           defaultOutputDir,
			LogDir:              defaultLogDir,
			BackgroundVideosDir: defaultBackgroundVideosDir,
		},
		// Binary is intentionally left empty; normalization derives it from
		// the configured engine so overriding the engine alone is enough.
		Voice: Voice{
			Engine: defaultVoiceEngine,
		},
		Subtitles: Subtitles{
			Enabled:      true,
			Style:        defaultSubtitleStyle,
			Transcribe:   true,
			WhisperModel: defaultWhisperModel,
		},
		Render: Render{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Resolution:    defaultResolution,
		},
		Watermark: Watermark{
			Opacity: defaultWatermarkOpacity,
		},
		Workflow: Workflow{
			StageTimeout: defaultStageTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		History: History{
			Enabled: true,
		},
	}
}
