package logging

import "log/slog"

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldRun is the structured logging key for run names.
	FieldRun = "run"
	// FieldEventType tags lifecycle events (stage_start, stage_complete, ...).
	FieldEventType = "event_type"
)

// WithComponent returns a logger tagged with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if component == "" {
		return logger
	}
	return logger.With(slog.String(FieldComponent, component))
}

// WithStage returns a logger tagged with a pipeline stage name.
func WithStage(logger *slog.Logger, stage string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if stage == "" {
		return logger
	}
	return logger.With(slog.String(FieldStage, stage))
}
