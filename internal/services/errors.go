package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout marks a stage operation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrSynthesis marks a voiceover synthesis failure.
	ErrSynthesis = errors.New("synthesis error")
	// ErrTranscription marks a speech-to-text failure.
	ErrTranscription = errors.New("transcription error")
	// ErrRender marks a video composition failure. Always fatal.
	ErrRender = errors.New("render error")
	// ErrValidation marks invalid or missing configuration or inputs.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks a generic external command failure.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether developer mode may absorb the error by
// substituting a placeholder artifact. Render and validation failures are
// never recoverable, and neither is caller-initiated context cancellation:
// an aborting run must not continue on placeholders. Timeouts currently
// share the substitution policy of outright failures; the distinct
// ErrTimeout marker is kept so observability and future policy changes can
// tell them apart.
func Recoverable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrRender), errors.Is(err, ErrValidation):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// IsTimeout reports whether the error chain carries the timeout marker.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
