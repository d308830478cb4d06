package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storyreel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSynthesis, "voiceover", "generate", "engine exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"voiceover", "generate", "engine exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "render", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestRecoverable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"synthesis", services.Wrap(services.ErrSynthesis, "voiceover", "generate", "failed", nil), true},
		{"transcription", services.Wrap(services.ErrTranscription, "subtitles", "transcribe", "failed", nil), true},
		{"timeout", services.Wrap(services.ErrTimeout, "voiceover", "generate", "deadline", nil), true},
		{"render", services.Wrap(services.ErrRender, "render", "compose", "failed", nil), false},
		{"validation", services.Wrap(services.ErrValidation, "setup", "config", "invalid", nil), false},
		{"canceled", context.Canceled, false},
		{"wrapped cancellation", services.Wrap(services.ErrSynthesis, "voiceover", "generate", "aborted", context.Canceled), false},
		{"parent deadline", context.DeadlineExceeded, false},
	}
	for _, tc := range cases {
		if got := services.Recoverable(tc.err); got != tc.want {
			t.Errorf("%s: Recoverable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsTimeout(t *testing.T) {
	err := services.Wrap(services.ErrTimeout, "subtitles", "transcribe", "deadline exceeded", nil)
	if !services.IsTimeout(err) {
		t.Fatalf("expected timeout classification for %v", err)
	}
	if services.IsTimeout(errors.New("other")) {
		t.Fatal("unexpected timeout classification")
	}
}
