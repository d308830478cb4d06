// Package services defines the shared error vocabulary for pipeline stages.
//
// Stages wrap failures from external tools (TTS engines, whisper, ffmpeg)
// with a sentinel marker so the orchestrator can classify them with
// errors.Is without losing the original error chain.
package services
