// Package render composes the final video with ffmpeg: a background clip
// (or solid fallback), the narration audio, burned-in subtitles, optional
// watermark and text overlays, and optional intro/outro clips.
package render
