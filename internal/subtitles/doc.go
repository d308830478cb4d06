// Package subtitles acquires word-level timings for a narration track and
// renders them as an ASS subtitle file.
//
// Timings come from whisperx transcription of the voiceover audio, or from a
// uniform fixed-duration split of the script text when transcription is
// disabled.
package subtitles
