// Package pipeline sequences a run through its fixed stages: download,
// voiceover, subtitles, render.
//
// Stage execution produces an explicit outcome rather than raw errors: a
// stage either succeeds, degrades (its failure absorbed by a developer-mode
// placeholder), or fails the run. Render never degrades. Whatever the exit
// path, the run context is finalized exactly once before the orchestrator
// returns, and the original stage error is what the caller sees.
package pipeline
