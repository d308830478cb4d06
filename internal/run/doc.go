// Package run models a single pipeline run: its output directory, derived
// artifact paths, status, and finalization.
//
// A Context owns its output directory exclusively for the duration of the
// run (enforced with a lock file) and is finalized exactly once, whether the
// run succeeded or aborted partway. After finalization the Context is a
// passive record; it is never reused for another run.
package run
