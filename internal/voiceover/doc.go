// Package voiceover turns script text into narration audio by shelling out
// to an external text-to-speech engine, and provides the silent placeholder
// and silence-trim helpers used around that step.
package voiceover
