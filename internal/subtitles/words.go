package subtitles

import (
	"strings"
	"time"
)

// Word is one timed token of the narration.
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// UniformWordDuration is the span given to each word when timings are
// derived from the script text instead of a transcription.
const UniformWordDuration = 500 * time.Millisecond

// UniformWords splits script text into one timed token per whitespace-
// delimited word. Tokens are contiguous, start at zero, and each spans per
// (UniformWordDuration when per is not positive).
func UniformWords(text string, per time.Duration) []Word {
	if per <= 0 {
		per = UniformWordDuration
	}
	span := per.Seconds()
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for i, field := range fields {
		words = append(words, Word{
			Start: float64(i) * span,
			End:   float64(i+1) * span,
			Text:  field,
		})
	}
	return words
}
