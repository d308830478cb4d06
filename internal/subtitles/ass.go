package subtitles

import (
	"fmt"
	"math"
	"os"
	"strings"

	"storyreel/internal/services"
)

const assHeader = `[Script Info]
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, BackColour, OutlineColour, Bold, Italic, Alignment, MarginL, MarginR, MarginV, BorderStyle, Outline, Shadow, Encoding
Style: Default,Arial,48,&H00FFFFFF,&H00000000,&H00000000,0,0,2,10,10,10,1,2,0,0

[Events]
Format: Start, End, Style, Text
`

// WriteASS renders timed words into an ASS subtitle file at outputPath,
// applying the service's configured style tag to each line. With no words it
// writes the placeholder artifact instead.
func (s *Service) WriteASS(words []Word, outputPath string) error {
	if len(words) == 0 {
		s.logger.Warn("no subtitle timings provided; writing placeholder")
		return WritePlaceholder(outputPath)
	}

	var b strings.Builder
	b.WriteString(assHeader)
	for _, word := range words {
		text := strings.TrimSpace(word.Text)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,%s\n",
			formatTime(word.Start), formatTime(word.End), s.styleTag(text))
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return services.Wrap(services.ErrTranscription, "subtitles", "write", "write subtitle file", err)
	}
	return nil
}

// WritePlaceholder writes a minimal valid subtitle artifact containing a
// single empty dialogue line. Developer mode substitutes it when subtitle
// generation fails.
func WritePlaceholder(outputPath string) error {
	body := assHeader + "Dialogue: 0,0:00:00.00,0:00:01.00,Default,\n"
	return os.WriteFile(outputPath, []byte(body), 0o644)
}

// WriteEmpty writes an empty subtitle artifact, used when subtitles are
// disabled by configuration.
func WriteEmpty(outputPath string) error {
	return os.WriteFile(outputPath, nil, 0o644)
}

func (s *Service) styleTag(text string) string {
	switch s.style {
	case "karaoke":
		return `{\k20}` + text
	case "progressive":
		return `{\alpha&HFF&\t(0,300,\alpha&H00&)}` + text
	default:
		return text
	}
}

// formatTime renders seconds as the H:MM:SS.cc timestamp ASS expects.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds * 100))
	whole := total / 100
	hrs := whole / 3600
	mins := (whole % 3600) / 60
	secs := whole % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hrs, mins, secs, total%100)
}
