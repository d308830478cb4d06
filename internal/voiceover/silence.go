package voiceover

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

const (
	silenceSampleRate = 24000
	// PlaceholderDuration is the length of the silent audio substituted for a
	// failed synthesis in developer mode.
	PlaceholderDuration = 3 * time.Second
)

// WriteSilence writes a valid mono 16-bit PCM WAV file containing only
// silence. It backs the developer-mode placeholder, so it must not depend on
// any external tool.
func WriteSilence(path string, duration time.Duration) error {
	if duration <= 0 {
		duration = PlaceholderDuration
	}
	samples := int(float64(silenceSampleRate) * duration.Seconds())
	dataSize := samples * 2

	header := make([]byte, 0, 44)
	header = append(header, []byte("RIFF")...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+dataSize))
	header = append(header, []byte("WAVEfmt ")...)
	header = binary.LittleEndian.AppendUint32(header, 16)                    // PCM chunk size
	header = binary.LittleEndian.AppendUint16(header, 1)                     // PCM format
	header = binary.LittleEndian.AppendUint16(header, 1)                     // mono
	header = binary.LittleEndian.AppendUint32(header, silenceSampleRate)     // sample rate
	header = binary.LittleEndian.AppendUint32(header, silenceSampleRate*2)   // byte rate
	header = binary.LittleEndian.AppendUint16(header, 2)                     // block align
	header = binary.LittleEndian.AppendUint16(header, 16)                    // bits per sample
	header = append(header, []byte("data")...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create placeholder audio: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(header); err != nil {
		return fmt.Errorf("write placeholder header: %w", err)
	}
	if _, err := file.Write(make([]byte, dataSize)); err != nil {
		return fmt.Errorf("write placeholder samples: %w", err)
	}
	return file.Close()
}
