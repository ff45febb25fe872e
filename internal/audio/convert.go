package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Converter turns Telegram's ogg/opus voice notes into a codec the
// transcription endpoint accepts.
type Converter struct {
	ffmpegPath string
}

func NewConverter(ffmpegPath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Converter{ffmpegPath: ffmpegPath}
}

// OggToMP3 converts inputPath into outputPath, overwriting any existing
// file.
func (c *Converter) OggToMP3(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", inputPath,
		"-acodec", "libmp3lame",
		"-ab", "128k",
		outputPath,
		"-y",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg conversion: %w: %s", err, truncate(out, 300))
	}
	return nil
}

// Cleanup best-effort removes temp audio files. Missing files are fine.
func Cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
