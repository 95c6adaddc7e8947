package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ExtractClip writes a mono 16 kHz PCM WAV slice of src to dest, the layout
// speech transcription endpoints expect. Seeking happens before the input is
// opened so extraction stays fast on multi-hour files.
func (c *Client) ExtractClip(ctx context.Context, src string, start, duration time.Duration, dest string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return errors.New("ffmpeg extract clip: empty source path")
	}
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return errors.New("ffmpeg extract clip: empty destination path")
	}
	if start < 0 {
		return fmt.Errorf("ffmpeg extract clip: negative start %s", start)
	}
	if duration <= 0 {
		return fmt.Errorf("ffmpeg extract clip: non-positive duration %s", duration)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", src,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}

	tail := newTailBuffer(errorTailLines)
	if err := c.exec.Run(ctx, c.binary, args, tail.Add); err != nil {
		return fmt.Errorf("ffmpeg extract clip: %w%s", err, tail.Suffix())
	}
	return nil
}
