package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Job describes one chapter transcode.
type Job struct {
	Input    string
	Output   string
	Start    time.Duration
	Duration time.Duration
	Format   string
	Bitrate  string
	Mono     bool
}

// Transcode renders a single chapter slice of the input into the requested
// format. The output is overwritten if it already exists.
func (c *Client) Transcode(ctx context.Context, job Job) error {
	if strings.TrimSpace(job.Input) == "" {
		return errors.New("ffmpeg transcode: empty input path")
	}
	if strings.TrimSpace(job.Output) == "" {
		return errors.New("ffmpeg transcode: empty output path")
	}
	if job.Start < 0 {
		return fmt.Errorf("ffmpeg transcode: negative start %s", job.Start)
	}
	if job.Duration <= 0 {
		return fmt.Errorf("ffmpeg transcode: non-positive duration %s", job.Duration)
	}

	codec, err := codecArgs(job.Format, job.Bitrate)
	if err != nil {
		return err
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(job.Start),
		"-i", job.Input,
		"-t", formatSeconds(job.Duration),
	}
	args = append(args, codec...)
	if job.Mono {
		args = append(args, "-ac", "1")
	}
	args = append(args, "-vn", job.Output)

	tail := newTailBuffer(errorTailLines)
	if err := c.exec.Run(ctx, c.binary, args, tail.Add); err != nil {
		return fmt.Errorf("ffmpeg transcode %s: %w%s", filepath.Base(job.Output), err, tail.Suffix())
	}
	return nil
}

// codecArgs maps an output format to encoder arguments. WAV is uncompressed,
// so any configured bitrate is ignored for it.
func codecArgs(format, bitrate string) ([]string, error) {
	bitrate = strings.TrimSpace(bitrate)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "mp3":
		args := []string{"-c:a", "libmp3lame"}
		if bitrate != "" {
			args = append(args, "-b:a", bitrate)
		}
		return args, nil
	case "m4a", "m4b":
		args := []string{"-c:a", "aac"}
		if bitrate != "" {
			args = append(args, "-b:a", bitrate)
		}
		return args, nil
	case "wav":
		return []string{"-c:a", "pcm_s16le"}, nil
	default:
		return nil, fmt.Errorf("ffmpeg transcode: unsupported format %q", format)
	}
}
