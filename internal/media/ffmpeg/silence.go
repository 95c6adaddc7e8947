package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Silence describes one detected quiet span, in seconds from file start.
type Silence struct {
	Start float64
	End   float64
}

// Midpoint returns the center of the span, the preferred split point.
func (s Silence) Midpoint() float64 {
	return (s.Start + s.End) / 2
}

// Duration returns the span length in seconds.
func (s Silence) Duration() float64 {
	return s.End - s.Start
}

var (
	silenceStartPattern = regexp.MustCompile(`silence_start:\s*(-?[0-9.]+)`)
	silenceEndPattern   = regexp.MustCompile(`silence_end:\s*(-?[0-9.]+)`)
)

// DetectSilence runs the silencedetect filter over the whole file and returns
// the detected spans in order. thresholdDB is the noise floor in dBFS (for
// example -40) and minSilence the minimum quiet duration in seconds.
func (c *Client) DetectSilence(ctx context.Context, path string, thresholdDB, minSilence float64) ([]Silence, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ffmpeg silencedetect: empty path")
	}
	if minSilence <= 0 {
		return nil, fmt.Errorf("ffmpeg silencedetect: minimum duration %v out of range", minSilence)
	}

	filter := fmt.Sprintf("silencedetect=noise=%sdB:d=%s", formatFloat(thresholdDB), formatFloat(minSilence))
	args := []string{
		"-hide_banner", "-nostats",
		"-i", path,
		"-af", filter,
		"-f", "null", "-",
	}

	var silences []Silence
	pending := math.NaN()
	tail := newTailBuffer(errorTailLines)

	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		tail.Add(line)
		if m := silenceStartPattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				pending = math.Max(v, 0)
			}
			return
		}
		if m := silenceEndPattern.FindStringSubmatch(line); m != nil {
			if math.IsNaN(pending) {
				return
			}
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > pending {
				silences = append(silences, Silence{Start: pending, End: v})
			}
			pending = math.NaN()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ffmpeg silencedetect: %w%s", err, tail.Suffix())
	}

	// A start without a matching end means the file trails off in silence;
	// there is no boundary to place inside it, so it is dropped.
	return silences, nil
}
