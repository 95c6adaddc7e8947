package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
)

const (
	defaultSpeechInterval = 30 * time.Second
	defaultSpeechWindow   = 10 * time.Second
	minUsableClip         = time.Second
)

// chapterPhrasePattern matches spoken chapter announcements: "chapter",
// "part", or "section" followed by a digit, a number word, or a roman
// numeral.
var chapterPhrasePattern = regexp.MustCompile(`(?i)\b(?:chapter|part|section)\s+(?:\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|[ivxlcdm]+)\b`)

// speechStrategy walks the file in fixed strides, transcribes a short clip at
// each stop, and marks a boundary wherever the transcript announces a
// chapter. One recognition call is in flight at a time, each clip lives only
// for its own window, and a failed call skips the window instead of aborting
// the scan.
type speechStrategy struct {
	r *Resolver
}

func (s speechStrategy) resolve(ctx context.Context, req request) ([]chapters.Spec, Method, error) {
	duration, ok := fileDuration(req.probe)
	if !ok {
		return nil, MethodSpeech, chapters.Wrap(chapters.ErrResolution, "speech", "input reports no duration", nil)
	}
	if s.r.clips == nil || s.r.recognizer == nil {
		return nil, MethodSpeech, chapters.Wrap(chapters.ErrResolution, "speech", "transcription backend not configured", nil)
	}

	interval := req.opts.SpeechInterval
	if interval <= 0 {
		interval = defaultSpeechInterval
	}
	window := req.opts.SpeechWindow
	if window <= 0 {
		window = defaultSpeechWindow
	}
	if window > interval {
		window = interval
	}

	tempDir, err := os.MkdirTemp("", "chapterize-speech-*")
	if err != nil {
		return nil, MethodSpeech, chapters.Wrap(chapters.ErrResolution, "speech", "create clip directory", err)
	}
	defer os.RemoveAll(tempDir)

	var bounds []time.Duration
	for offset := time.Duration(0); offset < duration; offset += interval {
		if err := ctx.Err(); err != nil {
			return nil, MethodSpeech, chapters.Wrap(chapters.ErrResolution, "speech", "scan interrupted", err)
		}

		clipLen := window
		if remaining := duration - offset; remaining < clipLen {
			clipLen = remaining
		}
		if clipLen < minUsableClip {
			break
		}

		matched, err := s.scanWindow(ctx, req.input, tempDir, offset, clipLen)
		if err != nil {
			if ctx.Err() != nil {
				return nil, MethodSpeech, chapters.Wrap(chapters.ErrResolution, "speech", "scan interrupted", ctx.Err())
			}
			skip := chapters.Wrap(chapters.ErrRecognitionSkipped, "speech", fmt.Sprintf("window at %s", chapters.FormatTimestamp(offset)), err)
			s.r.logger.Warn("skipping window", logging.Error(skip))
			continue
		}
		if matched {
			s.r.logger.Info("chapter announcement found",
				logging.Duration("offset", offset))
			bounds = append(bounds, offset)
		}
	}

	if len(bounds) == 0 {
		s.r.logger.Info("no chapter announcements recognized, falling back to silence detection",
			logging.String(logging.FieldInput, req.input))
		return silenceStrategy{s.r}.resolve(ctx, req)
	}

	return specsFromBoundaries(bounds, duration, req.opts.OpeningCreditsMax), MethodSpeech, nil
}

// scanWindow extracts one clip, transcribes it, and reports whether the
// transcript announces a chapter. The clip is removed before returning.
func (s speechStrategy) scanWindow(ctx context.Context, input, tempDir string, offset, clipLen time.Duration) (bool, error) {
	clipPath := filepath.Join(tempDir, fmt.Sprintf("clip_%09d.wav", int64(offset/time.Millisecond)))
	defer os.Remove(clipPath)

	if err := s.r.clips.ExtractClip(ctx, input, offset, clipLen, clipPath); err != nil {
		return false, err
	}
	text, err := s.r.recognizer.Recognize(ctx, clipPath)
	if err != nil {
		return false, err
	}
	return chapterPhrasePattern.MatchString(text), nil
}
