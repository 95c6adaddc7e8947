package resolver

import (
	"context"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
)

// silenceStrategy places a boundary at the midpoint of every qualifying quiet
// span. Midpoints that would produce a chapter shorter than the configured
// minimum are suppressed, and a synthetic end-of-file boundary always closes
// the last chapter. A file with no detected silence becomes a single chapter.
type silenceStrategy struct {
	r *Resolver
}

func (s silenceStrategy) resolve(ctx context.Context, req request) ([]chapters.Spec, Method, error) {
	duration, ok := fileDuration(req.probe)
	if !ok {
		return nil, MethodSilence, chapters.Wrap(chapters.ErrResolution, "silence", "input reports no duration", nil)
	}
	if s.r.silence == nil {
		return nil, MethodSilence, chapters.Wrap(chapters.ErrResolution, "silence", "silence scanner not configured", nil)
	}

	spans, err := s.r.silence.DetectSilence(ctx, req.input, req.opts.ThresholdDB, req.opts.MinSilence)
	if err != nil {
		return nil, MethodSilence, chapters.Wrap(chapters.ErrResolution, "silence", "silence detection failed", err)
	}
	s.r.logger.Debug("silence scan complete",
		logging.String(logging.FieldInput, req.input),
		logging.Int("span_count", len(spans)))

	minLength := req.opts.MinChapterLength
	if minLength < 0 {
		minLength = 0
	}

	bounds := make([]time.Duration, 0, len(spans))
	last := time.Duration(0)
	for _, span := range spans {
		mid := chapters.FromSeconds(span.Midpoint())
		if minLength > 0 && mid-last < minLength {
			continue
		}
		if minLength > 0 && duration-mid < minLength {
			break
		}
		bounds = append(bounds, mid)
		last = mid
	}

	return specsFromBoundaries(bounds, duration, req.opts.OpeningCreditsMax), MethodSilence, nil
}
