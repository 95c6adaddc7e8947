package resolver

import (
	"context"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
)

// metadataStrategy reads the container's embedded chapter table. Well-tagged
// audiobooks resolve instantly this way; untagged files fall back to silence
// detection instead of failing.
type metadataStrategy struct {
	r *Resolver
}

func (s metadataStrategy) resolve(ctx context.Context, req request) ([]chapters.Spec, Method, error) {
	embedded := req.probe.Chapters
	if len(embedded) == 0 {
		s.r.logger.Info("no embedded chapters, falling back to silence detection",
			logging.String(logging.FieldInput, req.input))
		return silenceStrategy{s.r}.resolve(ctx, req)
	}

	specs := make([]chapters.Spec, 0, len(embedded))
	for i, ch := range embedded {
		title := ch.Title()
		if title == "" {
			title = chapters.DefaultTitle(i + 1)
		}
		specs = append(specs, chapters.Spec{
			Title: title,
			Start: chapters.FromSeconds(ch.StartSeconds()),
			End:   chapters.FromSeconds(ch.EndSeconds()),
		})
	}

	// Chapter tables sometimes start a hair after zero or stop short of the
	// container duration; clamp so the sequence tiles the whole file.
	specs[0].Start = 0
	if duration, ok := fileDuration(req.probe); ok && specs[len(specs)-1].End < duration {
		specs[len(specs)-1].End = duration
	}

	return MergeOpeningCredits(specs, req.opts.OpeningCreditsMax), MethodMetadata, nil
}
