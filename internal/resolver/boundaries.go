package resolver

import (
	"time"

	"chapterize/internal/chapters"
)

// specsFromBoundaries tiles [0, duration) around the given interior
// boundaries and assigns generated titles. Boundaries outside (0, duration)
// or out of order are discarded, and a first boundary under creditsMax is
// dropped so the opening-credits segment folds into chapter 1.
func specsFromBoundaries(bounds []time.Duration, duration, creditsMax time.Duration) []chapters.Spec {
	interior := make([]time.Duration, 0, len(bounds))
	for _, b := range bounds {
		if b <= 0 || b >= duration {
			continue
		}
		if len(interior) > 0 && b <= interior[len(interior)-1] {
			continue
		}
		interior = append(interior, b)
	}

	if len(interior) > 0 && creditsMax > 0 && interior[0] < creditsMax {
		interior = interior[1:]
	}

	starts := append([]time.Duration{0}, interior...)
	specs := make([]chapters.Spec, 0, len(starts))
	for i, start := range starts {
		end := duration
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		specs = append(specs, chapters.Spec{
			Title: chapters.DefaultTitle(i + 1),
			Start: start,
			End:   end,
		})
	}
	return specs
}

// MergeOpeningCredits folds a leading segment shorter than threshold into the
// chapter that follows it. The surviving chapter keeps its own title, so an
// embedded "Opening Credits" entry disappears rather than renaming chapter 1.
// Explicit user-supplied chapter lists are never passed through this.
func MergeOpeningCredits(specs []chapters.Spec, threshold time.Duration) []chapters.Spec {
	if threshold <= 0 || len(specs) < 2 {
		return specs
	}
	first := specs[0]
	if first.Start != 0 || first.Duration() >= threshold {
		return specs
	}
	merged := specs[1]
	merged.Start = 0
	out := make([]chapters.Spec, 0, len(specs)-1)
	out = append(out, merged)
	out = append(out, specs[2:]...)
	return out
}
