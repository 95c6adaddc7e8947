package chapters

import (
	"fmt"
	"time"
)

// Spec describes one chapter boundary pair within a source audio file.
// Start is inclusive, End exclusive; both are offsets from the start of the
// file.
type Spec struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// Duration returns the chapter length.
func (s Spec) Duration() time.Duration {
	return s.End - s.Start
}

// Validate ensures the boundary pair is usable for extraction.
func (s Spec) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("chapter %q: negative start %s", s.Title, FormatTimestamp(s.Start))
	}
	if s.End <= s.Start {
		return fmt.Errorf("chapter %q: end %s is not after start %s", s.Title, FormatTimestamp(s.End), FormatTimestamp(s.Start))
	}
	return nil
}

// Result records the outcome of exporting one chapter. A failed chapter keeps
// its boundary data, carries Err, and has an empty OutputPath.
type Result struct {
	Spec
	Index      int
	OutputPath string
	Err        error
}

// Failed reports whether the chapter export was recorded as failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// DefaultTitle returns the fallback title for a 1-based chapter position.
func DefaultTitle(position int) string {
	return fmt.Sprintf("Chapter %d", position)
}

// ValidateSequence checks every spec in order and confirms the sequence is
// sorted by start time without overlaps. Gaps are allowed; callers that
// require full tiling enforce that themselves.
func ValidateSequence(specs []Spec) error {
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		if i > 0 && spec.Start < specs[i-1].End {
			return fmt.Errorf("chapter %q: start %s overlaps previous chapter ending at %s",
				spec.Title, FormatTimestamp(spec.Start), FormatTimestamp(specs[i-1].End))
		}
	}
	return nil
}
