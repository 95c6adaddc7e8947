package pipeline

import (
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/history"
	"chapterize/internal/resolver"
)

// Stage identifies the pipeline phase a Progress event belongs to.
type Stage string

const (
	StageProbe   Stage = "probe"
	StageResolve Stage = "resolve"
	StageExport  Stage = "export"
	StageTag     Stage = "tag"
	StageFinish  Stage = "finish"
)

// Progress is one human-readable pipeline event. Percent is negative when
// the stage cannot quantify how far along it is.
type Progress struct {
	Stage   Stage
	Percent float64
	Message string
}

// Summary describes how a run ended.
type Summary struct {
	RunID     string
	Input     string
	BookTitle string
	OutputDir string

	// Method is the strategy that actually produced the boundaries, which
	// differs from the requested one after a fallback.
	Method  resolver.Method
	Format  string
	Bitrate string
	Mono    bool

	Results       []chapters.Result
	ExportedCount int
	FailedCount   int
	ManifestPath  string
	Status        history.Status

	StartedAt  time.Time
	FinishedAt time.Time
}

// ChapterCount returns the number of resolved chapters.
func (s *Summary) ChapterCount() int {
	return len(s.Results)
}

// Elapsed returns the wall-clock duration of the run.
func (s *Summary) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
