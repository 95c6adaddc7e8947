package history

import "time"

// Status classifies how a recorded run ended.
type Status string

const (
	// StatusCompleted means every chapter exported successfully.
	StatusCompleted Status = "completed"
	// StatusPartial means at least one chapter exported and at least one failed.
	StatusPartial Status = "partial"
	// StatusFailed means the run produced no usable output.
	StatusFailed Status = "failed"
	// StatusCanceled means the run was interrupted before finishing.
	StatusCanceled Status = "canceled"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID           int64
	RunID        string
	Input        string
	OutputDir    string
	Method       string
	Format       string
	Bitrate      string
	Mono         bool
	ChapterCount int
	FailedCount  int
	Status       Status
	ManifestPath string
	ManifestJSON string
	ErrorText    string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns the wall-clock span of the run, or zero when either
// timestamp is missing.
func (r *Run) Duration() time.Duration {
	if r == nil || r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
