package history

import "time"

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one invocation of the cleanup workflow.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	DryRun      bool
	Libraries   int
	Deleted     int
	Skipped     int
	Failed      int
	ReclaimedGB float64
	Status      Status
	Error       string
}

// Duration reports how long the run took. Unfinished runs report zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Deletion is one item processed during a run.
type Deletion struct {
	RunID     string
	LibraryID int
	MediaType string
	Key       string
	Title     string
	SizeMB    float64
	Confirmed bool
	CreatedAt time.Time
}

// Totals aggregates every completed, non dry-run run.
type Totals struct {
	Runs        int
	Deleted     int
	ReclaimedGB float64
}

// DatabaseHealth describes the state of the history database file.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	IntegrityCheck   bool
	Error            string
}
