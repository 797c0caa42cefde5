// Package jobs defines the asynchronous analysis-run job and its queue
// abstractions.
package jobs

import (
	"context"
	"time"

	"github.com/ecaldwell/cipher/internal/insight"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// JobStatus is the lifecycle state of an analysis run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// AnalysisJob is one queued analysis run. Failed runs stay failed; model
// calls are not retried automatically.
type AnalysisJob struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`

	// Inputs for the two model calls.
	Transactions []transaction.Transaction `json:"-"`
	Location     string                    `json:"location"`
	Dependents   int                       `json:"dependents"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	// Result is set when the run completes.
	Result *insight.Result `json:"result,omitempty"`
}

// Publisher enqueues analysis jobs.
type Publisher interface {
	PublishAnalysis(ctx context.Context, job *AnalysisJob) error
	Close() error
}

// Consumer processes queued jobs.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler executes one analysis job. A returned error marks the job
// failed.
type JobHandler func(ctx context.Context, job *AnalysisJob) error

// JobStore tracks job state so callers can poll for results.
type JobStore interface {
	SaveJob(ctx context.Context, job *AnalysisJob) error
	GetJob(ctx context.Context, jobID string) (*AnalysisJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*AnalysisJob, error)
}

// JobFilter selects jobs when listing.
type JobFilter struct {
	UserID string
	Status JobStatus
	Limit  int
}
