package model

import "time"

// JobStatus is the lifecycle state of a matching job. Completed, failed and
// cancelled are terminal sinks; a job is never reused.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is a sink state.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// MatchingJob wraps one asynchronous matching run.
type MatchingJob struct {
	JobID      string       `json:"job_id"`
	EventID    string       `json:"event_id"`
	Status     JobStatus    `json:"status"`
	Algorithms []string     `json:"algorithms"`
	Result     *MatchResult `json:"result,omitempty"`
	// ProposalVersion is set once the result has been persisted.
	ProposalVersion int       `json:"proposal_version,omitempty"`
	Err             string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	StartedAt       time.Time `json:"started_at,omitempty"`
	FinishedAt      time.Time `json:"finished_at,omitempty"`
}
