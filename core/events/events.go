// Package events defines the lifecycle events published on the internal bus.
package events

import "github.com/dinehop/matchd/core/model"

// JobEvent marks a job state transition.
type JobEvent struct {
	JobID   string
	EventID string
	Status  model.JobStatus
	Err     error
}

// AlgorithmEvent reports one finished algorithm execution.
type AlgorithmEvent struct {
	EventID   string
	Algorithm string
	Score     float64
	Issues    int
}

// ProposalEvent announces a newly persisted proposal version.
type ProposalEvent struct {
	EventID string
	Version int
}
