package model

import "time"

// ProposalStatus is the lifecycle state of a persisted proposal.
type ProposalStatus string

const (
	ProposalNotStarted ProposalStatus = "not_started"
	ProposalInProgress ProposalStatus = "in_progress"
	ProposalProposed   ProposalStatus = "proposed"
	ProposalFinalized  ProposalStatus = "finalized"
	ProposalArchived   ProposalStatus = "archived"
)

// MatchProposal is a versioned, persisted candidate match for an event.
// Versions are monotone per event and immutable once written; corrections
// produce a new version instead of mutating an existing one.
type MatchProposal struct {
	EventID        string          `json:"event_id"`
	Version        int             `json:"version"`
	Status         ProposalStatus  `json:"status"`
	Algorithm      string          `json:"algorithm"`
	Groups         []Group         `json:"groups"`
	Metrics        ResultMetrics   `json:"metrics"`
	UnmatchedUnits []UnmatchedUnit `json:"unmatched_units,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	FinalizedBy    string          `json:"finalized_by,omitempty"`
	FinalizedAt    *time.Time      `json:"finalized_at,omitempty"`
}
