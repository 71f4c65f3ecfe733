// Package diag cross-checks persisted proposals against live roster state.
package diag

import (
	"context"
	"fmt"
	"sort"

	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/core/roster"
)

// IssueType classifies an operational issue.
type IssueType string

const (
	// RegistrationMissing flags a team member whose email has no confirmed
	// registration for the event.
	RegistrationMissing IssueType = "registration_missing"
	// PhaseParticipationGap flags a team left without coverage for one or
	// more required phases.
	PhaseParticipationGap IssueType = "phase_participation_gap"
)

// TeamIssue is one issue attached to a team.
type TeamIssue struct {
	TeamID        string        `json:"team_id"`
	Type          IssueType     `json:"type"`
	MissingEmails []string      `json:"missing_emails,omitempty"`
	MissingPhases []model.Phase `json:"missing_phases,omitempty"`
}

// Report is the operator-facing diagnostics output: per-team issues,
// event-wide counts and an actors map grouping supporting detail by issue
// type.
type Report struct {
	EventID         string                            `json:"event_id"`
	ProposalVersion int                               `json:"proposal_version"`
	Teams           map[string][]TeamIssue            `json:"teams"`
	Counts          map[IssueType]int                 `json:"counts"`
	Actors          map[IssueType]map[string][]string `json:"actors"`
}

// Checker runs read-only diagnostics, independent of the optimizer.
type Checker struct {
	proposals proposal.Store
	roster    roster.Store
	log       logger.Logger
}

// NewChecker creates a Checker.
func NewChecker(proposals proposal.Store, rosterStore roster.Store, log logger.Logger) *Checker {
	return &Checker{proposals: proposals, roster: rosterStore, log: log}
}

// ListIssues inspects the latest persisted proposal for the event.
func (c *Checker) ListIssues(ctx context.Context, eventID string) (Report, error) {
	p, err := c.proposals.Latest(ctx, eventID)
	if err != nil {
		return Report{}, fmt.Errorf("load proposal: %w", err)
	}
	regs, err := c.roster.ConfirmedRegistrations(ctx, eventID)
	if err != nil {
		return Report{}, fmt.Errorf("load registrations: %w", err)
	}
	teams, err := c.roster.Teams(ctx, eventID)
	if err != nil {
		return Report{}, fmt.Errorf("load teams: %w", err)
	}

	rep := Report{
		EventID:         eventID,
		ProposalVersion: p.Version,
		Teams:           map[string][]TeamIssue{},
		Counts:          map[IssueType]int{},
		Actors:          map[IssueType]map[string][]string{},
	}

	confirmed := map[string]struct{}{}
	for _, r := range regs {
		confirmed[r.Email] = struct{}{}
	}
	for _, t := range teams {
		var missing []string
		for _, email := range t.MemberEmails {
			if _, ok := confirmed[email]; !ok {
				missing = append(missing, email)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		teamID := model.TeamID(t.ID).String()
		rep.add(TeamIssue{TeamID: teamID, Type: RegistrationMissing, MissingEmails: missing}, missing)
	}

	for _, u := range p.UnmatchedUnits {
		if len(u.Phases) == 0 {
			continue
		}
		phases := make([]string, len(u.Phases))
		for i, ph := range u.Phases {
			phases[i] = string(ph)
		}
		rep.add(TeamIssue{TeamID: u.TeamID, Type: PhaseParticipationGap, MissingPhases: u.Phases}, phases)
	}
	return rep, nil
}

func (r *Report) add(issue TeamIssue, detail []string) {
	r.Teams[issue.TeamID] = append(r.Teams[issue.TeamID], issue)
	r.Counts[issue.Type]++
	if r.Actors[issue.Type] == nil {
		r.Actors[issue.Type] = map[string][]string{}
	}
	r.Actors[issue.Type][issue.TeamID] = detail
}
