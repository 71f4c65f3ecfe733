package diag

import (
	"context"
	"testing"

	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/core/roster"
	"github.com/dinehop/matchd/infra/logger"
)

func TestListIssues_MissingRegistrationAndPhaseGap(t *testing.T) {
	rs := roster.NewMemoryStore()
	rs.AddTeam(roster.Team{ID: "t1", EventID: "evt", MemberEmails: []string{"a@x", "b@x"}})
	rs.AddRegistration(roster.Registration{ID: "r1", EventID: "evt", Email: "a@x", Confirmed: true, TeamID: "t1"})
	// b@x never registered.

	ps := proposal.NewMemoryStore()
	p := model.MatchProposal{
		EventID: "evt",
		Version: 1,
		Status:  model.ProposalProposed,
		UnmatchedUnits: []model.UnmatchedUnit{
			{TeamID: "team:t1", Size: 2, Phases: []model.Phase{model.PhaseDessert}},
		},
	}
	if err := ps.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c := NewChecker(ps, rs, logger.NopLogger{})
	rep, err := c.ListIssues(context.Background(), "evt")
	if err != nil {
		t.Fatalf("list issues: %v", err)
	}
	if rep.ProposalVersion != 1 {
		t.Fatalf("expected version 1, got %d", rep.ProposalVersion)
	}
	issues := rep.Teams["team:t1"]
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues for team:t1, got %d: %#v", len(issues), issues)
	}
	if rep.Counts[RegistrationMissing] != 1 || rep.Counts[PhaseParticipationGap] != 1 {
		t.Fatalf("unexpected counts: %#v", rep.Counts)
	}
	var sawMissing, sawGap bool
	for _, is := range issues {
		switch is.Type {
		case RegistrationMissing:
			sawMissing = true
			if len(is.MissingEmails) != 1 || is.MissingEmails[0] != "b@x" {
				t.Errorf("missing emails: %#v", is.MissingEmails)
			}
		case PhaseParticipationGap:
			sawGap = true
			if len(is.MissingPhases) != 1 || is.MissingPhases[0] != model.PhaseDessert {
				t.Errorf("missing phases: %#v", is.MissingPhases)
			}
		}
	}
	if !sawMissing || !sawGap {
		t.Fatalf("expected both issue types, got %#v", issues)
	}
	if got := rep.Actors[RegistrationMissing]["team:t1"]; len(got) != 1 || got[0] != "b@x" {
		t.Errorf("actors for missing registration: %#v", got)
	}
}

func TestListIssues_NoProposal(t *testing.T) {
	c := NewChecker(proposal.NewMemoryStore(), roster.NewMemoryStore(), logger.NopLogger{})
	if _, err := c.ListIssues(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error when no proposal exists")
	}
}

func TestListIssues_CleanEvent(t *testing.T) {
	rs := roster.NewMemoryStore()
	rs.AddTeam(roster.Team{ID: "t1", EventID: "evt", MemberEmails: []string{"a@x"}})
	rs.AddRegistration(roster.Registration{ID: "r1", EventID: "evt", Email: "a@x", Confirmed: true, TeamID: "t1"})

	ps := proposal.NewMemoryStore()
	if err := ps.Insert(context.Background(), model.MatchProposal{EventID: "evt", Version: 1, Status: model.ProposalProposed}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c := NewChecker(ps, rs, logger.NopLogger{})
	rep, err := c.ListIssues(context.Background(), "evt")
	if err != nil {
		t.Fatalf("list issues: %v", err)
	}
	if len(rep.Teams) != 0 || len(rep.Counts) != 0 {
		t.Fatalf("expected clean report, got %#v", rep)
	}
}
