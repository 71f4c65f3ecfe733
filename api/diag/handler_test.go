package diag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	corediag "github.com/dinehop/matchd/core/diag"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/core/roster"
	"github.com/dinehop/matchd/infra/logger"
)

func newChecker(t *testing.T) *corediag.Checker {
	t.Helper()
	rs := roster.NewMemoryStore()
	rs.AddTeam(roster.Team{ID: "t1", EventID: "evt", MemberEmails: []string{"a@x", "b@x"}})
	rs.AddRegistration(roster.Registration{ID: "r1", EventID: "evt", Email: "a@x", Confirmed: true, TeamID: "t1"})

	ps := proposal.NewMemoryStore()
	err := ps.Insert(context.Background(), model.MatchProposal{
		EventID: "evt",
		Version: 1,
		Status:  model.ProposalProposed,
		UnmatchedUnits: []model.UnmatchedUnit{
			{TeamID: "team:t1", Size: 2, Phases: []model.Phase{model.PhaseMain}},
		},
	})
	require.NoError(t, err)
	return corediag.NewChecker(ps, rs, logger.NopLogger{})
}

func TestIssuesHandler(t *testing.T) {
	h := NewIssuesHandler(newChecker(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events/evt/issues", nil)
	req.SetPathValue("id", "evt")
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var rep corediag.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
	require.Equal(t, "evt", rep.EventID)
	require.Equal(t, 1, rep.ProposalVersion)
	require.Len(t, rep.Teams["team:t1"], 2)
	require.Equal(t, 1, rep.Counts[corediag.RegistrationMissing])
	require.Equal(t, 1, rep.Counts[corediag.PhaseParticipationGap])
}

func TestIssuesHandler_NoProposal(t *testing.T) {
	h := NewIssuesHandler(corediag.NewChecker(proposal.NewMemoryStore(), roster.NewMemoryStore(), logger.NopLogger{}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events/unknown/issues", nil)
	req.SetPathValue("id", "unknown")
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestIssuesHandler_MethodCheck(t *testing.T) {
	h := NewIssuesHandler(newChecker(t))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/events/evt/issues", nil)
	req.SetPathValue("id", "evt")
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
