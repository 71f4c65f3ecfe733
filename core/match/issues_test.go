package match

import (
	"testing"

	"github.com/dinehop/matchd/core/model"
)

func TestAnalyzeIssues_Empty(t *testing.T) {
	iss := AnalyzeIssues(model.MatchResult{})
	if !iss.Empty() || iss.Total() != 0 {
		t.Fatalf("expected empty issues, got %#v", iss)
	}
}

func TestAnalyzeIssues_CollectsAllTypes(t *testing.T) {
	g := model.Group{
		Phase:    model.PhaseMain,
		HostID:   "team:h1",
		GuestIDs: []string{"team:g1"},
		UncoveredAllergies: map[string][]string{
			"team:g1": {"nuts"},
		},
	}
	g.AddWarning(model.WarnHostReuse)
	g.AddWarning(model.WarnAllergyUncovered)
	g.AddWarning(model.WarnDietConflict)
	g.AddWarning(model.WarnHostCannotMain)
	res := model.MatchResult{
		Groups: []model.Group{g},
		Metrics: model.ResultMetrics{
			UnmatchedUnitIDs: []string{"solo:u9"},
		},
		UnmatchedUnits: []model.UnmatchedUnit{{TeamID: "team:t7"}},
	}

	iss := AnalyzeIssues(res)
	if _, ok := iss.MissingParticipants["solo:u9"]; !ok {
		t.Errorf("missing participant solo:u9 not recorded")
	}
	if _, ok := iss.MissingParticipants["team:t7"]; !ok {
		t.Errorf("missing participant team:t7 not recorded")
	}
	if _, ok := iss.HostReuse["team:h1"]; !ok {
		t.Errorf("host reuse not recorded")
	}
	if _, ok := iss.UncoveredAllergies["team:g1"]; !ok {
		t.Errorf("uncovered allergy unit not recorded")
	}
	if _, ok := iss.DietConflicts["team:h1"]; !ok {
		t.Errorf("diet conflict host not recorded")
	}
	if _, ok := iss.DietConflicts["team:g1"]; !ok {
		t.Errorf("diet conflict guest not recorded")
	}
	if _, ok := iss.CapacityMismatches["team:h1"]; !ok {
		t.Errorf("capacity mismatch not recorded")
	}
	if iss.Total() != 7 {
		t.Fatalf("expected total 7, got %d", iss.Total())
	}
}

func TestAnalyzeIssues_AllergyFallbackToHost(t *testing.T) {
	g := model.Group{Phase: model.PhaseDessert, HostID: "team:h1"}
	g.AddWarning(model.WarnAllergyUncovered)
	iss := AnalyzeIssues(model.MatchResult{Groups: []model.Group{g}})
	if _, ok := iss.UncoveredAllergies["team:h1"]; !ok {
		t.Fatalf("expected host fallback for allergy issue, got %#v", iss.UncoveredAllergies)
	}
}
