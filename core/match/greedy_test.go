package match

import (
	"context"
	"reflect"
	"testing"

	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/travel"
	"github.com/dinehop/matchd/infra/logger"
	infratravel "github.com/dinehop/matchd/infra/travel"
)

func testUnit(id string, hostAny, hostMain bool) model.MatchingUnit {
	return model.MatchingUnit{
		ID:          model.TeamID(id),
		Size:        2,
		Location:    &model.Location{Lat: 48.85, Lon: 2.35},
		CanHostAny:  hostAny,
		CanHostMain: hostMain,
	}
}

func greedyContext(units ...model.MatchingUnit) *Context {
	cfg := Config{}
	cfg.SetDefaults()
	est := travel.NewEstimator(infratravel.NewMockOracle(), 2, 2, true, logger.NopLogger{})
	return &Context{
		EventID: "evt",
		Units:   units,
		Config:  cfg,
		Travel:  est,
		Log:     logger.NopLogger{},
	}
}

func TestGreedy_FullAssignment(t *testing.T) {
	mc := greedyContext(
		testUnit("a", true, true),
		testUnit("b", true, true),
		testUnit("c", true, true),
		testUnit("d", true, true),
		testUnit("e", true, true),
		testUnit("f", true, true),
	)
	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Algorithm != "greedy" {
		t.Errorf("algorithm name: %s", res.Algorithm)
	}
	// Six units at group size three form two groups per phase.
	if len(res.Groups) != 6 {
		t.Fatalf("expected 6 groups, got %d", len(res.Groups))
	}
	if res.Metrics.AssignedUnitCount != 6 || res.Metrics.UnmatchedUnitCount != 0 {
		t.Fatalf("unexpected metrics: %#v", res.Metrics)
	}
	for _, g := range res.Groups {
		if len(g.GuestIDs) != 2 {
			t.Errorf("group %s/%s has %d guests", g.Phase, g.HostID, len(g.GuestIDs))
		}
	}
}

func TestGreedy_Deterministic(t *testing.T) {
	build := func() *Context {
		return greedyContext(
			testUnit("a", true, true),
			testUnit("b", true, false),
			testUnit("c", false, true),
			testUnit("d", true, true),
			testUnit("e", false, false),
			testUnit("f", true, true),
		)
	}
	algo := &GreedyAlgorithm{}
	r1, err := algo.Run(context.Background(), build())
	if err != nil {
		t.Fatalf("run 1: %v", err)
	}
	r2, err := algo.Run(context.Background(), build())
	if err != nil {
		t.Fatalf("run 2: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("identical snapshots produced different results:\n%#v\n%#v", r1, r2)
	}
}

func TestGreedy_SingleHostReused(t *testing.T) {
	mc := greedyContext(
		testUnit("h", true, true),
		testUnit("g1", false, false),
		testUnit("g2", false, false),
	)
	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(res.Groups))
	}
	reused := 0
	for _, g := range res.Groups {
		if g.HostID != "team:h" {
			t.Errorf("unexpected host %s", g.HostID)
		}
		if g.HasWarning(model.WarnHostReuse) {
			reused++
		}
	}
	// The first phase is fresh, the remaining two reuse the host.
	if reused != 2 {
		t.Fatalf("expected 2 reuse warnings, got %d", reused)
	}
}

func TestGreedy_NoHostsLeavesUnitsUnmatched(t *testing.T) {
	mc := greedyContext(
		testUnit("g1", false, false),
		testUnit("g2", false, false),
		testUnit("g3", false, false),
	)
	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(res.Groups))
	}
	if res.Metrics.UnmatchedUnitCount != 3 || res.Metrics.UnmatchedParticipantCount != 6 {
		t.Fatalf("unexpected metrics: %#v", res.Metrics)
	}
	if len(res.UnmatchedUnits) != 3 {
		t.Fatalf("expected 3 unmatched records, got %d", len(res.UnmatchedUnits))
	}
	for _, u := range res.UnmatchedUnits {
		if len(u.Phases) != len(mc.Config.Phases) {
			t.Errorf("unit %s missing %d phases, want all %d", u.TeamID, len(u.Phases), len(mc.Config.Phases))
		}
	}
}

func TestGreedy_DietConflictWarning(t *testing.T) {
	host := testUnit("h", true, true)
	host.TeamDiet = model.DietOmnivore
	guest := testUnit("g", false, false)
	guest.TeamDiet = model.DietVegan
	mc := greedyContext(host, guest)
	mc.Config.Phases = []model.Phase{model.PhaseMain}

	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(res.Groups))
	}
	if !res.Groups[0].HasWarning(model.WarnDietConflict) {
		t.Fatalf("expected diet conflict warning, got %#v", res.Groups[0].Warnings)
	}
}

func TestGreedy_AllergyUncoveredWarning(t *testing.T) {
	host := testUnit("h", true, true)
	host.HostAllergies = model.NewStringSet("gluten")
	guest := testUnit("g", false, false)
	guest.Allergies = model.NewStringSet("nuts", "gluten")
	mc := greedyContext(host, guest)
	mc.Config.Phases = []model.Phase{model.PhaseAppetizer}

	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	g := res.Groups[0]
	if !g.HasWarning(model.WarnAllergyUncovered) {
		t.Fatalf("expected allergy warning, got %#v", g.Warnings)
	}
	want := []string{"nuts"}
	if got := g.UncoveredAllergies["team:g"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("uncovered allergies: got %v, want %v", got, want)
	}
}

func TestGreedy_MainHostCapabilityWarning(t *testing.T) {
	// The only host candidate has a kitchen but declined main hosting.
	host := testUnit("h", true, false)
	guest := testUnit("g", false, false)
	mc := greedyContext(host, guest)
	mc.Config.Phases = []model.Phase{model.PhaseMain}

	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Groups[0].HasWarning(model.WarnHostCannotMain) {
		t.Fatalf("expected host cannot main warning, got %#v", res.Groups[0].Warnings)
	}
}

func TestGreedy_DemotedHostRanksLast(t *testing.T) {
	mc := greedyContext(
		testUnit("a", true, true),
		testUnit("b", true, true),
		testUnit("g1", false, false),
	)
	mc.DemotedHosts = map[string]struct{}{"team:a": {}}
	mc.Config.Phases = []model.Phase{model.PhaseAppetizer}

	algo := &GreedyAlgorithm{}
	res, err := algo.Run(context.Background(), mc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Groups[0].HostID != "team:b" {
		t.Fatalf("expected non-demoted host team:b, got %s", res.Groups[0].HostID)
	}
}

func TestGreedy_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mc := greedyContext(testUnit("a", true, true))
	algo := &GreedyAlgorithm{}
	if _, err := algo.Run(ctx, mc); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
