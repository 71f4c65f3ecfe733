package match

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/dinehop/matchd/core/model"
)

// Group score components. Base value per formed group, minus travel minutes,
// a deduction per warning and a deduction per travel leg the oracle could
// not price.
const (
	groupBaseScore      = 100.0
	warningDeduction    = 15.0
	missingLegDeduction = 25.0
)

// GreedyAlgorithm assigns units phase by phase in one deterministic pass.
// Hosts are picked by capability and freshness, guests attach to the group
// with the lowest travel time. Tie-breaks are ascending travel seconds, then
// host unit id, so identical snapshots always produce identical results.
type GreedyAlgorithm struct{}

func (GreedyAlgorithm) Name() string { return "greedy" }

type groupDraft struct {
	host   model.MatchingUnit
	guests []model.MatchingUnit
}

func (a *GreedyAlgorithm) Run(ctx context.Context, mc *Context) (model.MatchResult, error) {
	units := orderedUnits(mc)
	res := model.MatchResult{Algorithm: a.Name()}
	if len(units) == 0 {
		return res, nil
	}
	groupSize := mc.Config.GroupSize
	legs := newLegCache(mc)

	usedHosts := map[string]struct{}{}
	attendance := make(map[string]map[model.Phase]struct{}, len(units))
	for _, u := range units {
		attendance[u.ID.String()] = map[model.Phase]struct{}{}
	}

	for _, phase := range mc.Config.Phases {
		select {
		case <-ctx.Done():
			return res, fmt.Errorf("greedy run: %w", ctx.Err())
		default:
		}
		need := (len(units) + groupSize - 1) / groupSize
		hosts := selectHosts(mc, units, phase, need, usedHosts)
		if len(hosts) == 0 {
			mc.Log.Warnf("phase %s: no eligible hosts, all units unmatched", phase)
			continue
		}
		drafts := make([]*groupDraft, len(hosts))
		placed := map[string]struct{}{}
		for i, h := range hosts {
			drafts[i] = &groupDraft{host: h}
			placed[h.ID.String()] = struct{}{}
		}
		for _, u := range units {
			if _, ok := placed[u.ID.String()]; ok {
				continue
			}
			d := bestDraft(ctx, mc, legs, u, drafts, groupSize)
			if d == nil {
				continue
			}
			d.guests = append(d.guests, u)
			placed[u.ID.String()] = struct{}{}
		}
		for _, d := range drafts {
			g := finishGroup(ctx, mc, phase, d, usedHosts)
			res.Groups = append(res.Groups, g)
		}
		for id := range placed {
			attendance[id][phase] = struct{}{}
		}
		for _, h := range hosts {
			usedHosts[h.ID.String()] = struct{}{}
		}
	}

	fillMetrics(&res, units, attendance, mc.Config.Phases)
	return res, nil
}

// orderedUnits returns the snapshot in the deterministic assignment order:
// optimizer-prioritized units first, then ascending unit id rotated by the
// repair attempt counter.
func orderedUnits(mc *Context) []model.MatchingUnit {
	units := append([]model.MatchingUnit(nil), mc.Units...)
	sort.Slice(units, func(i, j int) bool {
		return units[i].ID.String() < units[j].ID.String()
	})
	if r := mc.Rotation % max(len(units), 1); r > 0 {
		units = append(units[r:], units[:r]...)
	}
	if len(mc.PriorityUnits) > 0 {
		sort.SliceStable(units, func(i, j int) bool {
			_, pi := mc.PriorityUnits[units[i].ID.String()]
			_, pj := mc.PriorityUnits[units[j].ID.String()]
			return pi && !pj
		})
	}
	return units
}

// selectHosts ranks host candidates for a phase and takes the first need of
// them. Ranking: non-demoted before demoted, fresh before reused, capability
// fit for the phase, course preference match, then unit id. The candidate
// list is capped by host_candidate_limit before selection.
func selectHosts(mc *Context, units []model.MatchingUnit, phase model.Phase, need int, usedHosts map[string]struct{}) []model.MatchingUnit {
	var cands []model.MatchingUnit
	for _, u := range units {
		if u.Hostless() || !u.CanHost(phase) {
			continue
		}
		cands = append(cands, u)
	}
	rank := func(u model.MatchingUnit) (int, int, int, int, string) {
		demoted := 0
		if _, ok := mc.DemotedHosts[u.ID.String()]; ok {
			demoted = 1
		}
		reused := 0
		if _, ok := usedHosts[u.ID.String()]; ok {
			reused = 1
		}
		badFit := 0
		if phase == model.PhaseMain && !u.CanHostMain {
			badFit = 1
		}
		prefMiss := 0
		if u.CoursePreference != phase {
			prefMiss = 1
		}
		return demoted, reused, badFit, prefMiss, u.ID.String()
	}
	sort.Slice(cands, func(i, j int) bool {
		d1, r1, b1, p1, id1 := rank(cands[i])
		d2, r2, b2, p2, id2 := rank(cands[j])
		if d1 != d2 {
			return d1 < d2
		}
		if r1 != r2 {
			return r1 < r2
		}
		if b1 != b2 {
			return b1 < b2
		}
		if p1 != p2 {
			return p1 < p2
		}
		return id1 < id2
	})
	if len(cands) > mc.Config.HostCandidateLimit {
		cands = cands[:mc.Config.HostCandidateLimit]
	}
	if len(cands) > need {
		cands = cands[:need]
	}
	return cands
}

// bestDraft picks the open group with the cheapest travel for the guest,
// breaking ties on host id. Groups beyond guest_candidate_limit are not
// evaluated. Returns nil when every group is full.
func bestDraft(ctx context.Context, mc *Context, legs *legCache, guest model.MatchingUnit, drafts []*groupDraft, groupSize int) *groupDraft {
	var best *groupDraft
	bestCost := 0.0
	bestKnown := false
	considered := 0
	for _, d := range drafts {
		if 1+len(d.guests) >= groupSize {
			continue
		}
		if considered >= mc.Config.GuestCandidateLimit {
			break
		}
		considered++
		cost, known := legs.seconds(ctx, guest, d.host)
		switch {
		case best == nil:
			best, bestCost, bestKnown = d, cost, known
		case known && !bestKnown:
			best, bestCost, bestKnown = d, cost, known
		case known == bestKnown && cost < bestCost:
			best, bestCost = d, cost
		case known == bestKnown && cost == bestCost && d.host.ID.String() < best.host.ID.String():
			best = d
		}
	}
	return best
}

// finishGroup prices the draft's travel and derives its warnings.
func finishGroup(ctx context.Context, mc *Context, phase model.Phase, d *groupDraft, usedHosts map[string]struct{}) model.Group {
	g := model.Group{
		Phase:  phase,
		HostID: d.host.ID.String(),
	}
	for _, guest := range d.guests {
		g.GuestIDs = append(g.GuestIDs, guest.ID.String())
	}

	if _, reused := usedHosts[g.HostID]; reused {
		g.AddWarning(model.WarnHostReuse)
	}
	if phase == model.PhaseMain && !d.host.CanHostMain {
		g.AddWarning(model.WarnHostCannotMain)
	}
	if phase != model.PhaseMain && !d.host.CanHostAny {
		g.AddWarning(model.WarnHostNoKitchen)
	}
	for _, guest := range d.guests {
		if guest.TeamDiet > d.host.TeamDiet {
			g.AddWarning(model.WarnDietConflict)
		}
		var uncovered []string
		for allergy := range guest.Allergies {
			if _, ok := d.host.HostAllergies[allergy]; !ok {
				uncovered = append(uncovered, allergy)
			}
		}
		if len(uncovered) > 0 {
			sort.Strings(uncovered)
			if g.UncoveredAllergies == nil {
				g.UncoveredAllergies = map[string][]string{}
			}
			g.UncoveredAllergies[guest.ID.String()] = uncovered
			g.AddWarning(model.WarnAllergyUncovered)
		}
	}

	seconds, missing := mc.Travel.GroupSeconds(ctx, d.host, d.guests)
	if missing > 0 {
		oracleMisses.Add(float64(missing))
	}
	g.TravelSeconds = seconds
	g.Score = groupBaseScore - seconds/60 -
		warningDeduction*float64(len(g.Warnings)) -
		missingLegDeduction*float64(missing)
	return g
}

// fillMetrics derives result metrics and the unmatched unit records from the
// phase attendance table.
func fillMetrics(res *model.MatchResult, units []model.MatchingUnit, attendance map[string]map[model.Phase]struct{}, phases []model.Phase) {
	scores := make([]float64, len(res.Groups))
	for i, g := range res.Groups {
		scores[i] = g.Score
	}
	m := &res.Metrics
	m.TotalScore = floats.Sum(scores)
	m.TotalUnitCount = len(units)

	for _, u := range units {
		var missing []model.Phase
		for _, p := range phases {
			if _, ok := attendance[u.ID.String()][p]; !ok {
				missing = append(missing, p)
			}
		}
		if len(missing) == 0 {
			m.AssignedUnitCount++
			continue
		}
		m.UnmatchedUnitCount++
		m.UnmatchedParticipantCount += u.Size
		m.UnmatchedUnitIDs = append(m.UnmatchedUnitIDs, u.ID.String())
		res.UnmatchedUnits = append(res.UnmatchedUnits, model.UnmatchedUnit{
			TeamID:      u.ID.String(),
			Size:        u.Size,
			Phases:      missing,
			CanHostAny:  u.CanHostAny,
			CanHostMain: u.CanHostMain,
		})
	}
	sort.Strings(m.UnmatchedUnitIDs)
	sort.Slice(res.UnmatchedUnits, func(i, j int) bool {
		return res.UnmatchedUnits[i].TeamID < res.UnmatchedUnits[j].TeamID
	})
}
