package match

import "github.com/dinehop/matchd/core/model"

// OverallScore collapses a MatchResult into one comparable scalar. Higher is
// better; the value only ranks candidates relative to each other within one
// optimization run.
//
// Host reuse counts unique reused hosts and allergy coverage counts unique
// affected units. Whether diet and capacity penalties count per group
// occurrence or per unique unit follows the weights' PenaltyPolicy.
func OverallScore(res model.MatchResult, w Weights) float64 {
	score := res.Metrics.TotalScore
	if res.Metrics.TotalUnitCount > 0 {
		score += float64(res.Metrics.AssignedUnitCount) / float64(res.Metrics.TotalUnitCount) * w.AssignedBonus
	}
	score -= w.UnmatchedParticipant * float64(res.Metrics.UnmatchedParticipantCount)
	score -= w.UnmatchedUnit * float64(res.Metrics.UnmatchedUnitCount)

	reusedHosts := map[string]struct{}{}
	allergyUnits := map[string]struct{}{}
	dietGroups, capGroups := 0, 0
	dietUnits := map[string]struct{}{}
	capUnits := map[string]struct{}{}
	for _, g := range res.Groups {
		if g.HasWarning(model.WarnHostReuse) {
			reusedHosts[g.HostID] = struct{}{}
		}
		if g.HasWarning(model.WarnAllergyUncovered) {
			if len(g.UncoveredAllergies) > 0 {
				for id := range g.UncoveredAllergies {
					allergyUnits[id] = struct{}{}
				}
			} else {
				allergyUnits[g.HostID] = struct{}{}
			}
		}
		if g.HasWarning(model.WarnDietConflict) {
			dietGroups++
			dietUnits[g.HostID] = struct{}{}
			for _, id := range g.GuestIDs {
				dietUnits[id] = struct{}{}
			}
		}
		if g.HasWarning(model.WarnHostCannotMain) || g.HasWarning(model.WarnHostNoKitchen) {
			capGroups++
			capUnits[g.HostID] = struct{}{}
		}
	}

	dietCount, capCount := float64(dietGroups), float64(capGroups)
	if w.PenaltyPolicy == PenaltyPerUnit {
		dietCount, capCount = float64(len(dietUnits)), float64(len(capUnits))
	}
	score -= w.HostReuse * float64(len(reusedHosts))
	score -= w.AllergyUncovered * float64(len(allergyUnits))
	score -= w.DietConflict * dietCount
	score -= w.CapacityMismatch * capCount
	return score
}
