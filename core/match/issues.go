package match

import "github.com/dinehop/matchd/core/model"

// Issues is the structured problem set extracted from one MatchResult. Each
// field holds the affected unit ids. Used both as scoring input and for
// operator-facing reporting.
type Issues struct {
	MissingParticipants map[string]struct{} `json:"missing_participants"`
	HostReuse           map[string]struct{} `json:"host_reuse"`
	UncoveredAllergies  map[string]struct{} `json:"uncovered_allergies"`
	DietConflicts       map[string]struct{} `json:"diet_conflicts"`
	CapacityMismatches  map[string]struct{} `json:"capacity_mismatches"`
}

// Empty reports whether no issues at all were found.
func (i Issues) Empty() bool { return i.Total() == 0 }

// Total counts all affected units across issue types.
func (i Issues) Total() int {
	return len(i.MissingParticipants) + len(i.HostReuse) + len(i.UncoveredAllergies) +
		len(i.DietConflicts) + len(i.CapacityMismatches)
}

// AnalyzeIssues extracts the problem sets from a candidate result.
func AnalyzeIssues(res model.MatchResult) Issues {
	iss := Issues{
		MissingParticipants: map[string]struct{}{},
		HostReuse:           map[string]struct{}{},
		UncoveredAllergies:  map[string]struct{}{},
		DietConflicts:       map[string]struct{}{},
		CapacityMismatches:  map[string]struct{}{},
	}
	for _, id := range res.Metrics.UnmatchedUnitIDs {
		iss.MissingParticipants[id] = struct{}{}
	}
	for _, u := range res.UnmatchedUnits {
		iss.MissingParticipants[u.TeamID] = struct{}{}
	}
	for _, g := range res.Groups {
		if g.HasWarning(model.WarnHostReuse) {
			iss.HostReuse[g.HostID] = struct{}{}
		}
		if g.HasWarning(model.WarnAllergyUncovered) {
			if len(g.UncoveredAllergies) > 0 {
				for id := range g.UncoveredAllergies {
					iss.UncoveredAllergies[id] = struct{}{}
				}
			} else {
				iss.UncoveredAllergies[g.HostID] = struct{}{}
			}
		}
		if g.HasWarning(model.WarnDietConflict) {
			iss.DietConflicts[g.HostID] = struct{}{}
			for _, id := range g.GuestIDs {
				iss.DietConflicts[id] = struct{}{}
			}
		}
		if g.HasWarning(model.WarnHostCannotMain) || g.HasWarning(model.WarnHostNoKitchen) {
			iss.CapacityMismatches[g.HostID] = struct{}{}
		}
	}
	return iss
}
