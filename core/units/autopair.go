package units

import (
	"sort"

	"github.com/dinehop/matchd/core/model"
)

// PairingDetail records one solo merge for auditability.
type PairingDetail struct {
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
	PairID  string `json:"pair_id"`
}

// AutoPairSolos merges compatible single-person units into synthetic pair
// units before assignment. Only size-1, non-split units with at least one
// hosting capability are considered; a solo that can never host is left
// untouched since pairing it would not produce a hostable unit either way.
// Unpaired units pass through unchanged in both the unit list and the email
// map, and a pass over a set with no eligible pairs returns identical
// structures.
func AutoPairSolos(units []model.MatchingUnit, unitEmails map[string][]string) ([]model.MatchingUnit, map[string][]string, []PairingDetail) {
	var eligible []int
	for i, u := range units {
		if u.Size != 1 || !u.ID.Pairable() || u.Hostless() {
			continue
		}
		eligible = append(eligible, i)
	}
	if len(eligible) < 2 {
		return units, unitEmails, nil
	}

	// Deterministic pairing order: ascending unit id, greedy first-fit.
	sort.Slice(eligible, func(a, b int) bool {
		return units[eligible[a]].ID.String() < units[eligible[b]].ID.String()
	})

	paired := make(map[int]struct{})
	var details []PairingDetail
	var pairs []model.MatchingUnit
	for x := 0; x+1 < len(eligible); x += 2 {
		li, ri := eligible[x], eligible[x+1]
		left, right := units[li], units[ri]
		merged := mergeSolos(left, right)
		paired[li] = struct{}{}
		paired[ri] = struct{}{}
		pairs = append(pairs, merged)
		details = append(details, PairingDetail{
			LeftID:  left.ID.String(),
			RightID: right.ID.String(),
			PairID:  merged.ID.String(),
		})
	}

	out := make([]model.MatchingUnit, 0, len(units)-len(paired)+len(pairs))
	outEmails := make(map[string][]string, len(unitEmails))
	for i, u := range units {
		if _, ok := paired[i]; ok {
			continue
		}
		out = append(out, u)
		if es, ok := unitEmails[u.ID.String()]; ok {
			outEmails[u.ID.String()] = es
		}
	}
	for _, p := range pairs {
		out = append(out, p)
		outEmails[p.ID.String()] = append([]string(nil), p.HostEmails...)
	}
	return out, outEmails, details
}

// mergeSolos combines two eligible solos into one pair unit. Capabilities OR,
// diet takes the stricter, allergies union, ordering of gender mix and
// emails preserves the left unit first so its email stays the primary
// contact.
func mergeSolos(l, r model.MatchingUnit) model.MatchingUnit {
	m := model.MatchingUnit{
		ID:            model.PairID(l.ID.ID, r.ID.ID),
		Size:          2,
		Location:      l.Location,
		TeamDiet:      model.Strictest(l.TeamDiet, r.TeamDiet),
		Allergies:     model.UnionSets(l.Allergies, r.Allergies),
		HostAllergies: model.UnionSets(l.HostAllergies, r.HostAllergies),
		CanHostAny:    l.CanHostAny || r.CanHostAny,
		CanHostMain:   l.CanHostMain || r.CanHostMain,
	}
	if m.Location == nil {
		m.Location = r.Location
	}
	m.CoursePreference = l.CoursePreference
	if m.CoursePreference == model.PhaseNone {
		m.CoursePreference = r.CoursePreference
	}
	m.HostEmails = append(append([]string(nil), l.HostEmails...), r.HostEmails...)
	m.MemberProfiles = append(append([]model.MemberProfile(nil), l.MemberProfiles...), r.MemberProfiles...)
	m.GenderMix = append(append([]string(nil), l.GenderMix...), r.GenderMix...)
	return m
}
