package model

// Warning tags a quality problem detected on a group. Warnings degrade the
// score but never abort a run.
type Warning string

const (
	WarnHostReuse        Warning = "host_reuse"
	WarnAllergyUncovered Warning = "allergy_uncovered"
	WarnDietConflict     Warning = "diet_conflict"
	WarnHostCannotMain   Warning = "host_cannot_main"
	WarnHostNoKitchen    Warning = "host_no_kitchen"
)

// Group is one host/guest assignment for a single phase.
type Group struct {
	Phase         Phase                `json:"phase"`
	HostID        string               `json:"host_team_id"`
	GuestIDs      []string             `json:"guest_team_ids"`
	Score         float64              `json:"score"`
	TravelSeconds float64              `json:"travel_seconds"`
	Warnings      map[Warning]struct{} `json:"warnings,omitempty"`
	// UncoveredAllergies maps affected unit ids to the allergies the host
	// cannot cover. Present only when WarnAllergyUncovered is set.
	UncoveredAllergies map[string][]string `json:"uncovered_allergies,omitempty"`
}

// HasWarning reports whether the group carries the given warning.
func (g Group) HasWarning(w Warning) bool {
	_, ok := g.Warnings[w]
	return ok
}

// AddWarning tags the group, allocating the set on first use.
func (g *Group) AddWarning(w Warning) {
	if g.Warnings == nil {
		g.Warnings = make(map[Warning]struct{})
	}
	g.Warnings[w] = struct{}{}
}

// ResultMetrics summarizes one MatchResult.
type ResultMetrics struct {
	TotalScore                float64  `json:"total_score"`
	TotalUnitCount            int      `json:"total_unit_count"`
	AssignedUnitCount         int      `json:"assigned_unit_count"`
	UnmatchedUnitCount        int      `json:"unmatched_unit_count"`
	UnmatchedParticipantCount int      `json:"unmatched_participant_count"`
	UnmatchedUnitIDs          []string `json:"unmatched_unit_ids,omitempty"`
}

// UnmatchedUnit records a unit that could not be placed in every phase.
type UnmatchedUnit struct {
	TeamID      string  `json:"team_id"`
	Size        int     `json:"size"`
	Phases      []Phase `json:"phases"`
	CanHostAny  bool    `json:"can_host_any"`
	CanHostMain bool    `json:"can_host_main"`
}

// MatchResult is the in-memory outcome of one algorithm run.
type MatchResult struct {
	Algorithm      string          `json:"algorithm"`
	Groups         []Group         `json:"groups"`
	Metrics        ResultMetrics   `json:"metrics"`
	UnmatchedUnits []UnmatchedUnit `json:"unmatched_units,omitempty"`
}
