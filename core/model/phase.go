package model

// Phase names one course of the progressive dinner. Phases are plain strings
// so events can define custom course lists; the three classic courses are
// predeclared.
type Phase string

const (
	PhaseNone      Phase = ""
	PhaseAppetizer Phase = "appetizer"
	PhaseMain      Phase = "main"
	PhaseDessert   Phase = "dessert"
)

// DefaultPhases is the classic three-course ordering.
func DefaultPhases() []Phase {
	return []Phase{PhaseAppetizer, PhaseMain, PhaseDessert}
}
