package match

import (
	"fmt"

	"github.com/dinehop/matchd/core/model"
)

// Weights configures the overall-score computation and the penalty counting
// policy for group-level warnings.
type Weights struct {
	AssignedBonus        float64 `json:"assigned_bonus" yaml:"assigned_bonus"`
	UnmatchedParticipant float64 `json:"unmatched_participant" yaml:"unmatched_participant"`
	UnmatchedUnit        float64 `json:"unmatched_unit" yaml:"unmatched_unit"`
	HostReuse            float64 `json:"host_reuse" yaml:"host_reuse"`
	AllergyUncovered     float64 `json:"allergy_uncovered" yaml:"allergy_uncovered"`
	DietConflict         float64 `json:"diet_conflict" yaml:"diet_conflict"`
	CapacityMismatch     float64 `json:"capacity_mismatch" yaml:"capacity_mismatch"`
	// PenaltyPolicy selects whether diet and capacity penalties count per
	// affected group occurrence ("per_group") or per unique affected unit
	// ("per_unit").
	PenaltyPolicy string `json:"penalty_policy" yaml:"penalty_policy"`
}

const (
	PenaltyPerGroup = "per_group"
	PenaltyPerUnit  = "per_unit"
)

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		AssignedBonus:        500,
		UnmatchedParticipant: 1000,
		UnmatchedUnit:        500,
		HostReuse:            200,
		AllergyUncovered:     150,
		DietConflict:         100,
		CapacityMismatch:     80,
		PenaltyPolicy:        PenaltyPerGroup,
	}
}

// SetDefaults fills zero-valued weights with the standard constants.
func (w *Weights) SetDefaults() {
	def := DefaultWeights()
	if w.AssignedBonus == 0 {
		w.AssignedBonus = def.AssignedBonus
	}
	if w.UnmatchedParticipant == 0 {
		w.UnmatchedParticipant = def.UnmatchedParticipant
	}
	if w.UnmatchedUnit == 0 {
		w.UnmatchedUnit = def.UnmatchedUnit
	}
	if w.HostReuse == 0 {
		w.HostReuse = def.HostReuse
	}
	if w.AllergyUncovered == 0 {
		w.AllergyUncovered = def.AllergyUncovered
	}
	if w.DietConflict == 0 {
		w.DietConflict = def.DietConflict
	}
	if w.CapacityMismatch == 0 {
		w.CapacityMismatch = def.CapacityMismatch
	}
	if w.PenaltyPolicy == "" {
		w.PenaltyPolicy = def.PenaltyPolicy
	}
}

// Validate checks the penalty policy.
func (w Weights) Validate() error {
	if w.PenaltyPolicy != PenaltyPerGroup && w.PenaltyPolicy != PenaltyPerUnit {
		return fmt.Errorf("unknown penalty policy %q", w.PenaltyPolicy)
	}
	return nil
}

// Config holds the knobs recognized by the matching core. A job captures a
// copy at start; a configuration reload never affects running jobs.
type Config struct {
	HostCandidateLimit  int               `json:"host_candidate_limit" yaml:"host_candidate_limit"`
	GuestCandidateLimit int               `json:"guest_candidate_limit" yaml:"guest_candidate_limit"`
	AllowTeamSplits     bool              `json:"allow_team_splits" yaml:"allow_team_splits"`
	RoutingParallelism  int               `json:"routing_parallelism" yaml:"routing_parallelism"`
	GeocodeParallelism  int               `json:"geocode_parallelism" yaml:"geocode_parallelism"`
	GroupSize           int               `json:"group_size" yaml:"group_size"`
	MaxOptimizeAttempts int               `json:"max_optimize_attempts" yaml:"max_optimize_attempts"`
	FastTravel          bool              `json:"fast_travel" yaml:"fast_travel"`
	Phases              []model.Phase     `json:"phases" yaml:"phases"`
	MealTimeDefaults    map[string]string `json:"meal_time_defaults" yaml:"meal_time_defaults"`
	WeightDefaults      Weights           `json:"weight_defaults" yaml:"weight_defaults"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.HostCandidateLimit == 0 {
		c.HostCandidateLimit = 50
	}
	if c.GuestCandidateLimit == 0 {
		c.GuestCandidateLimit = 50
	}
	if c.RoutingParallelism == 0 {
		c.RoutingParallelism = 4
	}
	if c.GeocodeParallelism == 0 {
		c.GeocodeParallelism = 2
	}
	if c.GroupSize == 0 {
		c.GroupSize = 3
	}
	if c.MaxOptimizeAttempts == 0 {
		c.MaxOptimizeAttempts = 5
	}
	if len(c.Phases) == 0 {
		c.Phases = model.DefaultPhases()
	}
	if c.MealTimeDefaults == nil {
		c.MealTimeDefaults = map[string]string{
			"appetizer": "18:00",
			"main":      "20:00",
			"dessert":   "22:00",
		}
	}
	c.WeightDefaults.SetDefaults()
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.RoutingParallelism < 1 || c.GeocodeParallelism < 1 {
		return fmt.Errorf("parallelism limits must be positive")
	}
	if c.GroupSize < 2 {
		return fmt.Errorf("group size must be at least 2")
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("at least one phase is required")
	}
	seen := map[model.Phase]struct{}{}
	for _, p := range c.Phases {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("duplicate phase %q", p)
		}
		seen[p] = struct{}{}
	}
	return c.WeightDefaults.Validate()
}
