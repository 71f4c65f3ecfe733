package match

import (
	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/travel"
)

// Context carries everything an algorithm run needs. The unit snapshot is
// captured once at job start and never mutated; algorithms running
// concurrently share one Context safely as long as they treat Units as
// read-only.
type Context struct {
	EventID string
	Units   []model.MatchingUnit
	Emails  map[string][]string
	Config  Config
	Travel  *travel.Estimator
	Log     logger.Logger

	// DemotedHosts holds unit ids the optimizer wants kept out of host
	// selection for a repair attempt. Nil on the first run.
	DemotedHosts map[string]struct{}
	// PriorityUnits holds unit ids to place before all others, used to
	// repair missing-participant issues.
	PriorityUnits map[string]struct{}
	// Rotation perturbs deterministic orderings between repair attempts.
	Rotation int
}

// WithRepairHints returns a shallow copy carrying the optimizer's hints.
// The unit snapshot is shared, not copied.
func (c *Context) WithRepairHints(demoted, priority map[string]struct{}, rotation int) *Context {
	cp := *c
	cp.DemotedHosts = demoted
	cp.PriorityUnits = priority
	cp.Rotation = rotation
	return &cp
}
