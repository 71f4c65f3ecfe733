package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dinehop/matchd/core/events"
	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/metrics"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/travel"
	"github.com/dinehop/matchd/core/units"
	"github.com/dinehop/matchd/internal/eventbus"
)

// Snapshot is the immutable input captured once per job: the normalized,
// auto-paired unit set and its audit trail.
type Snapshot struct {
	Context  *Context
	Report   units.BuildReport
	Pairings []units.PairingDetail
}

// Manager builds unit snapshots and executes algorithm runs over them.
type Manager struct {
	registry *Registry
	builder  *units.Builder
	oracle   travel.Oracle
	sink     metrics.MatchSink
	bus      eventbus.EventBus
	log      logger.Logger
}

// NewManager creates a new manager. The sink and bus may be nil.
func NewManager(registry *Registry, builder *units.Builder, oracle travel.Oracle, sink metrics.MatchSink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if registry == nil || builder == nil || oracle == nil {
		return nil, fmt.Errorf("match: nil parameter provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		registry: registry,
		builder:  builder,
		oracle:   oracle,
		sink:     sink,
		bus:      bus,
		log:      log,
	}, nil
}

// Registry exposes the algorithm registry, e.g. for request validation.
func (m *Manager) Registry() *Registry { return m.registry }

// Snapshot builds and auto-pairs the unit set for an event and wraps it in
// an algorithm Context. The snapshot is taken once per job and treated as
// immutable afterwards, even if registrations change concurrently.
func (m *Manager) Snapshot(ctx context.Context, eventID string, cfg Config) (*Snapshot, error) {
	us, emails, report, err := m.builder.Build(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(us) == 0 {
		return nil, fmt.Errorf("%w: event %s", ErrNoUnits, eventID)
	}
	est := travel.NewEstimator(m.oracle, cfg.RoutingParallelism, cfg.GeocodeParallelism, cfg.FastTravel, m.log)
	us = est.ResolveLocations(ctx, us)
	us, emails, pairings := units.AutoPairSolos(us, emails)
	if len(pairings) > 0 {
		m.log.Infof("auto-paired %d solos for event %s", len(pairings)*2, eventID)
	}
	return &Snapshot{
		Context: &Context{
			EventID: eventID,
			Units:   us,
			Emails:  emails,
			Config:  cfg,
			Travel:  est,
			Log:     m.log,
		},
		Report:   report,
		Pairings: pairings,
	}, nil
}

// RunAlgorithms executes every requested algorithm concurrently over the
// shared snapshot and returns one result per name, in request order. Unknown
// names fail before any work starts.
func (m *Manager) RunAlgorithms(ctx context.Context, snap *Snapshot, names []string) ([]model.MatchResult, error) {
	algos, err := m.registry.Resolve(names)
	if err != nil {
		return nil, err
	}
	results := make([]model.MatchResult, len(algos))
	errs := make([]error, len(algos))
	var wg sync.WaitGroup
	for i, a := range algos {
		wg.Add(1)
		go func(i int, a Algorithm) {
			defer wg.Done()
			start := time.Now()
			res, err := a.Run(ctx, snap.Context)
			algorithmRuns.WithLabelValues(a.Name()).Inc()
			algorithmDuration.WithLabelValues(a.Name()).Observe(time.Since(start).Seconds())
			if err != nil {
				errs[i] = fmt.Errorf("algorithm %s: %w", a.Name(), err)
				return
			}
			results[i] = res
			if m.bus != nil {
				m.bus.Publish(events.AlgorithmEvent{
					EventID:   snap.Context.EventID,
					Algorithm: a.Name(),
					Score:     OverallScore(res, snap.Context.Config.WeightDefaults),
					Issues:    AnalyzeIssues(res).Total(),
				})
			}
		}(i, a)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, res := range results {
		if err := m.sink.RecordMatchResult(snap.Context.EventID, res); err != nil {
			m.log.Errorf("match sink error: %v", err)
		}
	}
	return results, nil
}

// PickBest returns the highest-scoring result. Ties keep the earlier
// request order.
func PickBest(results []model.MatchResult, w Weights) model.MatchResult {
	best := results[0]
	bestScore := OverallScore(best, w)
	for _, r := range results[1:] {
		if s := OverallScore(r, w); s > bestScore {
			best, bestScore = r, s
		}
	}
	return best
}
