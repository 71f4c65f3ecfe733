package travel

import (
	"context"
	"math"
	"sync"

	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/model"
)

// fastSpeedKmh is the assumed straight-line speed used by the fast mode.
const fastSpeedKmh = 30.0

// Estimator computes group travel figures through an Oracle with independent
// bounded worker pools for geocoding and routing. An Estimator is created per
// job from the job's configuration snapshot, so parallelism changes between
// jobs never affect a running one.
type Estimator struct {
	oracle     Oracle
	routeSlots chan struct{}
	geoSlots   chan struct{}
	fast       bool
	log        logger.Logger
}

// NewEstimator creates an Estimator. Parallelism limits below one are raised
// to one. When fast is true, routing bypasses the oracle and uses a
// haversine approximation.
func NewEstimator(oracle Oracle, routingParallelism, geocodeParallelism int, fast bool, log logger.Logger) *Estimator {
	if routingParallelism < 1 {
		routingParallelism = 1
	}
	if geocodeParallelism < 1 {
		geocodeParallelism = 1
	}
	return &Estimator{
		oracle:     oracle,
		routeSlots: make(chan struct{}, routingParallelism),
		geoSlots:   make(chan struct{}, geocodeParallelism),
		fast:       fast,
		log:        log,
	}
}

// ResolveLocations geocodes units that carry an address but no coordinate
// yet, with bounded fan-out. Geocode misses are soft: the unit keeps a nil
// location and is penalized during scoring.
func (e *Estimator) ResolveLocations(ctx context.Context, units []model.MatchingUnit) []model.MatchingUnit {
	out := append([]model.MatchingUnit(nil), units...)
	var wg sync.WaitGroup
	for i := range out {
		if out[i].Location != nil || out[i].Address == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case e.geoSlots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-e.geoSlots }()
			loc, err := e.oracle.Geocode(ctx, out[i].Address)
			if err != nil {
				e.log.Warnf("geocode miss for %s: %v", out[i].ID, err)
				return
			}
			out[i].Location = &loc
		}(i)
	}
	wg.Wait()
	return out
}

// GroupSeconds sums the travel seconds from every guest to the host, with
// bounded routing fan-out. The second return value counts legs for which no
// figure could be obtained; callers flag and penalize those instead of
// failing.
func (e *Estimator) GroupSeconds(ctx context.Context, host model.MatchingUnit, guests []model.MatchingUnit) (float64, int) {
	if host.Location == nil {
		return 0, len(guests)
	}
	secs := make([]float64, len(guests))
	missing := make([]bool, len(guests))
	var wg sync.WaitGroup
	for i, g := range guests {
		if g.Location == nil {
			missing[i] = true
			continue
		}
		wg.Add(1)
		go func(i int, from model.Location) {
			defer wg.Done()
			s, err := e.Seconds(ctx, from, *host.Location)
			if err != nil {
				missing[i] = true
				return
			}
			secs[i] = s
		}(i, *g.Location)
	}
	wg.Wait()
	var total float64
	var miss int
	for i := range secs {
		if missing[i] {
			miss++
			continue
		}
		total += secs[i]
	}
	return total, miss
}

// Seconds estimates the travel time for one leg, honoring the routing
// parallelism bound. Fast mode never touches the oracle.
func (e *Estimator) Seconds(ctx context.Context, from, to model.Location) (float64, error) {
	if e.fast {
		return HaversineSeconds(from, to), nil
	}
	select {
	case e.routeSlots <- struct{}{}:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	defer func() { <-e.routeSlots }()
	return e.oracle.Route(ctx, from, to)
}

// HaversineSeconds approximates travel time from the great-circle distance
// at a fixed average speed.
func HaversineSeconds(from, to model.Location) float64 {
	const earthRadiusKm = 6371.0
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLon := (to.Lon - from.Lon) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	km := 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
	return km / fastSpeedKmh * 3600
}
