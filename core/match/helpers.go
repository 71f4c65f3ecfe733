package match

import (
	"context"
	"sync"

	"github.com/dinehop/matchd/core/model"
)

// legCache memoizes per-leg travel figures within one algorithm run so the
// same guest/host pair is never priced twice.
type legCache struct {
	mc *Context
	mu sync.Mutex
	// secs holds known figures, misses holds legs the oracle failed on.
	secs   map[string]float64
	misses map[string]struct{}
}

func newLegCache(mc *Context) *legCache {
	return &legCache{
		mc:     mc,
		secs:   map[string]float64{},
		misses: map[string]struct{}{},
	}
}

// seconds returns the travel figure from guest to host and whether it is
// known. Units without locations and oracle failures yield unknown, which
// callers rank after any known figure.
func (c *legCache) seconds(ctx context.Context, guest, host model.MatchingUnit) (float64, bool) {
	if guest.Location == nil || host.Location == nil {
		return 0, false
	}
	key := guest.ID.String() + "|" + host.ID.String()
	c.mu.Lock()
	if s, ok := c.secs[key]; ok {
		c.mu.Unlock()
		return s, true
	}
	if _, ok := c.misses[key]; ok {
		c.mu.Unlock()
		return 0, false
	}
	c.mu.Unlock()

	s, err := c.mc.Travel.Seconds(ctx, *guest.Location, *host.Location)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.misses[key] = struct{}{}
		oracleMisses.Inc()
		return 0, false
	}
	c.secs[key] = s
	return s, true
}
