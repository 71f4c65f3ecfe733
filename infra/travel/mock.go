package travel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dinehop/matchd/core/model"
	coretravel "github.com/dinehop/matchd/core/travel"
)

// MockOracle is an in-memory oracle for tests. Route figures come from the
// haversine approximation unless a fixed answer is set; failures can be
// injected per call site.
type MockOracle struct {
	mu        sync.Mutex
	geo       map[string]model.Location
	FailGeo   bool
	FailRoute bool
	// FixedSeconds, when non-zero, is returned for every route request.
	FixedSeconds float64

	geocodeCalls atomic.Int64
	routeCalls   atomic.Int64
}

var _ coretravel.Oracle = (*MockOracle)(nil)

// NewMockOracle creates an empty mock oracle.
func NewMockOracle() *MockOracle {
	return &MockOracle{geo: map[string]model.Location{}}
}

// SetLocation registers a geocoding answer for an address.
func (m *MockOracle) SetLocation(address string, loc model.Location) {
	m.mu.Lock()
	m.geo[address] = loc
	m.mu.Unlock()
}

// GeocodeCalls returns how many geocode requests were made.
func (m *MockOracle) GeocodeCalls() int64 { return m.geocodeCalls.Load() }

// RouteCalls returns how many route requests were made.
func (m *MockOracle) RouteCalls() int64 { return m.routeCalls.Load() }

func (m *MockOracle) Geocode(_ context.Context, address string) (model.Location, error) {
	m.geocodeCalls.Add(1)
	if m.FailGeo {
		return model.Location{}, errors.New("mock geocode failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.geo[address]
	if !ok {
		return model.Location{}, errors.New("mock geocode miss")
	}
	return loc, nil
}

func (m *MockOracle) Route(_ context.Context, from, to model.Location) (float64, error) {
	m.routeCalls.Add(1)
	if m.FailRoute {
		return 0, errors.New("mock route failure")
	}
	if m.FixedSeconds != 0 {
		return m.FixedSeconds, nil
	}
	return coretravel.HaversineSeconds(from, to), nil
}
