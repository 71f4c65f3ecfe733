package travel

import (
	"context"
	"errors"

	"github.com/dinehop/matchd/core/model"
)

// ErrNoLocation is returned when a travel figure is requested for a unit
// without a geocoded location.
var ErrNoLocation = errors.New("travel: no location")

// Geocoder resolves a postal address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Location, error)
}

// Router estimates the travel time in seconds between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to model.Location) (float64, error)
}

// Oracle is the external travel-cost boundary: geocoding plus routing.
// Implementations live in infra/travel; failures are always soft for
// callers, a missing figure degrades the score instead of failing the job.
type Oracle interface {
	Geocoder
	Router
}
