package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dinehop/matchd/core/model"
	coretravel "github.com/dinehop/matchd/core/travel"
)

// HTTPOracle talks to external geocoding and routing HTTP services. Both
// endpoints answer JSON GET requests:
//
//	GET <geocodeURL>?q=<address>      -> {"lat": .., "lon": ..}
//	GET <routeURL>?from=lat,lon&to=lat,lon -> {"seconds": ..}
type HTTPOracle struct {
	geocodeURL string
	routeURL   string
	client     *http.Client
}

// NewHTTPOracle creates an oracle for the given service endpoints.
func NewHTTPOracle(geocodeURL, routeURL string, timeout time.Duration) *HTTPOracle {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPOracle{
		geocodeURL: geocodeURL,
		routeURL:   routeURL,
		client:     &http.Client{Timeout: timeout},
	}
}

var _ coretravel.Oracle = (*HTTPOracle)(nil)

func (o *HTTPOracle) Geocode(ctx context.Context, address string) (model.Location, error) {
	u := fmt.Sprintf("%s?q=%s", o.geocodeURL, url.QueryEscape(address))
	var out model.Location
	if err := o.getJSON(ctx, u, &out); err != nil {
		return model.Location{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return out, nil
}

func (o *HTTPOracle) Route(ctx context.Context, from, to model.Location) (float64, error) {
	u := fmt.Sprintf("%s?from=%f,%f&to=%f,%f", o.routeURL, from.Lat, from.Lon, to.Lat, to.Lon)
	var out struct {
		Seconds float64 `json:"seconds"`
	}
	if err := o.getJSON(ctx, u, &out); err != nil {
		return 0, fmt.Errorf("route: %w", err)
	}
	return out.Seconds, nil
}

func (o *HTTPOracle) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
