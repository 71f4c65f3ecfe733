// Package app wires the matching engine into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apidiag "github.com/dinehop/matchd/api/diag"
	apijobs "github.com/dinehop/matchd/api/jobs"
	"github.com/dinehop/matchd/config"
	"github.com/dinehop/matchd/core/diag"
	"github.com/dinehop/matchd/core/job"
	"github.com/dinehop/matchd/core/match"
	coremetrics "github.com/dinehop/matchd/core/metrics"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/core/roster"
	"github.com/dinehop/matchd/core/travel"
	"github.com/dinehop/matchd/core/units"
	"github.com/dinehop/matchd/infra/logger"
	inframetrics "github.com/dinehop/matchd/infra/metrics"
	infratravel "github.com/dinehop/matchd/infra/travel"
	"github.com/dinehop/matchd/internal/eventbus"
)

// Service owns the wired engine: orchestrator, diagnostics and the HTTP
// surface.
type Service struct {
	Orchestrator *job.Orchestrator
	Manager      *match.Manager
	Checker      *diag.Checker
	Proposals    proposal.Store

	cfg    *config.Store
	bus    eventbus.EventBus
	log    logger.Logger
	closer func()
}

// New creates a Service from the configuration. The roster store is injected
// so deployments can bring their own registration backend; the proposal
// store defaults to the in-memory implementation.
func New(cfgStore *config.Store, rosterStore roster.Store) (*Service, error) {
	logg := logger.New("service")
	snap := cfgStore.Snapshot()

	var oracle travel.Oracle
	if snap.Travel.GeocodeURL != "" || snap.Travel.RouteURL != "" {
		oracle = infratravel.NewHTTPOracle(
			snap.Travel.GeocodeURL,
			snap.Travel.RouteURL,
			time.Duration(snap.Travel.TimeoutSeconds)*time.Second,
		)
	} else {
		// No external services configured: geocode misses are soft and
		// routing falls back to the haversine fast path.
		oracle = infratravel.NewMockOracle()
	}

	var sink coremetrics.MatchSink = coremetrics.NopSink{}
	var closer func()
	if snap.Metrics.InfluxEnabled {
		s := inframetrics.NewInfluxSinkWithFallback(
			snap.Metrics.InfluxURL,
			snap.Metrics.InfluxToken,
			snap.Metrics.InfluxOrg,
			snap.Metrics.InfluxBucket,
		)
		sink = s
		if is, ok := s.(*inframetrics.InfluxSink); ok {
			closer = is.Close
		}
	}

	bus := eventbus.New()
	builder := units.NewBuilder(rosterStore, logg)
	manager, err := match.NewManager(match.NewRegistry(), builder, oracle, sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("match manager: %w", err)
	}
	proposals := proposal.NewMemoryStore()
	orc, err := job.NewOrchestrator(manager, proposals, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("job orchestrator: %w", err)
	}

	return &Service{
		Orchestrator: orc,
		Manager:      manager,
		Checker:      diag.NewChecker(proposals, rosterStore, logg),
		Proposals:    proposals,
		cfg:          cfgStore,
		bus:          bus,
		log:          logg,
		closer:       closer,
	}, nil
}

// Handler builds the HTTP routing table.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/match/jobs", apijobs.NewStartHandler(s.Orchestrator, s.cfg.Matching))
	mux.Handle("GET /api/match/jobs/{id}", apijobs.NewStatusHandler(s.Orchestrator))
	mux.Handle("POST /api/match/jobs/{id}/cancel", apijobs.NewCancelHandler(s.Orchestrator))
	mux.Handle("GET /api/events/{id}/issues", apidiag.NewIssuesHandler(s.Checker))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Run serves the HTTP surface and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Snapshot().HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("http listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.closer != nil {
		s.closer()
	}
	s.bus.Close()
	return nil
}
