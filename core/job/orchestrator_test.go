package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dinehop/matchd/core/match"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/core/roster"
	"github.com/dinehop/matchd/core/units"
	"github.com/dinehop/matchd/infra/logger"
	infratravel "github.com/dinehop/matchd/infra/travel"
)

func boolPtr(b bool) *bool { return &b }

func seedRoster(t *testing.T) *roster.MemoryStore {
	t.Helper()
	rs := roster.NewMemoryStore()
	for i, id := range []string{"t1", "t2", "t3"} {
		rs.AddTeam(roster.Team{ID: id, EventID: "evt", MemberEmails: []string{id + "-a@x", id + "-b@x"}})
		for _, suffix := range []string{"-a@x", "-b@x"} {
			rs.AddRegistration(roster.Registration{
				ID:          id + suffix,
				EventID:     "evt",
				Email:       id + suffix,
				Confirmed:   true,
				TeamID:      id,
				CanHostMain: boolPtr(true),
				HasKitchen:  boolPtr(true),
				Location:    &model.Location{Lat: 48.85 + float64(i)*0.01, Lon: 2.35},
			})
		}
	}
	return rs
}

func testConfig() match.Config {
	cfg := match.Config{FastTravel: true}
	cfg.SetDefaults()
	return cfg
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *match.Manager, *proposal.MemoryStore) {
	t.Helper()
	builder := units.NewBuilder(seedRoster(t), logger.NopLogger{})
	manager, err := match.NewManager(match.NewRegistry(), builder, infratravel.NewMockOracle(), nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	store := proposal.NewMemoryStore()
	o, err := NewOrchestrator(manager, store, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o, manager, store
}

func waitTerminal(t *testing.T, o *Orchestrator, jobID string) model.MatchingJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := o.Status(jobID)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if j.Status.Terminal() {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", jobID)
	return model.MatchingJob{}
}

func TestOrchestrator_CompletesAndPersists(t *testing.T) {
	o, _, store := newTestOrchestrator(t)
	id := o.Start("evt", nil, testConfig())
	j := waitTerminal(t, o, id)
	if j.Status != model.JobCompleted {
		t.Fatalf("expected completed, got %s (err %q)", j.Status, j.Err)
	}
	if j.Result == nil {
		t.Fatalf("completed job carries no result")
	}
	if j.ProposalVersion != 1 {
		t.Fatalf("expected proposal version 1, got %d", j.ProposalVersion)
	}
	p, err := store.Latest(context.Background(), "evt")
	if err != nil {
		t.Fatalf("latest proposal: %v", err)
	}
	if p.Version != 1 || p.Status != model.ProposalProposed || p.Algorithm != "greedy" {
		t.Fatalf("unexpected proposal: %#v", p)
	}

	// A second run persists the next version, never overwriting.
	id2 := o.Start("evt", []string{"greedy"}, testConfig())
	j2 := waitTerminal(t, o, id2)
	if j2.Status != model.JobCompleted || j2.ProposalVersion != 2 {
		t.Fatalf("second job: status %s, version %d", j2.Status, j2.ProposalVersion)
	}
}

func TestOrchestrator_UnknownAlgorithmFailsJob(t *testing.T) {
	o, _, store := newTestOrchestrator(t)
	id := o.Start("evt", []string{"nope"}, testConfig())
	j := waitTerminal(t, o, id)
	if j.Status != model.JobFailed {
		t.Fatalf("expected failed, got %s", j.Status)
	}
	if !strings.Contains(j.Err, "unknown algorithm") {
		t.Fatalf("unexpected error message: %q", j.Err)
	}
	if v, _ := store.MaxVersion(context.Background(), "evt"); v != 0 {
		t.Fatalf("failed job persisted a proposal: version %d", v)
	}
}

func TestOrchestrator_EmptyEventFailsJob(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	id := o.Start("nobody-registered", nil, testConfig())
	j := waitTerminal(t, o, id)
	if j.Status != model.JobFailed {
		t.Fatalf("expected failed, got %s", j.Status)
	}
}

// blockingAlgorithm parks until its context is cancelled.
type blockingAlgorithm struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingAlgorithm) Name() string { return "block" }

func (b *blockingAlgorithm) Run(ctx context.Context, _ *match.Context) (model.MatchResult, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return model.MatchResult{}, ctx.Err()
}

func TestOrchestrator_CancelPersistsNothing(t *testing.T) {
	o, manager, store := newTestOrchestrator(t)
	block := &blockingAlgorithm{started: make(chan struct{})}
	manager.Registry().Register(block)

	id := o.Start("evt", []string{"block"}, testConfig())
	select {
	case <-block.started:
	case <-time.After(5 * time.Second):
		t.Fatalf("algorithm never started")
	}
	if err := o.Cancel(id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	j := waitTerminal(t, o, id)
	if j.Status != model.JobCancelled {
		t.Fatalf("expected cancelled, got %s (err %q)", j.Status, j.Err)
	}
	if v, _ := store.MaxVersion(context.Background(), "evt"); v != 0 {
		t.Fatalf("cancelled job persisted a proposal: version %d", v)
	}
	// Cancelling a terminal job is a no-op.
	if err := o.Cancel(id); err != nil {
		t.Fatalf("cancel terminal: %v", err)
	}
}

func TestOrchestrator_UnknownJob(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	if _, err := o.Status("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("status: expected ErrJobNotFound, got %v", err)
	}
	if err := o.Cancel("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("cancel: expected ErrJobNotFound, got %v", err)
	}
}

func TestOrchestrator_Finalize(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	id := o.Start("evt", nil, testConfig())
	j := waitTerminal(t, o, id)
	if j.Status != model.JobCompleted {
		t.Fatalf("expected completed, got %s", j.Status)
	}
	p, err := o.Finalize(context.Background(), "evt", j.ProposalVersion, "ops@x")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if p.Status != model.ProposalFinalized || p.FinalizedBy != "ops@x" {
		t.Fatalf("unexpected proposal: %#v", p)
	}
}
