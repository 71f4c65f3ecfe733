// Package job runs matching jobs asynchronously and persists their outcome.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dinehop/matchd/core/events"
	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/match"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/proposal"
	"github.com/dinehop/matchd/internal/eventbus"
)

// ErrJobNotFound is returned when no job matches the id.
var ErrJobNotFound = errors.New("job: not found")

// versionRetryLimit bounds the insert retries under version conflicts.
const versionRetryLimit = 32

type runningJob struct {
	job    model.MatchingJob
	cancel context.CancelFunc
}

// Orchestrator owns the asynchronous job lifecycle:
// pending -> running -> {completed | failed | cancelled}. Each job captures
// its unit snapshot and configuration at start; jobs for different events
// run concurrently without shared mutable state.
type Orchestrator struct {
	manager *match.Manager
	store   proposal.Store
	bus     eventbus.EventBus
	log     logger.Logger

	mu   sync.Mutex
	jobs map[string]*runningJob
}

// NewOrchestrator creates an orchestrator. The bus may be nil.
func NewOrchestrator(manager *match.Manager, store proposal.Store, bus eventbus.EventBus, log logger.Logger) (*Orchestrator, error) {
	if manager == nil || store == nil {
		return nil, fmt.Errorf("job: nil parameter provided to NewOrchestrator")
	}
	return &Orchestrator{
		manager: manager,
		store:   store,
		bus:     bus,
		log:     log,
		jobs:    map[string]*runningJob{},
	}, nil
}

// Start creates a job and schedules its run. The returned id is immediately
// pollable. Input validation happens inside the run so invalid requests
// surface as failed jobs with a structured error, per the job contract.
func (o *Orchestrator) Start(eventID string, algorithms []string, cfg match.Config) string {
	if len(algorithms) == 0 {
		algorithms = []string{"greedy"}
	}
	jobCtx, cancel := context.WithCancel(context.Background())
	rj := &runningJob{
		job: model.MatchingJob{
			JobID:      uuid.NewString(),
			EventID:    eventID,
			Status:     model.JobPending,
			Algorithms: append([]string(nil), algorithms...),
			CreatedAt:  time.Now().UTC(),
		},
		cancel: cancel,
	}
	o.mu.Lock()
	o.jobs[rj.job.JobID] = rj
	o.mu.Unlock()
	jobsStarted.Inc()
	go o.run(jobCtx, rj.job.JobID, eventID, algorithms, cfg)
	return rj.job.JobID
}

// Status returns a copy of the job.
func (o *Orchestrator) Status(jobID string) (model.MatchingJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rj, ok := o.jobs[jobID]
	if !ok {
		return model.MatchingJob{}, ErrJobNotFound
	}
	return rj.job, nil
}

// Cancel requests cooperative cancellation. Terminal jobs are left alone.
func (o *Orchestrator) Cancel(jobID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	rj, ok := o.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if rj.job.Status.Terminal() {
		return nil
	}
	rj.cancel()
	return nil
}

// Finalize transitions a proposed proposal to finalized on behalf of an
// operator. This is the only path to the finalized status.
func (o *Orchestrator) Finalize(ctx context.Context, eventID string, version int, operator string) (model.MatchProposal, error) {
	return o.store.Finalize(ctx, eventID, version, operator)
}

func (o *Orchestrator) run(ctx context.Context, jobID, eventID string, algorithms []string, cfg match.Config) {
	start := time.Now()
	o.transition(jobID, func(j *model.MatchingJob) {
		j.Status = model.JobRunning
		j.StartedAt = start.UTC()
	})
	o.publish(jobID, eventID, model.JobRunning, nil)

	result, version, err := o.execute(ctx, eventID, algorithms, cfg)
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil):
		o.finish(jobID, eventID, start, func(j *model.MatchingJob) {
			j.Status = model.JobCancelled
		})
	case err != nil:
		o.log.Errorf("job %s failed: %v", jobID, err)
		msg := err.Error()
		o.finish(jobID, eventID, start, func(j *model.MatchingJob) {
			j.Status = model.JobFailed
			j.Err = msg
		})
	default:
		o.finish(jobID, eventID, start, func(j *model.MatchingJob) {
			j.Status = model.JobCompleted
			j.Result = &result
			j.ProposalVersion = version
		})
	}
}

// execute is the job body: snapshot, run, optimize, persist. Cancellation is
// observed between stages; a cancelled job persists nothing.
func (o *Orchestrator) execute(ctx context.Context, eventID string, algorithms []string, cfg match.Config) (model.MatchResult, int, error) {
	snap, err := o.manager.Snapshot(ctx, eventID, cfg)
	if err != nil {
		return model.MatchResult{}, 0, err
	}
	if err := ctx.Err(); err != nil {
		return model.MatchResult{}, 0, err
	}
	results, err := o.manager.RunAlgorithms(ctx, snap, algorithms)
	if err != nil {
		return model.MatchResult{}, 0, err
	}
	best := match.PickBest(results, cfg.WeightDefaults)
	if err := ctx.Err(); err != nil {
		return model.MatchResult{}, 0, err
	}
	algo, err := o.manager.Registry().Resolve([]string{best.Algorithm})
	if err != nil {
		return model.MatchResult{}, 0, err
	}
	best, err = match.Optimize(ctx, algo[0], snap.Context, best, cfg.WeightDefaults, cfg.MaxOptimizeAttempts)
	if err != nil {
		return model.MatchResult{}, 0, err
	}
	if err := ctx.Err(); err != nil {
		return model.MatchResult{}, 0, err
	}
	version, err := o.persist(ctx, eventID, best)
	if err != nil {
		return model.MatchResult{}, 0, err
	}
	return best, version, nil
}

// persist writes the result as the next proposal version. Concurrent
// completions for one event are resolved by retrying with the next version;
// a conflict never overwrites and never surfaces to the caller.
func (o *Orchestrator) persist(ctx context.Context, eventID string, res model.MatchResult) (int, error) {
	for attempt := 0; attempt < versionRetryLimit; attempt++ {
		maxV, err := o.store.MaxVersion(ctx, eventID)
		if err != nil {
			return 0, fmt.Errorf("proposal version lookup: %w", err)
		}
		p := model.MatchProposal{
			EventID:        eventID,
			Version:        maxV + 1,
			Status:         model.ProposalProposed,
			Algorithm:      res.Algorithm,
			Groups:         res.Groups,
			Metrics:        res.Metrics,
			UnmatchedUnits: res.UnmatchedUnits,
			CreatedAt:      time.Now().UTC(),
		}
		err = o.store.Insert(ctx, p)
		if errors.Is(err, proposal.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("persist proposal: %w", err)
		}
		proposalVersion.WithLabelValues(eventID).Set(float64(p.Version))
		if o.bus != nil {
			o.bus.Publish(events.ProposalEvent{EventID: eventID, Version: p.Version})
		}
		return p.Version, nil
	}
	return 0, fmt.Errorf("persist proposal: gave up after %d version conflicts", versionRetryLimit)
}

func (o *Orchestrator) transition(jobID string, mutate func(*model.MatchingJob)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if rj, ok := o.jobs[jobID]; ok {
		mutate(&rj.job)
	}
}

func (o *Orchestrator) finish(jobID, eventID string, start time.Time, mutate func(*model.MatchingJob)) {
	var status model.JobStatus
	o.transition(jobID, func(j *model.MatchingJob) {
		mutate(j)
		j.FinishedAt = time.Now().UTC()
		status = j.Status
	})
	jobsFinished.WithLabelValues(string(status)).Inc()
	jobDuration.Observe(time.Since(start).Seconds())
	o.publish(jobID, eventID, status, nil)
}

func (o *Orchestrator) publish(jobID, eventID string, status model.JobStatus, err error) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(events.JobEvent{JobID: jobID, EventID: eventID, Status: status, Err: err})
}
