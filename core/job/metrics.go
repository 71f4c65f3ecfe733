package job

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	jobsStarted     prometheus.Counter
	jobsFinished    *prometheus.CounterVec
	jobDuration     prometheus.Histogram
	proposalVersion *prometheus.GaugeVec
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, prometheus.Histogram, *prometheus.GaugeVec) {
	started := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_jobs_started_total",
			Help: "Number of matching jobs started",
		},
	)
	finished := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_jobs_finished_total",
			Help: "Number of matching jobs by terminal status",
		},
		[]string{"status"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_job_duration_seconds",
			Help:    "Wall time of one matching job from start to terminal state",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
	ver := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "match_proposal_version",
			Help: "Latest persisted proposal version per event",
		},
		[]string{"event_id"},
	)
	return started, finished, dur, ver
}

func init() {
	jobsStarted, jobsFinished, jobDuration, proposalVersion = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers job metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(jobsStarted, jobsFinished, jobDuration, proposalVersion)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	jobsStarted, jobsFinished, jobDuration, proposalVersion = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
