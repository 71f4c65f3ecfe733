package match

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	algorithmRuns     *prometheus.CounterVec
	algorithmDuration *prometheus.HistogramVec
	optimizerAttempts prometheus.Counter
	oracleMisses      prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, prometheus.Counter, prometheus.Counter) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_algorithm_runs_total",
			Help: "Number of algorithm executions",
		},
		[]string{"algorithm"},
	)
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_algorithm_duration_seconds",
			Help:    "Wall time of one algorithm execution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)
	opt := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "match_optimizer_attempts_total",
			Help: "Number of optimizer repair attempts",
		},
	)
	miss := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "match_oracle_misses_total",
			Help: "Number of travel legs the oracle could not price",
		},
	)
	return runs, dur, opt, miss
}

func init() {
	algorithmRuns, algorithmDuration, optimizerAttempts, oracleMisses = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers match metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(algorithmRuns, algorithmDuration, optimizerAttempts, oracleMisses)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	algorithmRuns, algorithmDuration, optimizerAttempts, oracleMisses = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
