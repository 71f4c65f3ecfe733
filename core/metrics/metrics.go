// Package metrics defines the observability boundary for match results.
package metrics

import (
	"github.com/dinehop/matchd/core/model"
)

// MatchSink records finished match results for observability purposes.
// Failures are soft: a sink error is logged, never propagated into the job.
type MatchSink interface {
	RecordMatchResult(eventID string, res model.MatchResult) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordMatchResult(string, model.MatchResult) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MatchSink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...MatchSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordMatchResult(eventID string, res model.MatchResult) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordMatchResult(eventID, res); err != nil && first == nil {
			first = err
		}
	}
	return first
}
