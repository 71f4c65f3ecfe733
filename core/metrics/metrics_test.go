package metrics

import (
	"errors"
	"testing"

	"github.com/dinehop/matchd/core/model"
)

type countingSink struct {
	calls int
	err   error
}

func (s *countingSink) RecordMatchResult(string, model.MatchResult) error {
	s.calls++
	return s.err
}

func TestMultiSink_FansOut(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	m := NewMultiSink(a, NopSink{}, b)
	if err := m.RecordMatchResult("evt", model.MatchResult{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected every sink recorded once: %d, %d", a.calls, b.calls)
	}
}

func TestMultiSink_FirstErrorWins(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")
	tail := &countingSink{}
	m := NewMultiSink(&countingSink{err: e1}, &countingSink{err: e2}, tail)
	if err := m.RecordMatchResult("evt", model.MatchResult{}); !errors.Is(err, e1) {
		t.Fatalf("expected first error, got %v", err)
	}
	// Later sinks still record despite the earlier failure.
	if tail.calls != 1 {
		t.Fatalf("tail sink skipped")
	}
}
