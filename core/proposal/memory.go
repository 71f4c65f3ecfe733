package proposal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dinehop/matchd/core/model"
)

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[int]model.MatchProposal // event id -> version -> proposal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[int]model.MatchProposal{}}
}

func (s *MemoryStore) Insert(_ context.Context, p model.MatchProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs, ok := s.data[p.EventID]
	if !ok {
		evs = map[int]model.MatchProposal{}
		s.data[p.EventID] = evs
	}
	if _, taken := evs[p.Version]; taken {
		return ErrVersionConflict
	}
	evs[p.Version] = p
	return nil
}

func (s *MemoryStore) MaxVersion(_ context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxV := 0
	for v := range s.data[eventID] {
		if v > maxV {
			maxV = v
		}
	}
	return maxV, nil
}

func (s *MemoryStore) Get(_ context.Context, eventID string, version int) (model.MatchProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[eventID][version]
	if !ok {
		return model.MatchProposal{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Latest(ctx context.Context, eventID string) (model.MatchProposal, error) {
	v, _ := s.MaxVersion(ctx, eventID)
	if v == 0 {
		return model.MatchProposal{}, ErrNotFound
	}
	return s.Get(ctx, eventID, v)
}

func (s *MemoryStore) List(_ context.Context, eventID string) ([]model.MatchProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MatchProposal, 0, len(s.data[eventID]))
	for _, p := range s.data[eventID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *MemoryStore) Finalize(_ context.Context, eventID string, version int, operator string) (model.MatchProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[eventID][version]
	if !ok {
		return model.MatchProposal{}, ErrNotFound
	}
	if p.Status != model.ProposalProposed {
		return model.MatchProposal{}, ErrBadTransition
	}
	now := time.Now().UTC()
	p.Status = model.ProposalFinalized
	p.FinalizedBy = operator
	p.FinalizedAt = &now
	s.data[eventID][version] = p
	return p, nil
}

func (s *MemoryStore) Archive(_ context.Context, eventID string, version int) (model.MatchProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[eventID][version]
	if !ok {
		return model.MatchProposal{}, ErrNotFound
	}
	if p.Status == model.ProposalArchived {
		return p, nil
	}
	p.Status = model.ProposalArchived
	s.data[eventID][version] = p
	return p, nil
}
