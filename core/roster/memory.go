package roster

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and the CLI.
type MemoryStore struct {
	mu       sync.RWMutex
	regs     map[string][]Registration // keyed by event id
	teams    map[string][]Team
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		regs:     map[string][]Registration{},
		teams:    map[string][]Team{},
		profiles: map[string]Profile{},
	}
}

// AddRegistration seeds a registration.
func (s *MemoryStore) AddRegistration(r Registration) {
	s.mu.Lock()
	s.regs[r.EventID] = append(s.regs[r.EventID], r)
	s.mu.Unlock()
}

// AddTeam seeds a team.
func (s *MemoryStore) AddTeam(t Team) {
	s.mu.Lock()
	s.teams[t.EventID] = append(s.teams[t.EventID], t)
	s.mu.Unlock()
}

// SetProfile seeds a user profile.
func (s *MemoryStore) SetProfile(p Profile) {
	s.mu.Lock()
	s.profiles[p.Email] = p
	s.mu.Unlock()
}

func (s *MemoryStore) ConfirmedRegistrations(_ context.Context, eventID string) ([]Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Registration
	for _, r := range s.regs[eventID] {
		if r.Confirmed {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Teams(_ context.Context, eventID string) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Team(nil), s.teams[eventID]...), nil
}

func (s *MemoryStore) Profiles(_ context.Context, emails []string) (map[string]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Profile, len(emails))
	for _, e := range emails {
		if p, ok := s.profiles[e]; ok {
			out[e] = p
		}
	}
	return out, nil
}
