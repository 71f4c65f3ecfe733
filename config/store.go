package config

import (
	"sync"

	"github.com/dinehop/matchd/core/match"
	"github.com/dinehop/matchd/core/model"
)

// Store hands out immutable snapshots of the current configuration and
// supports reloading it while the process runs. Jobs capture a snapshot at
// start, so a reload never leaks into a running job.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// NewStore wraps an already loaded configuration.
func NewStore(path string, cfg *Config) *Store {
	return &Store{path: path, cfg: *cfg}
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	cfg.Matching.Phases = append([]model.Phase(nil), s.cfg.Matching.Phases...)
	return cfg
}

// Matching returns a copy of the matching section only.
func (s *Store) Matching() match.Config {
	return s.Snapshot().Matching
}

// Reload re-reads the configuration file. On error the previous
// configuration stays active.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = *cfg
	s.mu.Unlock()
	return nil
}

// Update replaces the matching section, for callers that tune options
// programmatically (e.g. benchmark sweeps).
func (s *Store) Update(m match.Config) {
	s.mu.Lock()
	s.cfg.Matching = m
	s.mu.Unlock()
}
