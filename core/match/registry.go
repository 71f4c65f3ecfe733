package match

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dinehop/matchd/core/model"
)

// ErrUnknownAlgorithm is returned when a requested algorithm name is not
// registered. Jobs fail fast on it before any work starts.
var ErrUnknownAlgorithm = errors.New("match: unknown algorithm")

// ErrNoUnits is returned when an event has no matchable units.
var ErrNoUnits = errors.New("match: no units to assign")

// Algorithm produces a phase-by-phase host/guest schedule from a shared
// immutable unit snapshot.
type Algorithm interface {
	Name() string
	Run(ctx context.Context, mc *Context) (model.MatchResult, error)
}

// Registry maps algorithm names to implementations.
type Registry struct {
	algos map[string]Algorithm
}

// NewRegistry creates a registry preloaded with the built-in algorithms.
func NewRegistry() *Registry {
	r := &Registry{algos: map[string]Algorithm{}}
	r.Register(&GreedyAlgorithm{})
	return r
}

// Register adds an algorithm, replacing any previous one of the same name.
func (r *Registry) Register(a Algorithm) {
	r.algos[a.Name()] = a
}

// Resolve maps names to algorithms, failing on the first unknown name.
func (r *Registry) Resolve(names []string) ([]Algorithm, error) {
	out := make([]Algorithm, 0, len(names))
	for _, n := range names {
		a, ok := r.algos[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, n)
		}
		out = append(out, a)
	}
	return out, nil
}

// Names lists the registered algorithm names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.algos))
	for n := range r.algos {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
