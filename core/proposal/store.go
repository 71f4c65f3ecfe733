// Package proposal persists versioned match proposals.
package proposal

import (
	"context"
	"errors"

	"github.com/dinehop/matchd/core/model"
)

// ErrVersionConflict is returned by Insert when the event/version pair
// already exists. Writers retry with the next version; a proposal is never
// overwritten.
var ErrVersionConflict = errors.New("proposal: version conflict")

// ErrNotFound is returned when no proposal matches the query.
var ErrNotFound = errors.New("proposal: not found")

// ErrBadTransition is returned for status transitions the lifecycle does not
// allow.
var ErrBadTransition = errors.New("proposal: invalid status transition")

// Store persists match proposals. Versions are monotone per event and
// immutable once written.
type Store interface {
	// Insert writes a new proposal, failing with ErrVersionConflict when
	// the version is already taken for the event.
	Insert(ctx context.Context, p model.MatchProposal) error
	// MaxVersion returns the highest persisted version for the event, zero
	// when none exist.
	MaxVersion(ctx context.Context, eventID string) (int, error)
	// Get fetches one proposal by event and version.
	Get(ctx context.Context, eventID string, version int) (model.MatchProposal, error)
	// Latest fetches the highest-versioned proposal for the event.
	Latest(ctx context.Context, eventID string) (model.MatchProposal, error)
	// List returns all versions for the event in ascending version order.
	List(ctx context.Context, eventID string) ([]model.MatchProposal, error)
	// Finalize transitions proposed -> finalized, recording the operator.
	// This is the only path to finalized and cannot be undone.
	Finalize(ctx context.Context, eventID string, version int, operator string) (model.MatchProposal, error)
	// Archive transitions a proposal to archived.
	Archive(ctx context.Context, eventID string, version int) (model.MatchProposal, error)
}
