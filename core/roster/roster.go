package roster

import (
	"context"

	"github.com/dinehop/matchd/core/model"
)

// Registration is one confirmed sign-up for an event. Capability fields are
// tri-state: nil means the registration did not answer and the profile
// default applies.
type Registration struct {
	ID               string
	EventID          string
	Email            string
	Confirmed        bool
	Gender           string
	Diet             model.Diet
	Allergies        []string
	HostAllergies    []string
	CoursePreference model.Phase
	CanHostMain      *bool
	HasKitchen       *bool
	Address          string
	Location         *model.Location
	// TeamID links the registration to an existing team, empty for solos.
	TeamID string
}

// Profile carries per-user defaults applied when a registration leaves a
// capability question unanswered.
type Profile struct {
	Email              string
	Gender             string
	Allergies          []string
	DefaultCanHostMain bool
	DefaultHasKitchen  bool
}

// Team is a pre-formed group of participants registering together.
type Team struct {
	ID           string
	EventID      string
	Name         string
	MemberEmails []string
}

// Store is the read-only boundary to registration, team and profile state.
// The matching core only ever queries it; all writes happen elsewhere.
type Store interface {
	ConfirmedRegistrations(ctx context.Context, eventID string) ([]Registration, error)
	Teams(ctx context.Context, eventID string) ([]Team, error)
	Profiles(ctx context.Context, emails []string) (map[string]Profile, error)
}
