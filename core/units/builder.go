package units

import (
	"context"
	"fmt"
	"sort"

	"github.com/dinehop/matchd/core/logger"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/roster"
)

// BuildReport summarizes one builder run for operator visibility.
type BuildReport struct {
	TotalUnits int `json:"total_units"`
	SoloCount  int `json:"solo_count"`
	TeamCount  int `json:"team_count"`
	// Ungeocoded lists unit ids without a usable location. Those units are
	// flagged so travel scoring can penalize them; they are never silently
	// placed at (0,0).
	Ungeocoded []string `json:"ungeocoded,omitempty"`
}

// Builder normalizes confirmed registrations and teams into matching units.
type Builder struct {
	store roster.Store
	log   logger.Logger
}

// NewBuilder creates a Builder reading from the given roster store.
func NewBuilder(store roster.Store, log logger.Logger) *Builder {
	return &Builder{store: store, log: log}
}

// Build produces the initial unit set for an event together with the
// unit id to member emails map and a build report.
func (b *Builder) Build(ctx context.Context, eventID string) ([]model.MatchingUnit, map[string][]string, BuildReport, error) {
	regs, err := b.store.ConfirmedRegistrations(ctx, eventID)
	if err != nil {
		return nil, nil, BuildReport{}, fmt.Errorf("load registrations: %w", err)
	}
	teams, err := b.store.Teams(ctx, eventID)
	if err != nil {
		return nil, nil, BuildReport{}, fmt.Errorf("load teams: %w", err)
	}
	emails := make([]string, 0, len(regs))
	for _, r := range regs {
		emails = append(emails, r.Email)
	}
	profiles, err := b.store.Profiles(ctx, emails)
	if err != nil {
		return nil, nil, BuildReport{}, fmt.Errorf("load profiles: %w", err)
	}

	byTeam := make(map[string][]roster.Registration)
	var solos []roster.Registration
	for _, r := range regs {
		if r.TeamID == "" {
			solos = append(solos, r)
			continue
		}
		byTeam[r.TeamID] = append(byTeam[r.TeamID], r)
	}

	var report BuildReport
	var units []model.MatchingUnit
	unitEmails := make(map[string][]string)

	for _, r := range solos {
		u := soloUnit(r, profiles[r.Email])
		units = append(units, u)
		unitEmails[u.ID.String()] = []string{r.Email}
		report.SoloCount++
	}
	for _, t := range teams {
		members := byTeam[t.ID]
		if len(members) == 0 {
			b.log.Warnf("team %s has no confirmed registrations, skipping", t.ID)
			continue
		}
		u := teamUnit(t, members, profiles)
		units = append(units, u)
		es := make([]string, 0, len(members))
		for _, m := range members {
			es = append(es, m.Email)
		}
		unitEmails[u.ID.String()] = es
		report.TeamCount++
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].ID.String() < units[j].ID.String()
	})
	for _, u := range units {
		if u.Location == nil {
			report.Ungeocoded = append(report.Ungeocoded, u.ID.String())
		}
	}
	report.TotalUnits = len(units)
	b.log.Infof("built %d units for event %s (%d solo, %d team, %d ungeocoded)",
		report.TotalUnits, eventID, report.SoloCount, report.TeamCount, len(report.Ungeocoded))
	return units, unitEmails, report, nil
}

// soloUnit derives a unit from a single registration. Capability answers on
// the registration win; unanswered questions fall back to profile defaults.
func soloUnit(r roster.Registration, p roster.Profile) model.MatchingUnit {
	canMain := p.DefaultCanHostMain
	if r.CanHostMain != nil {
		canMain = *r.CanHostMain
	}
	canAny := p.DefaultHasKitchen
	if r.HasKitchen != nil {
		canAny = *r.HasKitchen
	}
	allergies := r.Allergies
	if len(allergies) == 0 {
		allergies = p.Allergies
	}
	return model.MatchingUnit{
		ID:               model.SoloID(r.ID),
		Size:             1,
		Address:          r.Address,
		Location:         r.Location,
		TeamDiet:         r.Diet,
		Allergies:        model.NewStringSet(allergies...),
		HostAllergies:    model.NewStringSet(r.HostAllergies...),
		CanHostAny:       canAny,
		CanHostMain:      canMain,
		CoursePreference: r.CoursePreference,
		HostEmails:       []string{r.Email},
		MemberProfiles:   []model.MemberProfile{{Email: r.Email, Gender: r.Gender, Allergies: allergies}},
		GenderMix:        []string{r.Gender},
	}
}

// teamUnit merges the confirmed member registrations of a team into one unit.
func teamUnit(t roster.Team, members []roster.Registration, profiles map[string]roster.Profile) model.MatchingUnit {
	u := model.MatchingUnit{
		ID:            model.TeamID(t.ID),
		Size:          len(members),
		TeamDiet:      model.DietOmnivore,
		Allergies:     map[string]struct{}{},
		HostAllergies: map[string]struct{}{},
	}
	for _, m := range members {
		mu := soloUnit(m, profiles[m.Email])
		u.CanHostAny = u.CanHostAny || mu.CanHostAny
		u.CanHostMain = u.CanHostMain || mu.CanHostMain
		u.TeamDiet = model.Strictest(u.TeamDiet, mu.TeamDiet)
		u.Allergies = model.UnionSets(u.Allergies, mu.Allergies)
		u.HostAllergies = model.UnionSets(u.HostAllergies, mu.HostAllergies)
		u.HostEmails = append(u.HostEmails, m.Email)
		u.MemberProfiles = append(u.MemberProfiles, mu.MemberProfiles...)
		u.GenderMix = append(u.GenderMix, m.Gender)
		if u.Location == nil && m.Location != nil {
			u.Location = m.Location
		}
		if u.Address == "" {
			u.Address = m.Address
		}
		if u.CoursePreference == model.PhaseNone {
			u.CoursePreference = m.CoursePreference
		}
	}
	return u
}
