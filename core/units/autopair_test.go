package units

import (
	"reflect"
	"testing"

	"github.com/dinehop/matchd/core/model"
)

func solo(id string, hostAny, hostMain bool, gender string, pref model.Phase) model.MatchingUnit {
	return model.MatchingUnit{
		ID:          model.SoloID(id),
		Size:        1,
		CanHostAny:  hostAny,
		CanHostMain: hostMain,
		GenderMix:   []string{gender},
		HostEmails:  []string{id + "@example.com"},
		MemberProfiles: []model.MemberProfile{
			{Email: id + "@example.com", Gender: gender},
		},
		CoursePreference: pref,
	}
}

func TestAutoPairSolosMergesCapabilities(t *testing.T) {
	a := solo("r1", true, false, "f", model.PhaseAppetizer)
	b := solo("r2", false, true, "m", model.PhaseDessert)
	emails := map[string][]string{
		"solo:r1": {"r1@example.com"},
		"solo:r2": {"r2@example.com"},
	}
	units, outEmails, details := AutoPairSolos([]model.MatchingUnit{a, b}, emails)
	if len(units) != 1 {
		t.Fatalf("expected 1 pair unit, got %d", len(units))
	}
	p := units[0]
	if p.ID.Kind != model.UnitPair || p.ID.String() != "pair:r1+r2" {
		t.Fatalf("unexpected pair id %s", p.ID)
	}
	if p.Size != 2 || !p.CanHostAny || !p.CanHostMain {
		t.Fatalf("capabilities not merged: %+v", p)
	}
	if !reflect.DeepEqual(p.GenderMix, []string{"f", "m"}) {
		t.Fatalf("gender mix order lost: %v", p.GenderMix)
	}
	wantEmails := []string{"r1@example.com", "r2@example.com"}
	if !reflect.DeepEqual(p.HostEmails, wantEmails) {
		t.Fatalf("host emails order lost: %v", p.HostEmails)
	}
	if !reflect.DeepEqual(outEmails["pair:r1+r2"], wantEmails) {
		t.Fatalf("email map not updated: %v", outEmails)
	}
	if len(details) != 1 || details[0].LeftID != "solo:r1" || details[0].RightID != "solo:r2" {
		t.Fatalf("pairing detail wrong: %+v", details)
	}
}

func TestAutoPairSolosSkipsHostless(t *testing.T) {
	a := solo("r1", false, false, "f", model.PhaseNone)
	b := solo("r2", false, false, "m", model.PhaseNone)
	emails := map[string][]string{
		"solo:r1": {"r1@example.com"},
		"solo:r2": {"r2@example.com"},
	}
	units, outEmails, details := AutoPairSolos([]model.MatchingUnit{a, b}, emails)
	if len(details) != 0 {
		t.Fatalf("expected no pairings, got %d", len(details))
	}
	if len(units) != 2 {
		t.Fatalf("units changed: %d", len(units))
	}
	if !reflect.DeepEqual(outEmails, emails) {
		t.Fatalf("email map changed: %v", outEmails)
	}
}

func TestAutoPairSolosNeverMergesSplits(t *testing.T) {
	a := solo("r1", true, true, "f", model.PhaseNone)
	sp := model.MatchingUnit{
		ID:         model.SplitID("t1", "a"),
		Size:       1,
		CanHostAny: true,
	}
	units, _, details := AutoPairSolos([]model.MatchingUnit{a, sp}, map[string][]string{})
	if len(details) != 0 {
		t.Fatalf("split unit was paired: %+v", details)
	}
	if len(units) != 2 {
		t.Fatalf("expected pass-through, got %d units", len(units))
	}
}

func TestAutoPairSolosStrictestDietAndAllergies(t *testing.T) {
	a := solo("r1", true, false, "f", model.PhaseNone)
	a.TeamDiet = model.DietVegan
	a.Allergies = model.NewStringSet("nuts")
	b := solo("r2", false, true, "m", model.PhaseNone)
	b.TeamDiet = model.DietOmnivore
	b.Allergies = model.NewStringSet("gluten")
	units, _, _ := AutoPairSolos([]model.MatchingUnit{a, b}, map[string][]string{})
	p := units[0]
	if p.TeamDiet != model.DietVegan {
		t.Fatalf("expected strictest diet vegan, got %s", p.TeamDiet)
	}
	for _, al := range []string{"nuts", "gluten"} {
		if _, ok := p.Allergies[al]; !ok {
			t.Fatalf("allergy %s missing from union", al)
		}
	}
}

func TestAutoPairSolosOddCountLeavesOne(t *testing.T) {
	a := solo("r1", true, false, "f", model.PhaseNone)
	b := solo("r2", false, true, "m", model.PhaseNone)
	c := solo("r3", true, true, "d", model.PhaseNone)
	units, _, details := AutoPairSolos([]model.MatchingUnit{a, b, c}, map[string][]string{})
	if len(details) != 1 || len(units) != 2 {
		t.Fatalf("expected one pair and one leftover, got %d details %d units", len(details), len(units))
	}
}
