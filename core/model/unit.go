package model

import (
	"fmt"
	"sort"
	"strings"
)

// UnitKind identifies the provenance of a matching unit.
type UnitKind int

const (
	UnitSolo UnitKind = iota
	UnitTeam
	UnitPair
	UnitSplit
)

// String returns the id prefix for the kind.
func (k UnitKind) String() string {
	switch k {
	case UnitSolo:
		return "solo"
	case UnitTeam:
		return "team"
	case UnitPair:
		return "pair"
	case UnitSplit:
		return "split"
	default:
		return "unknown"
	}
}

// UnitID is a typed unit identifier. The string form encodes the kind as a
// prefix: solo:<id>, team:<id>, pair:<left>+<right>, split:<source>/<part>.
type UnitID struct {
	Kind UnitKind
	// ID is the primary identifier: registration id for solos, team id for
	// teams, the left member for pairs and the source unit for splits.
	ID string
	// Aux carries the right member for pairs and the part label for splits.
	Aux string
}

func SoloID(id string) UnitID { return UnitID{Kind: UnitSolo, ID: id} }
func TeamID(id string) UnitID { return UnitID{Kind: UnitTeam, ID: id} }
func PairID(l, r string) UnitID {
	return UnitID{Kind: UnitPair, ID: l, Aux: r}
}
func SplitID(src, part string) UnitID {
	return UnitID{Kind: UnitSplit, ID: src, Aux: part}
}

// String renders the tagged storage form of the id.
func (u UnitID) String() string {
	switch u.Kind {
	case UnitPair:
		return fmt.Sprintf("pair:%s+%s", u.ID, u.Aux)
	case UnitSplit:
		return fmt.Sprintf("split:%s/%s", u.ID, u.Aux)
	default:
		return fmt.Sprintf("%s:%s", u.Kind, u.ID)
	}
}

// Pairable reports whether the unit may participate in solo auto-pairing.
// Split units are derived partial units and never pairing candidates.
func (u UnitID) Pairable() bool {
	return u.Kind != UnitSplit
}

// ParseUnitID parses the tagged string form produced by String.
func ParseUnitID(s string) (UnitID, error) {
	prefix, rest, ok := strings.Cut(s, ":")
	if !ok {
		return UnitID{}, fmt.Errorf("unit id %q: missing kind prefix", s)
	}
	switch prefix {
	case "solo":
		return SoloID(rest), nil
	case "team":
		return TeamID(rest), nil
	case "pair":
		l, r, ok := strings.Cut(rest, "+")
		if !ok {
			return UnitID{}, fmt.Errorf("pair id %q: missing separator", s)
		}
		return PairID(l, r), nil
	case "split":
		src, part, ok := strings.Cut(rest, "/")
		if !ok {
			return UnitID{}, fmt.Errorf("split id %q: missing separator", s)
		}
		return SplitID(src, part), nil
	default:
		return UnitID{}, fmt.Errorf("unit id %q: unknown kind %q", s, prefix)
	}
}

// Diet is a ranked dietary requirement. Higher values are stricter and win
// when units merge.
type Diet int

const (
	DietOmnivore Diet = iota
	DietPescetarian
	DietVegetarian
	DietVegan
)

func (d Diet) String() string {
	switch d {
	case DietOmnivore:
		return "omnivore"
	case DietPescetarian:
		return "pescetarian"
	case DietVegetarian:
		return "vegetarian"
	case DietVegan:
		return "vegan"
	default:
		return "unknown"
	}
}

// ParseDiet maps the stored string form back to a Diet. Unknown values fall
// back to omnivore, the least restrictive requirement.
func ParseDiet(s string) Diet {
	switch strings.ToLower(s) {
	case "vegan":
		return DietVegan
	case "vegetarian":
		return DietVegetarian
	case "pescetarian":
		return DietPescetarian
	default:
		return DietOmnivore
	}
}

// Strictest returns the stricter of two diets.
func Strictest(a, b Diet) Diet {
	if a > b {
		return a
	}
	return b
}

// Location is a geocoded coordinate. Units without one carry a nil pointer;
// (0,0) is a valid point in the Gulf of Guinea, not a default.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MemberProfile describes one person inside a unit.
type MemberProfile struct {
	Email     string   `json:"email"`
	Gender    string   `json:"gender,omitempty"`
	Allergies []string `json:"allergies,omitempty"`
}

// MatchingUnit is the atomic assignable entity: a solo participant, an
// existing team, or a synthetic pair built by auto-pairing.
type MatchingUnit struct {
	ID   UnitID
	Size int
	// Address is the raw registration address, kept for late geocoding.
	Address          string
	Location         *Location
	TeamDiet         Diet
	Allergies        map[string]struct{}
	HostAllergies    map[string]struct{}
	CanHostAny       bool
	CanHostMain      bool
	CoursePreference Phase
	HostEmails       []string
	MemberProfiles   []MemberProfile
	GenderMix        []string
}

// CanHost reports whether the unit can host the given phase at all.
// A unit without any hosting capability can only ever be a guest.
func (u MatchingUnit) CanHost(p Phase) bool {
	if p == PhaseMain {
		return u.CanHostMain || u.CanHostAny
	}
	return u.CanHostAny || u.CanHostMain
}

// Hostless reports whether the unit has no hosting capability at all.
func (u MatchingUnit) Hostless() bool {
	return !u.CanHostAny && !u.CanHostMain
}

// PrimaryEmail returns the unit's primary contact, if any.
func (u MatchingUnit) PrimaryEmail() string {
	if len(u.HostEmails) == 0 {
		return ""
	}
	return u.HostEmails[0]
}

// AllergyList returns the unit's declared allergies in sorted order.
func (u MatchingUnit) AllergyList() []string {
	out := make([]string, 0, len(u.Allergies))
	for a := range u.Allergies {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// NewStringSet builds a set from the given values, skipping empties.
func NewStringSet(vals ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v == "" {
			continue
		}
		s[v] = struct{}{}
	}
	return s
}

// UnionSets returns a new set holding the union of a and b.
func UnionSets(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
