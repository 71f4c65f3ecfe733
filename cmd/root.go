// Package cmd implements the matchd command line interface.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/roster"
)

var (
	cfgPath    string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "matchd",
	Short: "Progressive dinner matching engine",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "roster seed file (json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// rosterSeed is the on-disk shape of a roster seed file.
type rosterSeed struct {
	Registrations []seedRegistration `json:"registrations"`
	Teams         []roster.Team      `json:"teams"`
	Profiles      []roster.Profile   `json:"profiles"`
}

type seedRegistration struct {
	ID               string          `json:"id"`
	EventID          string          `json:"event_id"`
	Email            string          `json:"email"`
	Confirmed        bool            `json:"confirmed"`
	Gender           string          `json:"gender"`
	Diet             string          `json:"diet"`
	Allergies        []string        `json:"allergies"`
	HostAllergies    []string        `json:"host_allergies"`
	CoursePreference string          `json:"course_preference"`
	CanHostMain      *bool           `json:"can_host_main"`
	HasKitchen       *bool           `json:"has_kitchen"`
	Address          string          `json:"address"`
	Location         *model.Location `json:"location"`
	TeamID           string          `json:"team_id"`
}

// loadRoster reads the seed file into a memory store. An empty path yields
// an empty store.
func loadRoster(path string) (*roster.MemoryStore, error) {
	store := roster.NewMemoryStore()
	if path == "" {
		return store, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var seed rosterSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for _, r := range seed.Registrations {
		store.AddRegistration(roster.Registration{
			ID:               r.ID,
			EventID:          r.EventID,
			Email:            r.Email,
			Confirmed:        r.Confirmed,
			Gender:           r.Gender,
			Diet:             model.ParseDiet(r.Diet),
			Allergies:        r.Allergies,
			HostAllergies:    r.HostAllergies,
			CoursePreference: model.Phase(r.CoursePreference),
			CanHostMain:      r.CanHostMain,
			HasKitchen:       r.HasKitchen,
			Address:          r.Address,
			Location:         r.Location,
			TeamID:           r.TeamID,
		})
	}
	for _, t := range seed.Teams {
		store.AddTeam(t)
	}
	for _, p := range seed.Profiles {
		store.SetProfile(p)
	}
	return store, nil
}
