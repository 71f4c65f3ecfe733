// Package jobs exposes the matching job lifecycle over HTTP.
package jobs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dinehop/matchd/core/job"
	"github.com/dinehop/matchd/core/match"
)

// ConfigProvider supplies the matching configuration snapshot for new jobs.
type ConfigProvider func() match.Config

type startRequest struct {
	EventID    string        `json:"event_id"`
	Algorithms []string      `json:"algorithms,omitempty"`
	Options    *match.Config `json:"options,omitempty"`
}

type startResponse struct {
	JobID string `json:"job_id"`
	Poll  string `json:"poll"`
}

// NewStartHandler returns an HTTP handler starting matching jobs via
// POST /api/match/jobs. The request body names the event and, optionally,
// the algorithms to race and configuration overrides for this job only.
func NewStartHandler(orc *job.Orchestrator, cfg ConfigProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.EventID == "" {
			http.Error(w, "event_id is required", http.StatusBadRequest)
			return
		}
		jobCfg := cfg()
		if req.Options != nil {
			jobCfg = *req.Options
			jobCfg.SetDefaults()
			if err := jobCfg.Validate(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		id := orc.Start(req.EventID, req.Algorithms, jobCfg)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(startResponse{
			JobID: id,
			Poll:  "/api/match/jobs/" + id,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewStatusHandler returns an HTTP handler serving job state via
// GET /api/match/jobs/{id}. Terminal jobs carry the result or the error.
func NewStatusHandler(orc *job.Orchestrator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		j, err := orc.Status(r.PathValue("id"))
		if errors.Is(err, job.ErrJobNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(j); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewCancelHandler returns an HTTP handler requesting cooperative job
// cancellation via POST /api/match/jobs/{id}/cancel. Cancelling a terminal
// job is a no-op and still answers 202.
func NewCancelHandler(orc *job.Orchestrator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		err := orc.Cancel(r.PathValue("id"))
		if errors.Is(err, job.ErrJobNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
}
