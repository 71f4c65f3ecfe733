// Package diag exposes event diagnostics over HTTP.
package diag

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dinehop/matchd/core/diag"
	"github.com/dinehop/matchd/core/proposal"
)

// NewIssuesHandler returns an HTTP handler serving the diagnostics report
// via GET /api/events/{id}/issues. Events without a persisted proposal
// answer 404.
func NewIssuesHandler(checker *diag.Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rep, err := checker.ListIssues(r.Context(), r.PathValue("id"))
		if errors.Is(err, proposal.ErrNotFound) {
			http.Error(w, "no proposal for event", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
