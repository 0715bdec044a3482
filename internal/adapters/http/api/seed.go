// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
)

// SeedHandler triggers the guarded rotation seeder.
type SeedHandler struct {
	deps Dependencies
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(deps Dependencies) *SeedHandler {
	return &SeedHandler{deps: deps}
}

type seedResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// HandleSeed handles POST /seed requests. Seeding a non-empty store is
// a no-op reported as skipped, not an error.
func (h *SeedHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	n, err := h.deps.SeedRotation(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unable_to_save", errors.New("unable to seed schedule"))
		return
	}
	status := "seeded"
	if n == 0 {
		status = "skipped"
	}
	writeJSON(w, http.StatusOK, seedResponse{Status: status, Rows: n})
}
