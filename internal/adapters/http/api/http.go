// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/parishops/rosterd/internal/app"
	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the assembled snapshot.
	Sundays(ctx context.Context) ([]model.Sunday, error)
	Sunday(ctx context.Context, date string) (model.Sunday, error)
	EligibleCandidates(ctx context.Context, role roles.Key) ([]model.Person, error)
	TeamGroups(ctx context.Context, role roles.Key) (model.TeamAssignmentMap, error)

	// Write path. SaveRoster invalidates the snapshot on success.
	SaveRoster(ctx context.Context, date, serviceTime string, fields map[roles.Key]string) error
	SeedRotation(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the roster API.
type Server struct {
	healthHandler     *HealthHandler
	sundaysHandler    *SundaysHandler
	candidatesHandler *CandidatesHandler
	scheduleHandler   *ScheduleHandler
	seedHandler       *SeedHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		sundaysHandler:    NewSundaysHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps),
		scheduleHandler:   NewScheduleHandler(deps),
		seedHandler:       NewSeedHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/sundays", MetricsMiddleware(s.sundaysHandler.HandleListSundays, "sundays"))
	mux.HandleFunc("/sundays/", MetricsMiddleware(s.sundaysHandler.HandleGetSunday, "sunday"))
	mux.HandleFunc("/candidates/", MetricsMiddleware(s.candidatesHandler.HandleGetCandidates, "candidates"))
	mux.HandleFunc("/schedule", MetricsMiddleware(s.scheduleHandler.HandleSaveRoster, "schedule"))
	mux.HandleFunc("/seed", MetricsMiddleware(s.seedHandler.HandleSeed, "seed"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLoadError translates assembler errors. Collaborator fetch
// failures surface as a generic unable-to-load signal with no
// per-field detail.
func writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrSundayUnknown):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrFetch):
		writeError(w, http.StatusServiceUnavailable, "unable_to_load", errors.New("unable to load schedule"))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// pathParam extracts the single path segment after prefix.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}
