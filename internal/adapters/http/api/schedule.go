// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/parishops/rosterd/internal/domain/roles"
)

// ScheduleHandler handles roster write requests.
type ScheduleHandler struct {
	deps Dependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps Dependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

// saveRosterRequest carries one (date, service_time) upsert. Roles maps
// role keys to comma-joined people; unknown role keys are rejected.
type saveRosterRequest struct {
	Date        string            `json:"date"`
	ServiceTime string            `json:"service_time"`
	Roles       map[string]string `json:"roles"`
}

func (req saveRosterRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Date) == "":
		return errors.New("missing date")
	case strings.TrimSpace(req.ServiceTime) == "":
		return errors.New("missing service_time")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD")
	}
	for token := range req.Roles {
		if _, ok := roles.Known(token); !ok {
			return errors.New("unknown role key: " + token)
		}
	}
	return nil
}

type saveRosterResponse struct {
	Status string `json:"status"`
}

// HandleSaveRoster handles PUT /schedule requests.
func (h *ScheduleHandler) HandleSaveRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}

	var req saveRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	fields := make(map[roles.Key]string, len(req.Roles))
	for token, value := range req.Roles {
		k, _ := roles.Known(token)
		fields[k] = value
	}

	if err := h.deps.SaveRoster(r.Context(), req.Date, req.ServiceTime, fields); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unable_to_save", errors.New("unable to save schedule"))
		return
	}
	writeJSON(w, http.StatusOK, saveRosterResponse{Status: "saved"})
}
