// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// SundaysHandler serves the assembled Sunday aggregates.
type SundaysHandler struct {
	deps Dependencies
}

// NewSundaysHandler creates a new sundays handler.
func NewSundaysHandler(deps Dependencies) *SundaysHandler {
	return &SundaysHandler{deps: deps}
}

// HandleListSundays handles GET /sundays requests.
func (h *SundaysHandler) HandleListSundays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sundays, err := h.deps.Sundays(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	out := make([]sundayResponse, len(sundays))
	for i, s := range sundays {
		out[i] = toSundayResponse(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSunday handles GET /sundays/{date} requests.
func (h *SundaysHandler) HandleGetSunday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	date, ok := pathParam(r, "/sundays/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sunday, err := h.deps.Sunday(r.Context(), date)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSundayResponse(sunday))
}

type personResponse struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type assignmentResponse struct {
	Status string           `json:"status"`
	People []personResponse `json:"people"`
}

type serviceResponse struct {
	Time      string                        `json:"time"`
	TimeLabel string                        `json:"time_label"`
	Rite      string                        `json:"rite"`
	Location  string                        `json:"location"`
	Roster    map[string]assignmentResponse `json:"roster"`
}

type sundayResponse struct {
	Date     string            `json:"date"`
	Feast    string            `json:"feast,omitempty"`
	Color    string            `json:"color,omitempty"`
	Readings string            `json:"readings,omitempty"`
	Services []serviceResponse `json:"services"`
}

func toSundayResponse(s model.Sunday) sundayResponse {
	out := sundayResponse{
		Date:     s.Day.Date.Format("2006-01-02"),
		Feast:    s.Day.Feast,
		Color:    s.Day.Color,
		Readings: s.Day.Readings,
		Services: make([]serviceResponse, len(s.Services)),
	}
	for i, svc := range s.Services {
		roster := make(map[string]assignmentResponse, len(svc.Roster))
		for k, a := range svc.Roster {
			roster[string(k)] = toAssignmentResponse(a)
		}
		out.Services[i] = serviceResponse{
			Time:      svc.Time,
			TimeLabel: serviceTimeLabel(svc.Time),
			Rite:      svc.Rite,
			Location:  svc.Location,
			Roster:    roster,
		}
	}
	return out
}

func toAssignmentResponse(a model.Assignment) assignmentResponse {
	people := make([]personResponse, len(a.People))
	for i, p := range a.People {
		people[i] = personResponse{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Category:    string(p.Category),
			Tags:        p.Tags,
		}
	}
	return assignmentResponse{Status: string(a.Status), People: people}
}

// serviceTimeLabel renders the customary label for a service time.
func serviceTimeLabel(t string) string {
	trimmed := strings.TrimSpace(t)
	switch {
	case roles.EarlyService(trimmed):
		return "8:00 AM"
	case strings.HasPrefix(trimmed, "10"):
		return "10 AM"
	default:
		return trimmed
	}
}
