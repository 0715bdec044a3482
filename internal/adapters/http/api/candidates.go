// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/parishops/rosterd/internal/domain/roles"
)

// CandidatesHandler serves the eligible-candidate pool and team
// groupings role-assignment menus are built from.
type CandidatesHandler struct {
	deps Dependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps Dependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

type candidatesResponse struct {
	Role   string              `json:"role"`
	Label  string              `json:"label"`
	Multi  bool                `json:"multi"`
	People []personResponse    `json:"people"`
	Teams  map[string][]string `json:"teams,omitempty"`
}

// HandleGetCandidates handles GET /candidates/{role} requests.
func (h *CandidatesHandler) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	token, ok := pathParam(r, "/candidates/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	role, ok := roles.Known(token)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrBadRequest)
		return
	}

	people, err := h.deps.EligibleCandidates(r.Context(), role)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	groups, err := h.deps.TeamGroups(r.Context(), role)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	resp := candidatesResponse{
		Role:   string(role),
		Label:  roles.Label(role),
		Multi:  roles.Multi(role),
		People: make([]personResponse, len(people)),
	}
	for i, p := range people {
		resp.People[i] = personResponse{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Category:    string(p.Category),
			Tags:        p.Tags,
		}
	}
	if len(groups) > 0 {
		resp.Teams = make(map[string][]string, len(groups))
		for team, ids := range groups {
			resp.Teams[strconv.Itoa(team)] = ids
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
