package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/yourusername/matchup-engine/internal/engine"
	"github.com/yourusername/matchup-engine/internal/models"
)

type compareRequest struct {
	TeamAID string `json:"team_a_id"`
	TeamBID string `json:"team_b_id"`
}

type formResponse struct {
	TeamID string  `json:"team_id"`
	Window int     `json:"window"`
	Form   float64 `json:"form"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleCompare serves POST /api/v1/matchups.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	teamAID, err := uuid.Parse(req.TeamAID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "team_a_id is not a valid UUID")
		return
	}
	teamBID, err := uuid.Parse(req.TeamBID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "team_b_id is not a valid UUID")
		return
	}

	result, err := s.comparison.CompareTeams(r.Context(), teamAID, teamBID)
	if err != nil {
		s.writeComparisonError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleTeamForm serves GET /api/v1/teams/{id}/form.
func (s *Server) handleTeamForm(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "team id is not a valid UUID")
		return
	}

	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
	}

	form, err := s.comparison.TeamForm(r.Context(), teamID, window)
	if err != nil {
		s.writeComparisonError(w, err)
		return
	}

	if window <= 0 {
		window = engine.DefaultFormWindow
	}
	writeJSON(w, http.StatusOK, formResponse{
		TeamID: teamID.String(),
		Window: window,
		Form:   form,
	})
}

// handleCacheStats serves GET /api/v1/cache/stats for operational tooling.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	hits, misses, ratio := s.comparison.CacheStats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	})
}

func (s *Server) writeComparisonError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrSameTeam):
		writeError(w, http.StatusUnprocessableEntity, "cannot compare a team against itself")
	case errors.Is(err, models.ErrAgeGroupMixed):
		writeError(w, http.StatusUnprocessableEntity, "teams must be in the same age group")
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "team not found")
	default:
		s.logger.WithError(err).Error("Comparison failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
