package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchup-engine/internal/config"
	"github.com/yourusername/matchup-engine/internal/engine"
	"github.com/yourusername/matchup-engine/internal/models"
	"github.com/yourusername/matchup-engine/internal/service"
)

type stubTeamRepo struct {
	teams map[uuid.UUID]*models.TeamRanking
}

func (r *stubTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TeamRanking, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return team, nil
}

func (r *stubTeamRepo) GetByAgeGroup(ctx context.Context, ageGroup string, limit int) ([]*models.TeamRanking, error) {
	return nil, nil
}

type stubGameRepo struct{}

func (r *stubGameRepo) GetByTeams(ctx context.Context, teamAID, teamBID uuid.UUID) ([]*models.Game, error) {
	return nil, nil
}

func (r *stubGameRepo) GetByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]*models.Game, error) {
	return nil, nil
}

func newTestServer(teams ...*models.TeamRanking) *Server {
	teamRepo := &stubTeamRepo{teams: map[uuid.UUID]*models.TeamRanking{}}
	for _, team := range teams {
		teamRepo.teams[team.ID] = team
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	predictor := engine.NewPredictor(nil, log)
	explainer := engine.NewExplainer(nil)
	cache := service.NewComparisonCache(time.Minute, 100)
	comparison := service.NewComparisonService(teamRepo, &stubGameRepo{}, predictor, explainer, cache, log)

	cfg := &config.ServerConfig{
		Port:              8080,
		HealthPort:        8081,
		RequestsPerSecond: 1000,
		BurstSize:         1000,
	}
	return NewServer(cfg, comparison, log)
}

func apiTeam(name string, power float64) *models.TeamRanking {
	return &models.TeamRanking{
		ID:          uuid.New(),
		Name:        name,
		AgeGroup:    "U12",
		PowerScore:  power,
		SOS:         0.5,
		GamesPlayed: 15,
		UpdatedAt:   time.Now(),
	}
}

func postMatchup(t *testing.T, srv *Server, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matchups", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleCompareSuccess(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	teamB := apiTeam("Lightning", 0.5)
	srv := newTestServer(teamA, teamB)

	rec := postMatchup(t, srv, map[string]string{
		"team_a_id": teamA.ID.String(),
		"team_b_id": teamB.ID.String(),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result service.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.WinnerTeamA, result.Prediction.PredictedWinner)
	assert.NotEmpty(t, result.Explanation.Summary)
	assert.Equal(t, "Thunder", result.TeamA.Name)
}

func TestHandleCompareInvalidUUID(t *testing.T) {
	srv := newTestServer()

	rec := postMatchup(t, srv, map[string]string{
		"team_a_id": "not-a-uuid",
		"team_b_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompareInvalidBody(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matchups", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompareSameTeam(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	srv := newTestServer(teamA)

	rec := postMatchup(t, srv, map[string]string{
		"team_a_id": teamA.ID.String(),
		"team_b_id": teamA.ID.String(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCompareMixedAgeGroups(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	teamB := apiTeam("Lightning", 0.5)
	teamB.AgeGroup = "U14"
	srv := newTestServer(teamA, teamB)

	rec := postMatchup(t, srv, map[string]string{
		"team_a_id": teamA.ID.String(),
		"team_b_id": teamB.ID.String(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCompareUnknownTeam(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	srv := newTestServer(teamA)

	rec := postMatchup(t, srv, map[string]string{
		"team_a_id": teamA.ID.String(),
		"team_b_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTeamForm(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	srv := newTestServer(teamA)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/teams/%s/form?window=3", teamA.ID), nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, teamA.ID.String(), resp.TeamID)
	assert.Equal(t, 3, resp.Window)
	assert.Zero(t, resp.Form)
}

func TestHandleTeamFormBadWindow(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	srv := newTestServer(teamA)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/teams/%s/form?window=zero", teamA.ID), nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCacheStats(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Contains(t, stats, "hits")
	assert.Contains(t, stats, "misses")
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	teamA := apiTeam("Thunder", 0.7)
	srv := newTestServer(teamA)
	srv.limiter.SetLimit(1)
	srv.limiter.SetBurst(1)

	router := srv.Router()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
